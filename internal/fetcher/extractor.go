package fetcher

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/guttosm/bocspot/internal/domain/models"
)

// RawRow carries the untyped cells a page extractor pulled out of the document.
// Date and Time are empty when the page does not publish them.
type RawRow struct {
	Label string
	Rate  string
	Date  string
	Time  string
}

// Extractor turns a decoded HTML document into the row of interest.
// Swapping the implementation is the only change needed when the page layout moves.
type Extractor interface {
	Extract(doc []byte) (RawRow, error)
}

// Column positions in the rates table:
//
//	0 currency name
//	1 spot buying   2 cash buying
//	3 spot selling  4 cash selling
//	5 conversion    6 publish date   7 publish time
const (
	labelColumn = 0
	rateColumn  = 3
	dateColumn  = 6
	timeColumn  = 7
)

// PriceTableExtractor locates the table whose id is TableID and returns the
// first data row whose first cell contains RowLabel.
type PriceTableExtractor struct {
	TableID  string
	RowLabel string
}

var _ Extractor = PriceTableExtractor{}

// Extract implements Extractor.
//
// It fails with ErrStructure when the table is missing, when no row matches,
// or when the matched row stops before the rate column.
func (e PriceTableExtractor) Extract(doc []byte) (RawRow, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return RawRow{}, fmt.Errorf("%w: parse html: %w", models.ErrStructure, err)
	}

	table := findByID(root, atom.Table, e.TableID)
	if table == nil {
		return RawRow{}, fmt.Errorf("%w: table %q not found, page layout may have changed", models.ErrStructure, e.TableID)
	}

	for _, cells := range tableRows(table) {
		if len(cells) <= labelColumn || !strings.Contains(cells[labelColumn], e.RowLabel) {
			continue
		}
		if len(cells) <= rateColumn {
			return RawRow{}, fmt.Errorf("%w: row %q has %d cells, rate column missing", models.ErrStructure, cells[labelColumn], len(cells))
		}
		return RawRow{
			Label: cells[labelColumn],
			Rate:  cells[rateColumn],
			Date:  cellAt(cells, dateColumn),
			Time:  cellAt(cells, timeColumn),
		}, nil
	}
	return RawRow{}, fmt.Errorf("%w: no row containing %q in table %q", models.ErrStructure, e.RowLabel, e.TableID)
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

// findByID walks the tree depth-first and returns the first element of the
// given kind carrying id.
func findByID(n *html.Node, a atom.Atom, id string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, a, id); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// tableRows returns the text of every data row (a <tr> with at least one <td>)
// that belongs to table itself. Rows of nested tables are not included.
func tableRows(table *html.Node) [][]string {
	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				// nested table
			case atom.Tr:
				if cells, ok := rowCells(c); ok {
					rows = append(rows, cells)
				}
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

func rowCells(tr *html.Node) ([]string, bool) {
	var cells []string
	hasData := false
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Td:
			hasData = true
			cells = append(cells, nodeText(c))
		case atom.Th:
			cells = append(cells, nodeText(c))
		}
	}
	return cells, hasData
}

// nodeText concatenates the text below n, leaving out nested tables, and
// collapses runs of whitespace.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				sb.WriteString(c.Data)
			case c.Type == html.ElementNode && c.DataAtom == atom.Table:
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
