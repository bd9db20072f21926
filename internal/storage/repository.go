package storage

import (
	"context"
	"database/sql"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/guttosm/bocspot/internal/domain/models"
)

// quotesTable is the mirror table name.
const quotesTable = "spot_quotes"

// QuotesRepository defines the contract for the optional Postgres mirror of the log.
type QuotesRepository interface {
	EnsureSchema(ctx context.Context) error
	InsertQuote(ctx context.Context, rec models.QuoteRecord) error
	CountBySourceDate(ctx context.Context, sourceDate string) (int, error)
}

type quotesRepository struct {
	db *sql.DB
}

// NewQuotesRepository wraps db. The caller owns the connection pool.
func NewQuotesRepository(db *sql.DB) QuotesRepository {
	return &quotesRepository{db: db}
}

// EnsureSchema creates the mirror table and its date index when missing.
func (r *quotesRepository) EnsureSchema(ctx context.Context) error {
	table := pq.QuoteIdentifier(quotesTable)
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id           BIGSERIAL PRIMARY KEY,
			local_time   TIMESTAMP      NOT NULL,
			source_date  TEXT           NOT NULL,
			source_time  TEXT           NOT NULL,
			rate_per_100 NUMERIC(12,4)  NOT NULL,
			rate_per_1   NUMERIC(12,6)  NOT NULL,
			recorded_at  TIMESTAMPTZ    NOT NULL DEFAULT NOW()
		)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS spot_quotes_source_date_idx ON %s (source_date)`, table),
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// InsertQuote mirrors one appended record. Rates are stored with the same
// precision the log uses.
func (r *quotesRepository) InsertQuote(ctx context.Context, rec models.QuoteRecord) error {
	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (local_time, source_date, source_time, rate_per_100, rate_per_1)
		VALUES ($1, $2, $3, $4, $5)`, pq.QuoteIdentifier(quotesTable)),
		rec.LocalTime,
		rec.SourceDate,
		rec.SourceTime,
		rec.RatePer100.StringFixed(4),
		rec.RatePer1.StringFixed(6),
	)
	if err != nil {
		return fmt.Errorf("insert quote %s: %w", rec.SourceDate, err)
	}
	return nil
}

// CountBySourceDate returns how many mirrored rows carry sourceDate.
func (r *quotesRepository) CountBySourceDate(ctx context.Context, sourceDate string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE source_date = $1`, pq.QuoteIdentifier(quotesTable)),
		sourceDate,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", sourceDate, err)
	}
	return n, nil
}
