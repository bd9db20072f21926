package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/bocspot/internal/domain/dto"
	"github.com/guttosm/bocspot/internal/middleware"
	"github.com/guttosm/bocspot/internal/service"
)

// sourceDateLayout is the accepted format of the from/to query parameters.
const sourceDateLayout = "2006/01/02"

// maxLimit caps the limit query parameter.
const maxLimit = 10000

// Handler exposes the recorded quotes over HTTP.
//
// Handlers validate query parameters themselves (400) and hand domain errors
// to middleware.ErrorHandler through c.Error.
type Handler struct {
	svc service.QuoteService
}

// NewHandler constructs a Handler backed by svc.
func NewHandler(svc service.QuoteService) *Handler {
	return &Handler{svc: svc}
}

// ListQuotes godoc
// @Summary      List recorded quotes
// @Description  Returns the quotes in the log sorted by local time, optionally filtered by published date
// @Tags         quotes
// @Produce      json
// @Param        from   query     string  false  "First published date, YYYY/MM/DD"  example(2024/03/01)
// @Param        to     query     string  false  "Last published date, YYYY/MM/DD"   example(2024/03/31)
// @Param        limit  query     int     false  "Keep only the most recent N quotes" example(30)
// @Success      200    {object}  dto.QuotesResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/v1/quotes [get]
func (h *Handler) ListQuotes(c *gin.Context) {
	var f service.HistoryFilter
	for _, p := range []struct {
		name string
		dst  *string
	}{{"from", &f.From}, {"to", &f.To}} {
		v := strings.TrimSpace(c.Query(p.name))
		if v == "" {
			continue
		}
		if _, err := time.Parse(sourceDateLayout, v); err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid "+p.name+" format, expected YYYY/MM/DD", err)
			return
		}
		*p.dst = v
	}
	if f.From != "" && f.To != "" && f.From > f.To {
		middleware.AbortWithError(c, http.StatusBadRequest, "from must not be after to", nil)
		return
	}

	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxLimit {
			middleware.AbortWithError(c, http.StatusBadRequest, "limit must be an integer between 1 and "+strconv.Itoa(maxLimit), err)
			return
		}
		f.Limit = n
	}

	entries, err := h.svc.History(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.FromLogEntries(entries))
}

// LatestQuote godoc
// @Summary      Latest recorded quote
// @Description  Returns the most recent quote in the log
// @Tags         quotes
// @Produce      json
// @Success      200  {object}  dto.QuoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/quotes/latest [get]
func (h *Handler) LatestQuote(c *gin.Context) {
	e, err := h.svc.Latest(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.FromLogEntry(e))
}

// FetchQuote godoc
// @Summary      Fetch and record today's quote
// @Description  Downloads the rates page once and appends the quote unless its published date is already recorded
// @Tags         quotes
// @Produce      json
// @Param        force  query     bool  false  "Append even when the date is already recorded"
// @Success      200    {object}  dto.FetchResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      502    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/v1/quotes/fetch [post]
func (h *Handler) FetchQuote(c *gin.Context) {
	force := false
	if s := c.Query("force"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "force must be true or false", err)
			return
		}
		force = b
	}

	res, err := h.svc.FetchAndRecord(c.Request.Context(), force)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.FetchResponse{Written: res.Written, Quote: dto.FromQuoteRecord(res.Record)})
}

// Chart godoc
// @Summary      Rate chart
// @Description  Renders the per-unit rate over time as a PNG
// @Tags         quotes
// @Produce      png
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/quotes/chart.png [get]
func (h *Handler) Chart(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.Chart(c.Request.Context(), &buf); err != nil {
		_ = c.Error(err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
