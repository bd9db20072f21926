package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/bocspot/internal/domain/dto"
	"github.com/guttosm/bocspot/internal/domain/models"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &mockQuoteService{entries: []models.LogEntry{sampleEntry("2024/03/15", "7.825")}}
	r := NewRouter(NewHandler(svc))

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/quotes", http.StatusOK},
		{http.MethodGet, "/api/v1/quotes/latest", http.StatusOK},
		{http.MethodGet, "/api/v1/quotes/chart.png", http.StatusOK},
		{http.MethodPost, "/api/v1/quotes/fetch", http.StatusOK},
		{http.MethodGet, "/api/v1/quotes/fetch", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, w.Code)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s %s: expected X-Request-ID header", tc.method, tc.path)
		}
	}
}

func TestNewRouter_DomainErrorMapped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockQuoteService{err: models.ErrStructure}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/quotes/fetch", nil))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	var body dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Message == "" || body.Timestamp.IsZero() {
		t.Fatalf("unexpected error body %+v", body)
	}
}
