package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	okPing := func(context.Context) error { return nil }
	badPing := func(context.Context) error { return assertErr{} }

	cases := []struct {
		name    string
		dataDir string
		ping    func(context.Context) error
		path    string
		want    int
	}{
		{name: "healthz ok", path: "/healthz", want: http.StatusOK},
		{name: "healthz ignores db", ping: badPing, path: "/healthz", want: http.StatusOK},
		{name: "readyz no mirror", dataDir: dir, path: "/readyz", want: http.StatusOK},
		{name: "readyz mirror ok", dataDir: dir, ping: okPing, path: "/readyz", want: http.StatusOK},
		{name: "readyz mirror down", dataDir: dir, ping: badPing, path: "/readyz", want: http.StatusServiceUnavailable},
		{name: "readyz data dir missing", dataDir: filepath.Join(dir, "gone"), path: "/readyz", want: http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.dataDir, tc.ping).Register(r)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.want {
				t.Fatalf("want %d got %d", tc.want, w.Code)
			}
		})
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "err" }
