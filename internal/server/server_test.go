package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func named(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(name + " " + r.URL.Path))
	}
}

func TestRouter(t *testing.T) {
	h := NewRouter(Routes{
		Products: named("products"),
		Blogs:    named("blogs"),
		Enquiry:  named("enquiry"),
		Sitemap:  named("sitemap"),
		Uploads:  named("uploads"),
	})

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/v1/products", "products /api/v1/products"},
		{http.MethodGet, "/api/v1/blogs/abc", "blogs /api/v1/blogs/abc"},
		{http.MethodPost, "/api/v1/enquiry", "enquiry /api/v1/enquiry"},
		{http.MethodGet, "/sitemap.xml", "sitemap /sitemap.xml"},
		{http.MethodGet, "/uploads/a.png", "uploads /a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, rr.Body.String())
		})
	}
}

func TestRouterWithoutLocalUploads(t *testing.T) {
	h := NewRouter(Routes{Products: named("p"), Blogs: named("b"), Enquiry: named("e"), Sitemap: named("s")})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/a.png", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouterUnknownPathIsJSON(t *testing.T) {
	h := NewRouter(Routes{Products: named("p"), Blogs: named("b"), Enquiry: named("e"), Sitemap: named("s")})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v2/nothing", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"route not found"}`, rr.Body.String())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name string
		ping func(context.Context) error
		want int
	}{
		{"no pinger", nil, http.StatusOK},
		{"healthy", func(context.Context) error { return nil }, http.StatusOK},
		{"database down", func(context.Context) error { return errors.New("refused") }, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			health(tt.ping)(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestNewServerTimeouts(t *testing.T) {
	srv := New("9090", http.NotFoundHandler(), 30*time.Second)
	assert.Equal(t, ":9090", srv.Addr)
	assert.Greater(t, srv.WriteTimeout, 30*time.Second)
}
