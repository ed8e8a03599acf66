package product

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navidved/storefront/internal/resource"
	"github.com/navidved/storefront/internal/resource/resourcetest"
)

func TestHandlerRoutes(t *testing.T) {
	repo := resourcetest.NewMemory(hooks)
	svc := resource.NewService[*Product]("product", repo, resourcetest.NewFlakyMedia(t))
	h := NewHandler(svc, false).Routes()
	p, err := svc.Create(context.Background(), &Product{
		Title: "Oak chair", Description: "solid oak dining chair", Price: 49.9, Category: "chairs",
	}, nil)
	require.NoError(t, err)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/" + p.ID, http.StatusOK},
		{http.MethodGet, "/not-a-uuid", http.StatusBadRequest},
		{http.MethodDelete, "/" + p.ID, http.StatusOK},
		{http.MethodGet, "/" + p.ID, http.StatusNotFound},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, rr.Code, "%s %s: %s", tt.method, tt.path, rr.Body.String())
	}
	assert.Zero(t, repo.Len())
}
