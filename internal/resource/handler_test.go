package resource_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navidved/storefront/internal/resource"
	"github.com/navidved/storefront/internal/upload/uploadtest"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

func serve(t *testing.T, f *fixture, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Mount("/items", resource.NewHandler[*item](f.svc, itemCodec{}, false).Routes())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

var validFields = url.Values{
	"title":       {"Oak desk"},
	"description": {"a sturdy oak desk"},
	"price":       {"120.50"},
	"category":    {"furniture"},
}

func TestHandlerMalformedID(t *testing.T) {
	f := newFixture(t)
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rr := serve(t, f, httptest.NewRequest(method, "/items/not-an-id", nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "invalid item id", decodeBody[any](t, rr).Error)
		})
	}
}

func TestHandlerUnknownID(t *testing.T) {
	f := newFixture(t)
	rr := serve(t, f, httptest.NewRequest(http.MethodGet, "/items/3b241101-e2bb-4255-8caf-4136c566a962", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerCreate(t *testing.T) {
	f := newFixture(t)
	req := uploadtest.NewRequest(t, http.MethodPost, "/items", validFields,
		uploadtest.Image("a.png"), uploadtest.Image("b.png"))

	rr := serve(t, f, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	env := decodeBody[item](t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, 120.5, env.Data.Price)
	require.Len(t, env.Data.Images, 2)
	for _, img := range env.Data.Images {
		assert.True(t, f.media.Exists(img))
	}
}

func TestHandlerCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"short title", "title", "ab"},
		{"bad price", "price", "cheap"},
		{"zero price", "price", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			fields := url.Values{}
			for k, v := range validFields {
				fields[k] = v
			}
			fields.Set(tt.field, tt.value)

			rr := serve(t, f, uploadtest.NewRequest(t, http.MethodPost, "/items", fields, uploadtest.Image("a.png")))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Zero(t, f.media.StoreCalls())
		})
	}
}

func TestHandlerUpdateWithKeepList(t *testing.T) {
	f := newFixture(t)
	rec := createWithImages(t, f, "a.png", "b.png")

	fields := url.Values{
		"title":          {"Walnut desk"},
		"existingImages": {`["` + rec.Images[1].StorageID + `"]`},
	}
	req := uploadtest.NewRequest(t, http.MethodPut, "/items/"+rec.ID, fields, uploadtest.Image("c.png"))

	rr := serve(t, f, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	env := decodeBody[item](t, rr)
	assert.Equal(t, "Walnut desk", env.Data.Title)
	require.Len(t, env.Data.Images, 2)
	assert.Equal(t, rec.Images[1], env.Data.Images[0])
	assert.False(t, f.media.Exists(rec.Images[0]))
}

func TestHandlerDelete(t *testing.T) {
	f := newFixture(t)
	rec := createWithImages(t, f, "a.png")

	rr := serve(t, f, httptest.NewRequest(http.MethodDelete, "/items/"+rec.ID, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeBody[map[string]any](t, rr)
	assert.Equal(t, true, env.Data["deleted"])
	assert.Zero(t, f.repo.Len())

	rr = serve(t, f, httptest.NewRequest(http.MethodDelete, "/items/"+rec.ID, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerList(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(context.Background(), validItem("Oak desk"), nil)
		require.NoError(t, err)
	}

	rr := serve(t, f, httptest.NewRequest(http.MethodGet, "/items?page=2&limit=2&category=all", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeBody[resource.Page[item]](t, rr)
	assert.Equal(t, 2, env.Data.CurrentPage)
	assert.Equal(t, 2, env.Data.TotalPages)
	assert.EqualValues(t, 3, env.Data.TotalCount)
	assert.Len(t, env.Data.Items, 1)
}

func TestHandlerCreateExtensionlessImageIsServable(t *testing.T) {
	f := newFixture(t)
	req := uploadtest.NewRequest(t, http.MethodPost, "/items", validFields, uploadtest.Image("blob"))

	rr := serve(t, f, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	env := decodeBody[item](t, rr)
	require.Len(t, env.Data.Images, 1)

	get := httptest.NewRecorder()
	http.StripPrefix("/uploads", f.media.Handler()).
		ServeHTTP(get, httptest.NewRequest(http.MethodGet, env.Data.Images[0].URL, nil))
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "image/png", get.Header().Get("Content-Type"))
}
