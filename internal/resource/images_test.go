package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/navidved/storefront/internal/storage"
)

func img(id string) storage.Image {
	return storage.Image{URL: "/uploads/" + id, StorageID: id}
}

func TestReconcile(t *testing.T) {
	a, b, c := img("a.png"), img("b.png"), img("c.png")
	current := []storage.Image{a, b, c}
	keepBC := []string{"b.png", "/uploads/c.png"}
	keepNone := []string{}

	tests := []struct {
		name        string
		changes     ImageChanges
		wantKept    []storage.Image
		wantDropped []storage.Image
	}{
		{"no changes", ImageChanges{}, current, nil},
		{"keep list", ImageChanges{Keep: &keepBC}, []storage.Image{b, c}, []storage.Image{a}},
		{"empty keep list drops all", ImageChanges{Keep: &keepNone}, nil, current},
		{"explicit removal", ImageChanges{Remove: []string{"c.png"}}, []storage.Image{a, b}, []storage.Image{c}},
		{"unknown removal ignored", ImageChanges{Remove: []string{"z.png"}}, current, nil},
		{"keep and remove", ImageChanges{Keep: &keepBC, Remove: []string{"b.png"}}, []storage.Image{c}, []storage.Image{a, b}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, dropped := reconcile(current, tt.changes)
			assert.Equal(t, tt.wantKept, kept)
			assert.Equal(t, tt.wantDropped, dropped)
		})
	}
}
