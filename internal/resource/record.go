// Package resource implements the CRUD and image-lifecycle logic shared by every
// record type that owns uploaded images (products, blog posts).
package resource

import (
	"context"
	"errors"
	"time"

	"github.com/navidved/storefront/internal/storage"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Record is a persisted entity carrying an ordered image set.
type Record interface {
	GetID() string
	GetImages() []storage.Image
	SetImages(images []storage.Image)
}

// Defaulter is implemented by records that fill in derived or default fields before validation.
type Defaulter interface {
	ApplyDefaults()
}

// Filter narrows a listing. An empty Category matches everything.
type Filter struct {
	Category string
}

// Stamp is the minimal projection of a record used by the sitemap.
type Stamp struct {
	ID        string
	UpdatedAt time.Time
}

// Repository persists records of type T. Create and Update return the stored state,
// including repository-assigned ID and timestamps.
type Repository[T Record] interface {
	Create(ctx context.Context, rec T) (T, error)
	GetByID(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id string) error
	// List returns records matching f, newest first.
	List(ctx context.Context, f Filter, offset, limit int) ([]T, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Stamps(ctx context.Context) ([]Stamp, error)
}
