// Package storage defines the media store used for record images.
// Swap implementations by changing the concrete type injected at startup:
// LocalStorage keeps files on disk, MinioStorage works with any S3-compatible
// provider (MinIO, ArvanCloud, AWS S3).
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotFound is returned by Delete when the referenced file no longer exists.
var ErrNotFound = errors.New("stored file not found")

// Image references a stored file. StorageID is what the backend needs to delete it;
// URL is what clients use to fetch it.
type Image struct {
	URL       string `json:"url"`
	StorageID string `json:"storageId"`
}

// Matches reports whether ref names this image by storage ID or URL.
func (i Image) Matches(ref string) bool {
	return ref != "" && (ref == i.StorageID || ref == i.URL)
}

// Upload is a file received from a client, not yet persisted.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Storage is the interface for persisting and removing media files.
type Storage interface {
	// Store persists the upload under a collision-resistant name.
	Store(ctx context.Context, u Upload) (Image, error)
	// Delete removes a stored file. Deleting a missing file returns ErrNotFound.
	Delete(ctx context.Context, img Image) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}

// Ext returns the file extension to store u under. A whitelisted extension from
// the client's file name wins; otherwise the extension of the sniffed content type
// is used, so "blob" or "photo.jfif" still end up servable.
func (u Upload) Ext() string {
	ext := strings.ToLower(filepath.Ext(u.Name))
	if _, ok := staticContentTypes[ext]; ok {
		return ext
	}
	if m := mimetype.Lookup(u.ContentType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ext
}
