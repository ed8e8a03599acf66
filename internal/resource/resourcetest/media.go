package resourcetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"github.com/navidved/storefront/internal/storage"
)

// ErrInjected is returned by FlakyMedia for injected failures.
var ErrInjected = errors.New("injected media failure")

// FlakyMedia wraps an in-memory LocalStorage and can fail chosen calls.
type FlakyMedia struct {
	*storage.LocalStorage

	mu sync.Mutex
	// FailStoreAfter, when positive, makes every Store after that many successes fail.
	FailStoreAfter int
	// FailDelete lists storage IDs whose deletion fails.
	FailDelete map[string]bool
	stored     int
	deleted    []string
}

// NewFlakyMedia returns a media store backed by a fresh in-memory filesystem.
func NewFlakyMedia(t *testing.T) *FlakyMedia {
	t.Helper()
	local, err := storage.NewLocalStorage(afero.NewMemMapFs(), "uploads", "/uploads")
	if err != nil {
		t.Fatalf("new local storage: %v", err)
	}
	return &FlakyMedia{LocalStorage: local, FailDelete: make(map[string]bool)}
}

func (m *FlakyMedia) Store(ctx context.Context, u storage.Upload) (storage.Image, error) {
	m.mu.Lock()
	if m.FailStoreAfter > 0 && m.stored >= m.FailStoreAfter {
		m.mu.Unlock()
		return storage.Image{}, ErrInjected
	}
	m.stored++
	m.mu.Unlock()
	return m.LocalStorage.Store(ctx, u)
}

func (m *FlakyMedia) Delete(ctx context.Context, img storage.Image) error {
	m.mu.Lock()
	fail := m.FailDelete[img.StorageID]
	m.mu.Unlock()
	if fail {
		return ErrInjected
	}
	err := m.LocalStorage.Delete(ctx, img)
	if err == nil {
		m.mu.Lock()
		m.deleted = append(m.deleted, img.StorageID)
		m.mu.Unlock()
	}
	return err
}

// StoreCalls returns how many Store calls succeeded.
func (m *FlakyMedia) StoreCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored
}

// Deleted returns the storage IDs removed so far, in order.
func (m *FlakyMedia) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// Put stores a file directly, bypassing failure injection.
func (m *FlakyMedia) Put(t *testing.T, name string) storage.Image {
	t.Helper()
	img, err := m.LocalStorage.Store(context.Background(), storage.Upload{Name: name, Data: []byte(name)})
	if err != nil {
		t.Fatalf("put %s: %v", name, err)
	}
	return img
}
