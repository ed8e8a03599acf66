package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// staticContentTypes is the whitelist of extensions served from the upload directory.
var staticContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// LocalStorage implements Storage on a filesystem directory.
type LocalStorage struct {
	fs        afero.Fs
	dir       string
	urlPrefix string
	now       func() time.Time
}

// NewLocalStorage creates dir on fs if needed and returns a LocalStorage whose
// files are published under urlPrefix (e.g. "/uploads").
func NewLocalStorage(fs afero.Fs, dir, urlPrefix string) (*LocalStorage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &LocalStorage{
		fs:        fs,
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		now:       time.Now,
	}, nil
}

// Store writes the upload as <unix-millis>-<random hex><ext>.
func (s *LocalStorage) Store(ctx context.Context, u Upload) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	key, err := s.newKey(u)
	if err != nil {
		return Image{}, fmt.Errorf("generate file name: %w", err)
	}
	if err := afero.WriteFile(s.fs, filepath.Join(s.dir, key), u.Data, 0o644); err != nil {
		return Image{}, fmt.Errorf("write %q: %w", key, err)
	}
	return Image{URL: s.PublicURL(key), StorageID: key}, nil
}

// Delete removes the file behind img.
func (s *LocalStorage) Delete(ctx context.Context, img Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := s.keyOf(img)
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", img.StorageID)
	}
	err := s.fs.Remove(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// PublicURL returns the path clients use to fetch key, e.g. "/uploads/1700000000000-ab12cd34.jpg".
func (s *LocalStorage) PublicURL(key string) string {
	return s.urlPrefix + "/" + key
}

// Exists reports whether the file behind img is present.
func (s *LocalStorage) Exists(img Image) bool {
	key := s.keyOf(img)
	if key == "" {
		return false
	}
	ok, err := afero.Exists(s.fs, filepath.Join(s.dir, key))
	return err == nil && ok
}

// Handler serves stored files. Only whitelisted image extensions are served and the
// Content-Type is derived from the extension; everything else is 404.
func (s *LocalStorage) Handler() http.Handler {
	files := http.FileServer(afero.NewHttpFs(s.fs).Dir(s.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Base(r.URL.Path)
		ct, ok := staticContentTypes[strings.ToLower(path.Ext(name))]
		if !ok || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}

func (s *LocalStorage) keyOf(img Image) string {
	if img.StorageID != "" {
		return img.StorageID
	}
	return strings.TrimPrefix(img.URL, s.urlPrefix+"/")
}

func (s *LocalStorage) newKey(u Upload) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), hex.EncodeToString(b), u.Ext()), nil
}
