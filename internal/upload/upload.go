// Package upload parses multipart record forms and the image files attached to them.
package upload

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/navidved/storefront/internal/apperror"
	"github.com/navidved/storefront/internal/storage"
)

// Defaults for record image uploads.
const (
	DefaultField    = "images"
	DefaultMaxFiles = 10
	DefaultMaxSize  = 5 << 20 // 5MB per file
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Limits bounds what a single request may upload.
type Limits struct {
	Field    string
	MaxFiles int
	MaxSize  int64
}

// DefaultLimits allows up to 10 images of 5MB each in the "images" field.
func DefaultLimits() Limits {
	return Limits{Field: DefaultField, MaxFiles: DefaultMaxFiles, MaxSize: DefaultMaxSize}
}

// Form is a parsed request: text fields plus validated image uploads.
type Form struct {
	Values url.Values
	Files  []storage.Upload
}

// Parse reads a multipart (or url-encoded) form. Every file must be an image whose
// sniffed type is JPEG, PNG, GIF or WebP; any violation is a validation error.
func Parse(w http.ResponseWriter, r *http.Request, lim Limits) (*Form, error) {
	// A little headroom over the file payload for the text fields and multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, int64(lim.MaxFiles)*lim.MaxSize+(1<<20))

	err := r.ParseMultipartForm(32 << 20)
	if errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			return nil, apperror.Validation("invalid form body")
		}
		return &Form{Values: r.PostForm}, nil
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperror.Validation("request body too large")
		}
		return nil, apperror.Validation("invalid multipart form")
	}

	form := &Form{Values: url.Values(r.MultipartForm.Value)}
	headers := r.MultipartForm.File[lim.Field]
	if len(headers) > lim.MaxFiles {
		return nil, apperror.Validation("at most %d images may be uploaded", lim.MaxFiles)
	}
	for _, fh := range headers {
		u, err := readFile(fh, lim.MaxSize)
		if err != nil {
			return nil, err
		}
		form.Files = append(form.Files, u)
	}
	return form, nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) (storage.Upload, error) {
	if fh.Size > maxSize {
		return storage.Upload{}, apperror.Validation("%s exceeds the %dMB limit", fh.Filename, maxSize>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return storage.Upload{}, apperror.Internal("failed to read upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return storage.Upload{}, apperror.Internal("failed to read upload", err)
	}
	if int64(len(data)) > maxSize {
		return storage.Upload{}, apperror.Validation("%s exceeds the %dMB limit", fh.Filename, maxSize>>20)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return storage.Upload{}, apperror.Validation("%s is not a supported image type", fh.Filename)
	}
	return storage.Upload{Name: fh.Filename, ContentType: mt.String(), Data: data}, nil
}

// List returns the values of key and whether the key was sent at all. A single
// value holding a JSON array is expanded, and blank entries are dropped, so both
// `tags=a&tags=b` and `tags=["a","b"]` work.
func List(values url.Values, key string) ([]string, bool) {
	raw, ok := values[key]
	if !ok {
		return nil, false
	}
	if len(raw) == 1 && strings.HasPrefix(strings.TrimSpace(raw[0]), "[") {
		var arr []string
		if err := json.Unmarshal([]byte(raw[0]), &arr); err == nil {
			raw = arr
		}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, true
}

// String returns the trimmed value of key and whether it was sent.
func String(values url.Values, key string) (string, bool) {
	raw, ok := values[key]
	if !ok || len(raw) == 0 {
		return "", false
	}
	return strings.TrimSpace(raw[0]), true
}

// Describe formats a field parse failure as a validation error.
func Describe(field string, err error) error {
	return apperror.Validation("%s: %s", field, err.Error())
}
