// Package blog manages blog posts and their persistence.
package blog

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/navidved/storefront/internal/resource"
	"github.com/navidved/storefront/internal/storage"
	"github.com/navidved/storefront/internal/upload"
)

const (
	DefaultAuthor   = "Admin"
	DefaultCategory = "General"

	wordsPerMinute = 200
	excerptWords   = 30
	excerptMaxLen  = 500
)

// Blog is a published post.
type Blog struct {
	ID        string          `json:"id"`
	Title     string          `json:"title" validate:"required,min=3,max=100"`
	Content   string          `json:"content" validate:"required,min=10"`
	Excerpt   string          `json:"excerpt" validate:"max=500"`
	Author    string          `json:"author" validate:"max=100"`
	Category  string          `json:"category" validate:"max=100"`
	Tags      []string        `json:"tags"`
	ReadTime  string          `json:"readTime"`
	Images    []storage.Image `json:"images"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (b *Blog) GetID() string { return b.ID }
func (b *Blog) GetImages() []storage.Image { return b.Images }
func (b *Blog) SetImages(images []storage.Image) { b.Images = images }

// ApplyDefaults fills author, category, excerpt and read time when they are empty.
func (b *Blog) ApplyDefaults() {
	if b.Author == "" {
		b.Author = DefaultAuthor
	}
	if b.Category == "" {
		b.Category = DefaultCategory
	}
	if b.Excerpt == "" {
		b.Excerpt = Excerpt(b.Content)
	}
	if b.ReadTime == "" && b.Content != "" {
		b.ReadTime = ReadTime(b.Content)
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Images == nil {
		b.Images = []storage.Image{}
	}
}

// ReadTime estimates reading time at 200 words per minute, rounded up.
func ReadTime(content string) string {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return fmt.Sprintf("%d min read", max(minutes, 1))
}

// Excerpt returns the first words of content, cut to at most excerptMaxLen
// characters so it always passes the excerpt length check.
func Excerpt(content string) string {
	words := strings.Fields(content)
	cut := len(words) > excerptWords
	if cut {
		words = words[:excerptWords]
	}
	out := strings.Join(words, " ")
	if !cut && utf8.RuneCountInString(out) <= excerptMaxLen {
		return out
	}
	if r := []rune(out); len(r) > excerptMaxLen-3 {
		out = string(r[:excerptMaxLen-3])
	}
	return out + "..."
}

// Codec maps multipart form fields onto blog posts.
type Codec struct{}

var _ resource.FormCodec[*Blog] = Codec{}

func (Codec) Decode(values url.Values) (*Blog, error) {
	b := &Blog{}
	if err := (Codec{}).Patch(b, values); err != nil {
		return nil, err
	}
	return b, nil
}

// Patch applies the fields present in values. A content change without an
// explicit readTime or excerpt re-derives both.
func (Codec) Patch(b *Blog, values url.Values) error {
	if v, ok := upload.String(values, "title"); ok {
		b.Title = v
	}
	if v, ok := upload.String(values, "content"); ok && v != b.Content {
		b.Content = v
		b.ReadTime = ""
		b.Excerpt = ""
	}
	if v, ok := upload.String(values, "excerpt"); ok {
		b.Excerpt = v
	}
	if v, ok := upload.String(values, "author"); ok {
		b.Author = v
	}
	if v, ok := upload.String(values, "category"); ok {
		b.Category = v
	}
	if v, ok := upload.String(values, "readTime"); ok {
		b.ReadTime = v
	}
	if v, ok := upload.List(values, "tags"); ok {
		b.Tags = v
	}
	return nil
}
