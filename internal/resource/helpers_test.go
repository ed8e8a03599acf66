package resource_test

import (
	"net/url"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/navidved/storefront/internal/resource"
	"github.com/navidved/storefront/internal/resource/resourcetest"
	"github.com/navidved/storefront/internal/storage"
	"github.com/navidved/storefront/internal/upload"
)

type item struct {
	ID          string          `json:"id"`
	Title       string          `json:"title" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"required,min=10"`
	Price       float64         `json:"price" validate:"gt=0"`
	Category    string          `json:"category"`
	Images      []storage.Image `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (i *item) GetID() string { return i.ID }
func (i *item) GetImages() []storage.Image { return i.Images }
func (i *item) SetImages(images []storage.Image) { i.Images = images }

func validItem(title string) *item {
	return &item{Title: title, Description: "a sturdy oak desk", Price: 10, Category: "furniture"}
}

var itemHooks = resourcetest.Hooks[*item]{
	Clone: func(i *item) *item {
		c := *i
		c.Images = slices.Clone(i.Images)
		return &c
	},
	Assign: func(i *item, id string, now time.Time) {
		i.ID, i.CreatedAt, i.UpdatedAt = id, now, now
	},
	Touch:     func(i *item, now time.Time) { i.UpdatedAt = now },
	Category:  func(i *item) string { return i.Category },
	UpdatedAt: func(i *item) time.Time { return i.UpdatedAt },
}

type fixture struct {
	repo  *resourcetest.Memory[*item]
	media *resourcetest.FlakyMedia
	svc   *resource.Service[*item]
}

func newFixture(t *testing.T, opts ...resource.Option) *fixture {
	t.Helper()
	repo := resourcetest.NewMemory(itemHooks)
	media := resourcetest.NewFlakyMedia(t)
	return &fixture{repo: repo, media: media, svc: resource.NewService[*item]("item", repo, media, opts...)}
}

func uploads(names ...string) []storage.Upload {
	out := make([]storage.Upload, 0, len(names))
	for _, n := range names {
		out = append(out, storage.Upload{Name: n, ContentType: "image/png", Data: []byte(n)})
	}
	return out
}

type itemCodec struct{}

func (itemCodec) Decode(values url.Values) (*item, error) {
	it := &item{}
	it.Title, _ = upload.String(values, "title")
	it.Description, _ = upload.String(values, "description")
	it.Category, _ = upload.String(values, "category")
	if raw, ok := upload.String(values, "price"); ok {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, upload.Describe("price", err)
		}
		it.Price = p
	}
	return it, nil
}

func (itemCodec) Patch(it *item, values url.Values) error {
	if v, ok := upload.String(values, "title"); ok {
		it.Title = v
	}
	if v, ok := upload.String(values, "description"); ok {
		it.Description = v
	}
	return nil
}
