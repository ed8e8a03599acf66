// Package product manages the product catalogue and its persistence.
package product

import (
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/navidved/storefront/internal/apperror"
	"github.com/navidved/storefront/internal/resource"
	"github.com/navidved/storefront/internal/storage"
	"github.com/navidved/storefront/internal/upload"
)

// Product is a catalogue item.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"required,min=10"`
	Price       float64         `json:"price" validate:"gt=0,lt=10000000000"`
	Category    string          `json:"category" validate:"required,max=100"`
	Features    []string        `json:"features"`
	Tags        []string        `json:"tags"`
	InStock     bool            `json:"inStock"`
	Images      []storage.Image `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p *Product) GetID() string { return p.ID }
func (p *Product) GetImages() []storage.Image { return p.Images }
func (p *Product) SetImages(images []storage.Image) { p.Images = images }

// ApplyDefaults replaces nil collections so they serialize as empty arrays.
func (p *Product) ApplyDefaults() {
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Images == nil {
		p.Images = []storage.Image{}
	}
}

// Codec maps multipart form fields onto products.
type Codec struct{}

var _ resource.FormCodec[*Product] = Codec{}

// Decode builds a new product. inStock defaults to true when not sent.
func (Codec) Decode(values url.Values) (*Product, error) {
	p := &Product{InStock: true}
	if err := (Codec{}).Patch(p, values); err != nil {
		return nil, err
	}
	return p, nil
}

// Patch applies the fields present in values.
func (Codec) Patch(p *Product, values url.Values) error {
	if v, ok := upload.String(values, "title"); ok {
		p.Title = v
	}
	if v, ok := upload.String(values, "description"); ok {
		p.Description = v
	}
	if v, ok := upload.String(values, "category"); ok {
		p.Category = v
	}
	if v, ok := upload.String(values, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return upload.Describe("price", err)
		}
		if err := checkPrice(price); err != nil {
			return err
		}
		p.Price = price
	}
	if v, ok := upload.String(values, "inStock"); ok {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return upload.Describe("inStock", err)
		}
		p.InStock = inStock
	}
	if v, ok := upload.List(values, "features"); ok {
		p.Features = v
	}
	if v, ok := upload.List(values, "tags"); ok {
		p.Tags = v
	}
	return nil
}

// checkPrice rejects values the NUMERIC(12,2) column cannot hold exactly.
func checkPrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return apperror.Validation("price must be a finite number")
	}
	cents := price * 100
	if math.Abs(cents-math.Round(cents)) > 1e-6 {
		return apperror.Validation("price must have at most 2 decimal places")
	}
	return nil
}
