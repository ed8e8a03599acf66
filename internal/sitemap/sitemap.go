// Package sitemap renders /sitemap.xml from the storefront's static pages,
// its category listings and every product and blog post.
package sitemap

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/snabb/sitemap"
	"golang.org/x/sync/errgroup"

	"github.com/navidved/storefront/internal/apperror"
	"github.com/navidved/storefront/internal/resource"
	"github.com/navidved/storefront/internal/response"
)

// Source lists the records that get their own sitemap entry.
type Source interface {
	Stamps(ctx context.Context) ([]resource.Stamp, error)
}

type page struct {
	path     string
	freq     sitemap.ChangeFreq
	priority float32
}

var staticPages = []page{
	{"/", sitemap.Daily, 1.0},
	{"/products", sitemap.Daily, 0.9},
	{"/blog", sitemap.Weekly, 0.8},
	{"/about", sitemap.Monthly, 0.5},
	{"/contact", sitemap.Monthly, 0.5},
}

// Builder assembles the sitemap on every request.
type Builder struct {
	siteURL    string
	categories []string
	products   Source
	blogs      Source
	now        func() time.Time
}

// NewBuilder creates a Builder. siteURL is the public storefront origin.
func NewBuilder(siteURL string, categories []string, products, blogs Source) *Builder {
	return &Builder{
		siteURL:    strings.TrimRight(siteURL, "/"),
		categories: categories,
		products:   products,
		blogs:      blogs,
		now:        time.Now,
	}
}

// Build returns the sitemap for the current catalogue.
func (b *Builder) Build(ctx context.Context) (*sitemap.Sitemap, error) {
	var products, blogs []resource.Stamp
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = b.products.Stamps(gctx)
		return err
	})
	g.Go(func() (err error) {
		blogs, err = b.blogs.Stamps(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := b.now().UTC()
	sm := sitemap.New()
	for _, p := range staticPages {
		sm.Add(&sitemap.URL{Loc: b.siteURL + p.path, LastMod: &now, ChangeFreq: p.freq, Priority: p.priority})
	}
	for _, c := range b.categories {
		sm.Add(&sitemap.URL{
			Loc:        b.siteURL + "/products?category=" + url.QueryEscape(c),
			LastMod:    &now,
			ChangeFreq: sitemap.Weekly,
			Priority:   0.7,
		})
	}
	b.addRecords(sm, "/products/", products, 0.8)
	b.addRecords(sm, "/blog/", blogs, 0.6)
	return sm, nil
}

func (b *Builder) addRecords(sm *sitemap.Sitemap, prefix string, stamps []resource.Stamp, priority float32) {
	for _, s := range stamps {
		lastMod := s.UpdatedAt.UTC()
		sm.Add(&sitemap.URL{
			Loc:        b.siteURL + prefix + url.PathEscape(s.ID),
			LastMod:    &lastMod,
			ChangeFreq: sitemap.Weekly,
			Priority:   priority,
		})
	}
}

// ServeHTTP handles GET /sitemap.xml.
func (b *Builder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sm, err := b.Build(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("build sitemap")
		response.FromError(w, apperror.Internal("failed to build sitemap", err), false)
		return
	}

	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("render sitemap")
		response.InternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
