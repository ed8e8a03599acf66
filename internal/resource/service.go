package resource

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/navidved/storefront/internal/apperror"
	"github.com/navidved/storefront/internal/storage"
	"github.com/navidved/storefront/internal/validation"
)

// DefaultSaveTimeout bounds a single repository write.
const DefaultSaveTimeout = 30 * time.Second

// Service contains the business logic for a record type: validation, CRUD, and
// keeping the record's image set consistent with what is actually stored.
type Service[T Record] struct {
	noun        string
	repo        Repository[T]
	media       storage.Storage
	validate    *validation.Validator
	saveTimeout time.Duration
}

// Option configures a Service.
type Option func(*options)

type options struct {
	saveTimeout time.Duration
}

// WithSaveTimeout overrides DefaultSaveTimeout.
func WithSaveTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.saveTimeout = d
		}
	}
}

// NewService creates a Service. noun names the record type in client messages ("product").
func NewService[T Record](noun string, repo Repository[T], media storage.Storage, opts ...Option) *Service[T] {
	o := options{saveTimeout: DefaultSaveTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service[T]{
		noun:        noun,
		repo:        repo,
		media:       media,
		validate:    validation.New(),
		saveTimeout: o.saveTimeout,
	}
}

// Noun returns the record type name used in messages.
func (s *Service[T]) Noun() string {
	return s.noun
}

// Get returns a record by ID.
func (s *Service[T]) Get(ctx context.Context, id string) (T, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		var zero T
		return zero, s.readError(err)
	}
	return rec, nil
}

// List returns one page of records, newest first. The total count and the page
// slice are fetched concurrently.
func (s *Service[T]) List(ctx context.Context, p PageRequest) (*Page[T], error) {
	f := Filter{Category: p.Category}

	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.List(gctx, f, p.Offset(), p.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal("failed to list "+s.noun+"s", err)
	}

	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:       items,
		CurrentPage: p.Page,
		TotalPages:  TotalPages(total, p.Limit),
		TotalCount:  total,
	}, nil
}

// Create validates rec, stores the uploads, attaches them and persists the record.
// If persistence fails every file stored by this call is deleted again.
func (s *Service[T]) Create(ctx context.Context, rec T, uploads []storage.Upload) (T, error) {
	var zero T
	if err := s.check(rec); err != nil {
		return zero, err
	}

	images, err := storeAll(ctx, s.media, uploads)
	if err != nil {
		return zero, apperror.Internal("failed to store images", err)
	}
	rec.SetImages(images)

	saveCtx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	created, err := s.repo.Create(saveCtx, rec)
	if err != nil {
		err = deadlineCause(saveCtx, err)
		removed := discard(context.WithoutCancel(ctx), s.media, images, "create failed")
		log.Ctx(ctx).Error().Err(err).Int("images_removed", removed).Msgf("create %s failed", s.noun)
		return zero, s.writeError("create", err, true)
	}
	return created, nil
}

// Update applies patch to an existing record, reconciles its image set with changes,
// appends the new uploads and saves. Images dropped from the set are deleted after
// the save succeeds; new uploads are deleted again if it fails.
func (s *Service[T]) Update(ctx context.Context, id string, patch func(T) error, changes ImageChanges, uploads []storage.Upload) (T, error) {
	var zero T

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return zero, s.readError(err)
	}
	if patch != nil {
		if err := patch(rec); err != nil {
			return zero, err
		}
	}
	if err := s.check(rec); err != nil {
		return zero, err
	}

	kept, dropped := reconcile(rec.GetImages(), changes)

	added, err := storeAll(ctx, s.media, uploads)
	if err != nil {
		return zero, apperror.Internal("failed to store images", err)
	}
	images := make([]storage.Image, 0, len(kept)+len(added))
	rec.SetImages(append(append(images, kept...), added...))

	saveCtx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	updated, err := s.repo.Update(saveCtx, rec)
	if err != nil {
		err = deadlineCause(saveCtx, err)
		removed := discard(context.WithoutCancel(ctx), s.media, added, "update failed")
		log.Ctx(ctx).Error().Err(err).Str("id", id).Int("images_removed", removed).Msgf("update %s failed", s.noun)
		return zero, s.writeError("update", err, false)
	}

	discard(context.WithoutCancel(ctx), s.media, dropped, "removed by update")
	return updated, nil
}

// Delete removes every image of the record best-effort, then the record itself.
// Once the record is loaded the sequence runs to completion even if the caller goes away.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.readError(err)
	}
	ctx = context.WithoutCancel(ctx)

	images := rec.GetImages()
	if removed := discard(ctx, s.media, images, "record deleted"); removed < len(images) {
		log.Ctx(ctx).Warn().Str("id", id).Int("images", len(images)).Int("removed", removed).
			Msgf("%s images partially cleaned up", s.noun)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.writeError("delete", err, false)
	}
	return nil
}

// Stamps lists id and last modification time of every record.
func (s *Service[T]) Stamps(ctx context.Context) ([]Stamp, error) {
	stamps, err := s.repo.Stamps(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list "+s.noun+"s", err)
	}
	return stamps, nil
}

// deadlineCause makes sure a failure caused by the save budget expiring is
// recognizable as context.DeadlineExceeded, whatever the driver wrapped it in.
func deadlineCause(ctx context.Context, err error) error {
	if !errors.Is(err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return err
}

func (s *Service[T]) check(rec T) error {
	if d, ok := any(rec).(Defaulter); ok {
		d.ApplyDefaults()
	}
	return s.validate.Struct(rec)
}

func (s *Service[T]) readError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound(s.noun + " not found")
	}
	return apperror.Internal("failed to load "+s.noun, err)
}

func (s *Service[T]) writeError(op string, err error, withStack bool) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperror.NotFound(s.noun + " not found")
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.Timeout(op+" "+s.noun+" timed out", err)
	}
	if withStack {
		err = pkgerrors.WithStack(err)
	}
	return apperror.Internal("failed to "+op+" "+s.noun, err)
}
