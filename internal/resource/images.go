package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/navidved/storefront/internal/storage"
)

// ImageChanges describes how an update treats a record's existing images.
//
// Keep, when non-nil, is the full list of existing images the caller wants to retain
// (by storage ID or URL); every current image not in it is removed. Remove names
// images to drop explicitly. With both empty the existing set is left untouched and
// new uploads are appended.
type ImageChanges struct {
	Keep   *[]string
	Remove []string
}

// reconcile splits current into the images that survive the update and the ones to
// delete from storage once the update is saved. Order of survivors is preserved.
func reconcile(current []storage.Image, ch ImageChanges) (kept, dropped []storage.Image) {
	for _, img := range current {
		if ch.Keep != nil && !matchesAny(img, *ch.Keep) {
			dropped = append(dropped, img)
			continue
		}
		if matchesAny(img, ch.Remove) {
			dropped = append(dropped, img)
			continue
		}
		kept = append(kept, img)
	}
	return kept, dropped
}

func matchesAny(img storage.Image, refs []string) bool {
	for _, ref := range refs {
		if img.Matches(ref) {
			return true
		}
	}
	return false
}

// storeAll persists every upload. If one fails, the files already stored by this
// call are removed before the error is returned.
func storeAll(ctx context.Context, media storage.Storage, uploads []storage.Upload) ([]storage.Image, error) {
	images := make([]storage.Image, 0, len(uploads))
	for _, u := range uploads {
		img, err := media.Store(ctx, u)
		if err != nil {
			discard(context.WithoutCancel(ctx), media, images, "store rollback")
			return nil, fmt.Errorf("store %q: %w", u.Name, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// discard deletes images best-effort: failures are logged and never stop the loop.
// It returns the number of files actually removed.
func discard(ctx context.Context, media storage.Storage, images []storage.Image, reason string) int {
	removed := 0
	for _, img := range images {
		err := media.Delete(ctx, img)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, storage.ErrNotFound):
			log.Ctx(ctx).Debug().Str("image", img.StorageID).Str("reason", reason).Msg("image already gone")
		default:
			log.Ctx(ctx).Warn().Err(err).Str("image", img.StorageID).Str("reason", reason).Msg("failed to delete image")
		}
	}
	return removed
}
