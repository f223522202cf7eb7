package store

import (
	"context"

	"github.com/dmorgan81/brandbot/internal/log"
)

type Invalidator interface {
	Invalidate(context.Context, []string) error
}

// NopInvalidator is used when there is no CDN in front of the uploads.
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(ctx context.Context, paths []string) error {
	log.FromContextOrDiscard(ctx).Debug("no distribution configured, skipping invalidation", "paths", paths)
	return nil
}
