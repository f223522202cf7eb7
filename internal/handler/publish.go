package handler

import (
	"context"
	"strings"

	"github.com/dmorgan81/brandbot/internal/feed"
	"github.com/dmorgan81/brandbot/internal/log"
	"github.com/dmorgan81/brandbot/internal/page"
	"github.com/dmorgan81/brandbot/internal/session"
	"github.com/dmorgan81/brandbot/internal/store"
	"github.com/samber/do"
)

// Publisher puts a generated image and its preview page in the bucket,
// refreshes the feed and invalidates the CDN.
type Publisher struct {
	uploader    store.Uploader
	invalidator store.Invalidator
	templator   *page.Templator
	feed        *feed.Generator
	siteURL     string
}

func NewPublisher(i *do.Injector) (*Publisher, error) {
	return &Publisher{
		uploader:    do.MustInvokeNamed[store.Uploader](i, "publish"),
		invalidator: do.MustInvoke[store.Invalidator](i),
		templator:   do.MustInvoke[*page.Templator](i),
		feed:        do.MustInvoke[*feed.Generator](i),
		siteURL:     do.MustInvokeNamed[string](i, "site_url"),
	}, nil
}

// Publish returns the public URL of the image.
func (p *Publisher) Publish(ctx context.Context, img session.Image) (string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("publisher").With("id", img.ID)
	log.Info("publishing image")

	imageName := img.ID + store.Extension(img.Ref.ContentType())
	html, err := p.templator.Template(ctx, page.ParamsFor(img, imageName))
	if err != nil {
		return "", err
	}

	metadata := store.Metadata(img)
	uploads := []store.UploadParams{
		{
			Name:        imageName,
			Data:        img.Ref.Bytes(),
			ContentType: img.Ref.ContentType(),
			Metadata:    metadata,
		},
		{
			Name:        img.ID + ".html",
			Data:        html,
			ContentType: "text/html",
			Metadata:    metadata,
		},
	}
	for _, u := range uploads {
		if err := p.uploader.Upload(ctx, u); err != nil {
			return "", err
		}
	}

	// Image and page keys are unique per generation; only the feed is
	// overwritten in place.
	if p.feed != nil {
		rss, err := p.feed.Generate(ctx)
		if err != nil {
			return "", err
		}
		err = p.uploader.Upload(ctx, store.UploadParams{
			Name:        feed.Name,
			Data:        rss,
			ContentType: "application/rss+xml",
		})
		if err != nil {
			return "", err
		}
		if err := p.invalidator.Invalidate(ctx, []string{"/" + feed.Name}); err != nil {
			return "", err
		}
	}
	return p.url(imageName), nil
}

func (p *Publisher) url(name string) string {
	if p.siteURL == "" {
		return name
	}
	return strings.TrimSuffix(p.siteURL, "/") + "/" + name
}
