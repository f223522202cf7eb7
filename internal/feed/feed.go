package feed

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmorgan81/brandbot/internal/log"
	"github.com/dmorgan81/brandbot/internal/store"
	"github.com/gorilla/feeds"
	"github.com/samber/do"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Name is the object key the feed is published under.
const Name = "feed.xml"

type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Generator builds an RSS feed of every published brand image in a bucket.
type Generator struct {
	Client  ObjectAPI
	Bucket  string
	SiteURL string
}

func NewS3Generator(i *do.Injector) (*Generator, error) {
	return &Generator{
		Client:  do.MustInvoke[*s3.Client](i),
		Bucket:  do.MustInvokeNamed[string](i, "bucket"),
		SiteURL: do.MustInvokeNamed[string](i, "site_url"),
	}, nil
}

var imageSuffixes = []string{".jpg", ".png", ".webp", ".gif"}

func (g *Generator) Generate(ctx context.Context) ([]byte, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("feed").With("bucket", g.Bucket)
	log.Info("generating rss feed")

	feed := feeds.Feed{
		Title:       "Brandbot",
		Description: "AI generated brand images",
		Link:        &feeds.Link{Href: g.SiteURL},
		Updated:     time.Now(),
	}

	pager := s3.NewListObjectsV2Paginator(g.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(g.Bucket),
	})

	var mu sync.Mutex
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(16)
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			_ = group.Wait()
			return nil, err
		}

		objs := lo.Filter(page.Contents, func(o s3types.Object, _ int) bool {
			key := aws.ToString(o.Key)
			return !strings.Contains(key, "/") && lo.ContainsBy(imageSuffixes, func(s string) bool {
				return strings.HasSuffix(key, s)
			})
		})

		for _, obj := range objs {
			obj := obj
			group.Go(func() error {
				out, err := g.Client.HeadObject(ctx, &s3.HeadObjectInput{
					Bucket: aws.String(g.Bucket),
					Key:    obj.Key,
				})
				if err != nil {
					return err
				}
				item := g.item(aws.ToString(obj.Key), out)
				if item == nil {
					return nil
				}

				mu.Lock()
				feed.Add(item)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	log.Info("collected feed items", "count", len(feed.Items))

	feed.Sort(func(a, b *feeds.Item) bool {
		return a.Updated.After(b.Updated)
	})
	rss, err := feed.ToRss()
	return []byte(rss), err
}

// item returns nil for objects that were not published by the handler.
func (g *Generator) item(key string, out *s3.HeadObjectOutput) *feeds.Item {
	meta := out.Metadata
	if meta["id"] == "" {
		return nil
	}

	updated := aws.ToTime(out.LastModified)
	if created, err := time.Parse(time.RFC3339, meta["created"]); err == nil {
		updated = created
	}
	base := strings.TrimSuffix(key, path.Ext(key))

	return &feeds.Item{
		Id:          meta["id"],
		Title:       fmt.Sprintf("%s - %s", store.Brand(meta), meta["template"]),
		Link:        &feeds.Link{Href: strings.TrimSuffix(g.SiteURL, "/") + "/" + base + ".html"},
		Description: fmt.Sprintf("%s %s, %s, %s", meta["style"], meta["template"], meta["color-scheme"], meta["complexity"]),
		Enclosure: &feeds.Enclosure{
			Url:    strings.TrimSuffix(g.SiteURL, "/") + "/" + key,
			Length: meta["bytes"],
			Type:   aws.ToString(out.ContentType),
		},
		Created: updated,
		Updated: updated,
	}
}
