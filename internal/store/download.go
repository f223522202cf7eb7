package store

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/dmorgan81/brandbot/internal/log"
	"github.com/dmorgan81/brandbot/internal/prompt"
	"github.com/dmorgan81/brandbot/internal/session"
	"github.com/samber/do"
)

var ErrDownloadFailed = errors.New("download failed")

type DownloadError struct {
	Name string
	Err  error
}

func (e *DownloadError) Error() string {
	return "failed to download image " + e.Name + ": " + e.Err.Error()
}

func (e *DownloadError) Unwrap() []error {
	return []error{ErrDownloadFailed, e.Err}
}

var separators = regexp.MustCompile(`[\s/\\]+`)

// FileName is the name a generated image is saved under:
// "{brand name, lowercased, whitespace runs as '-'}-{template}.jpg". Path
// separators and a leading dot are also replaced so the result stays a plain
// file name.
func FileName(brandName string, template prompt.Template) string {
	brand := strings.ToLower(separators.ReplaceAllString(brandName, "-"))
	if strings.HasPrefix(brand, ".") {
		brand = "-" + strings.TrimLeft(brand, ".")
	}
	return brand + "-" + string(template) + ".jpg"
}

// Downloader saves generated images through an Uploader.
type Downloader struct {
	uploader Uploader
}

func NewDownloader(i *do.Injector) (*Downloader, error) {
	return &Downloader{uploader: do.MustInvokeNamed[Uploader](i, "downloads")}, nil
}

func NewDownloaderWith(uploader Uploader) *Downloader {
	return &Downloader{uploader: uploader}
}

// Download saves img and returns the file name used.
func (d *Downloader) Download(ctx context.Context, img session.Image) (string, error) {
	name := FileName(img.Options.BrandName, img.Options.Template)
	log.FromContextOrDiscard(ctx).WithGroup("downloader").Info("saving image", "id", img.ID, "file", name)

	if img.Ref.Len() == 0 {
		return "", &DownloadError{Name: name, Err: errors.New("image has no data")}
	}
	err := d.uploader.Upload(ctx, UploadParams{
		Name:        name,
		Data:        img.Ref.Bytes(),
		ContentType: img.Ref.ContentType(),
		Metadata:    Metadata(img),
	})
	if err != nil {
		return "", &DownloadError{Name: name, Err: err}
	}
	return name, nil
}
