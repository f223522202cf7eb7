package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmorgan81/brandbot/internal/log"
)

type UploadParams struct {
	Name        string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

type Uploader interface {
	Upload(context.Context, UploadParams) error
}

// FileUploader writes uploads into Dir, or the working directory when Dir is
// empty.
type FileUploader struct {
	Dir string
}

func (u *FileUploader) Upload(ctx context.Context, params UploadParams) error {
	name := filepath.Base(params.Name)
	if name != params.Name || strings.HasPrefix(name, ".") {
		return errors.New("invalid file name: " + params.Name)
	}

	path := filepath.Join(u.Dir, name)
	log.FromContextOrDiscard(ctx).WithGroup("file").Info("writing", "file", path, "bytes", len(params.Data))

	if u.Dir != "" {
		if err := os.MkdirAll(u.Dir, 0700); err != nil {
			return err
		}
	}
	return os.WriteFile(path, params.Data, 0600)
}
