package store

import (
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/dmorgan81/brandbot/internal/session"
)

// MaxBrandMetadata is the most runes of a brand name kept in object metadata.
// S3 caps user metadata at 2 KB of US-ASCII.
const MaxBrandMetadata = 64

// Metadata describes img for object storage. The feed reads these keys back.
// The prompt is left out; it is unbounded and lives in the preview page.
func Metadata(img session.Image) map[string]string {
	return map[string]string{
		"id":           img.ID,
		"brand":        url.PathEscape(truncate(img.Options.BrandName, MaxBrandMetadata)),
		"template":     string(img.Options.Template),
		"style":        string(img.Options.Style),
		"color-scheme": string(img.Options.ColorScheme),
		"complexity":   string(img.Options.Complexity),
		"created":      img.CreatedAt.UTC().Format(time.RFC3339),
		"bytes":        strconv.Itoa(img.Ref.Len()),
	}
}

// Brand decodes the brand name written by Metadata.
func Brand(meta map[string]string) string {
	brand, err := url.PathUnescape(meta["brand"])
	if err != nil {
		return meta["brand"]
	}
	return brand
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Extension picks a file extension for an image content type.
func Extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ".jpg"
}
