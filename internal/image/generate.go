package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
)

// ErrGenerationFailed matches every error returned by a Generator.
var ErrGenerationFailed = errors.New("generation failed")

// GenerationError carries a human readable message for a failed generation.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return "image generation failed: " + e.Message
}

func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGenerationFailed}
	}
	return []error{ErrGenerationFailed, e.Err}
}

// Ref is an opaque reference to generated image data.
type Ref struct {
	data        []byte
	contentType string
}

func NewRef(data []byte, contentType string) Ref {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return Ref{data: data, contentType: contentType}
}

// Bytes returns a copy of the image data.
func (r Ref) Bytes() []byte {
	return bytes.Clone(r.data)
}

func (r Ref) ContentType() string {
	return r.contentType
}

func (r Ref) Len() int {
	return len(r.data)
}

// DataURL renders the image inline for display.
func (r Ref) DataURL() string {
	return "data:" + r.contentType + ";base64," + base64.StdEncoding.EncodeToString(r.data)
}

type Generator interface {
	Generate(ctx context.Context, prompt, credential string) (Ref, error)
}
