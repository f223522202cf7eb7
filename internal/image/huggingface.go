package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dmorgan81/brandbot/internal/log"
	"github.com/samber/do"
)

const DefaultEndpoint = "https://api-inference.huggingface.co/models/stabilityai/stable-diffusion-xl-base-1.0"

type HuggingFaceGenerator struct {
	Client   *http.Client
	Endpoint string
}

func NewHuggingFaceGenerator(i *do.Injector) (Generator, error) {
	endpoint, err := do.InvokeNamed[string](i, "hf_endpoint")
	if err != nil || endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &HuggingFaceGenerator{
		Client:   do.MustInvoke[*http.Client](i),
		Endpoint: endpoint,
	}, nil
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferenceError struct {
	Error json.RawMessage `json:"error"`
}

func (g *HuggingFaceGenerator) Generate(ctx context.Context, prompt, credential string) (Ref, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("huggingface").With("endpoint", g.Endpoint)
	log.Info("generating image", "prompt_length", len(prompt))

	body, err := json.Marshal(inferenceRequest{Inputs: prompt})
	if err != nil {
		return Ref{}, &GenerationError{Message: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Ref{}, &GenerationError{Message: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client().Do(req)
	if err != nil {
		log.Error("request failed", "error", err)
		return Ref{}, &GenerationError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Ref{}, &GenerationError{Message: "reading response: " + err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(data, resp.StatusCode)
		log.Error("inference endpoint returned an error", "status", resp.StatusCode, "message", msg)
		return Ref{}, &GenerationError{Message: msg}
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType == "application/json" {
		msg := errorMessage(data, resp.StatusCode)
		return Ref{}, &GenerationError{Message: "unexpected JSON response: " + msg}
	}
	if len(data) == 0 {
		return Ref{}, &GenerationError{Message: "empty response body"}
	}

	ref := NewRef(data, contentType)
	log.Info("received image", "bytes", ref.Len(), "content_type", ref.ContentType())
	return ref, nil
}

func (g *HuggingFaceGenerator) client() *http.Client {
	if g.Client == nil {
		return http.DefaultClient
	}
	return g.Client
}

// errorMessage pulls the "error" field out of a JSON body, falling back to
// the status text. The field is either a string or a list of strings.
func errorMessage(data []byte, status int) string {
	var body inferenceError
	if err := json.Unmarshal(data, &body); err == nil && len(body.Error) > 0 {
		var msg string
		if err := json.Unmarshal(body.Error, &msg); err == nil && msg != "" {
			return msg
		}
		var msgs []string
		if err := json.Unmarshal(body.Error, &msgs); err == nil && len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("http status %d", status)
}
