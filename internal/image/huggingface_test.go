package image

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func newGenerator(t *testing.T, h http.HandlerFunc) *HuggingFaceGenerator {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &HuggingFaceGenerator{Client: ts.Client(), Endpoint: ts.URL}
}

func TestGenerateSuccess(t *testing.T) {
	g := newGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"inputs": "a kitten logo"}, body)

		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(jpegBytes)
	})

	ref, err := g.Generate(context.Background(), "a kitten logo", "hf_test")
	require.NoError(t, err)
	assert.Equal(t, jpegBytes, ref.Bytes())
	assert.Equal(t, "image/jpeg", ref.ContentType())
	assert.True(t, strings.HasPrefix(ref.DataURL(), "data:image/jpeg;base64,"))
}

func TestGenerateSniffsContentType(t *testing.T) {
	g := newGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write(jpegBytes)
	})

	ref, err := g.Generate(context.Background(), "p", "k")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ref.ContentType())
}

func TestGenerateServerError(t *testing.T) {
	g := newGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model is currently loading","estimated_time":20}`))
	})

	_, err := g.Generate(context.Background(), "p", "k")
	require.ErrorIs(t, err, ErrGenerationFailed)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "Model is currently loading", genErr.Message)
}

func TestGenerateErrorList(t *testing.T) {
	g := newGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":["bad input","too long"]}`))
	})

	_, err := g.Generate(context.Background(), "p", "k")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "bad input; too long", genErr.Message)
}

func TestGenerateFallsBackToStatusText(t *testing.T) {
	g := newGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("<html>nope</html>"))
	})

	_, err := g.Generate(context.Background(), "p", "bad")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "Unauthorized", genErr.Message)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestGenerateEmptyBody(t *testing.T) {
	g := newGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
	})

	_, err := g.Generate(context.Background(), "p", "k")
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "empty response body")
}

func TestGenerateJSONOnSuccess(t *testing.T) {
	g := newGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"error":"queued"}`))
	})

	_, err := g.Generate(context.Background(), "p", "k")
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "queued")
}

func TestGenerateNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	endpoint := ts.URL
	ts.Close()

	g := &HuggingFaceGenerator{Endpoint: endpoint}
	_, err := g.Generate(context.Background(), "p", "k")
	require.ErrorIs(t, err, ErrGenerationFailed)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.NotNil(t, genErr.Err)
}
