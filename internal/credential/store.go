package credential

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNoCredential means nothing was saved and no fallback is configured.
	ErrNoCredential    = errors.New("no inference credential configured")
	ErrEmptyCredential = errors.New("credential must not be empty")
)

// Store holds the single credential used to authenticate inference requests.
type Store interface {
	Get(context.Context) (string, error)
	Set(context.Context, string) error
}

// WithFallback returns a Store that answers Get with fallback when s has no
// saved value. An empty fallback leaves s unchanged.
func WithFallback(s Store, fallback string) Store {
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		return s
	}
	return &fallbackStore{Store: s, fallback: fallback}
}

type fallbackStore struct {
	Store
	fallback string
}

func (s *fallbackStore) Get(ctx context.Context) (string, error) {
	value, err := s.Store.Get(ctx)
	if errors.Is(err, ErrNoCredential) {
		return s.fallback, nil
	}
	return value, err
}

func normalize(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrEmptyCredential
	}
	return value, nil
}
