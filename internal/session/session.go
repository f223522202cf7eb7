package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmorgan81/brandbot/internal/credential"
	"github.com/dmorgan81/brandbot/internal/image"
	"github.com/dmorgan81/brandbot/internal/log"
	"github.com/dmorgan81/brandbot/internal/prompt"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/samber/lo"
)

// MinDescriptionLength is the shortest description a request accepts.
const MinDescriptionLength = 10

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrNoCurrentImage   = errors.New("no current image")
)

// ValidationError lists every problem found with a request's options.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid options: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Image is a completed generation. It is never modified after creation.
type Image struct {
	ID        string
	Ref       image.Ref
	Prompt    string
	Options   prompt.Options
	CreatedAt time.Time
}

// State is a snapshot of a Session.
type State struct {
	IsGenerating bool
	Current      *Image
	History      []Image
}

type Status string

const (
	Idle       Status = "idle"
	Generating Status = "generating"
	Ready      Status = "ready"
)

func (s State) Status() Status {
	switch {
	case s.IsGenerating:
		return Generating
	case s.Current != nil:
		return Ready
	}
	return Idle
}

// Session sequences prompt composition and image generation and keeps the
// current image plus a newest-first history.
type Session struct {
	generator   image.Generator
	credentials credential.Store
	now         func() time.Time

	mu       sync.Mutex
	inFlight int
	current  *Image
	history  []Image
}

func New(generator image.Generator, credentials credential.Store) *Session {
	return &Session{
		generator:   generator,
		credentials: credentials,
		now:         time.Now,
	}
}

func NewSession(i *do.Injector) (*Session, error) {
	return New(do.MustInvoke[image.Generator](i), do.MustInvoke[credential.Store](i)), nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		IsGenerating: s.inFlight > 0,
		History:      append([]Image(nil), s.history...),
	}
	if s.current != nil {
		current := *s.current
		state.Current = &current
	}
	return state
}

// Lookup finds a history entry by id.
func (s *Session) Lookup(id string) (Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Find(s.history, func(img Image) bool { return img.ID == id })
}

// Request validates opts and generates a new image. Invalid options are
// rejected before any network activity and leave the state untouched. On
// failure the current image and history are unchanged.
func (s *Session) Request(ctx context.Context, opts prompt.Options) (Image, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("session").With("template", opts.Template, "brand", opts.BrandName)

	if err := Validate(opts); err != nil {
		log.Warn("rejected request", "error", err)
		return Image{}, err
	}

	s.begin()
	defer s.end()
	log.Info("generating")

	text, err := prompt.Compose(opts)
	if err != nil {
		return Image{}, err
	}

	key, err := s.credentials.Get(ctx)
	if err != nil {
		log.Error("reading credential", "error", err)
		return Image{}, err
	}

	ref, err := s.generator.Generate(ctx, text, key)
	if err != nil {
		log.Error("generation failed", "error", err)
		return Image{}, err
	}

	img := Image{
		ID:        uuid.NewString(),
		Ref:       ref,
		Prompt:    text,
		Options:   opts,
		CreatedAt: s.now().UTC(),
	}
	s.complete(img)
	log.Info("generated", "id", img.ID, "bytes", ref.Len())
	return img, nil
}

// Regenerate replays the current image's options.
func (s *Session) Regenerate(ctx context.Context) (Image, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil {
		return Image{}, ErrNoCurrentImage
	}
	return s.Request(ctx, current.Options)
}

func (s *Session) begin() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
}

func (s *Session) end() {
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
}

func (s *Session) complete(img Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &img
	s.history = append([]Image{img}, s.history...)
}

// Validate checks opts the way a request does.
func Validate(opts prompt.Options) error {
	var problems []string

	if strings.TrimSpace(opts.BrandName) == "" {
		problems = append(problems, "brand name is required")
	}
	switch {
	case strings.TrimSpace(opts.Description) == "":
		problems = append(problems, "description is required")
	case utf8.RuneCountInString(opts.Description) < MinDescriptionLength:
		problems = append(problems, "description must be at least 10 characters")
	}
	if err := opts.Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
