package prompt

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/dmorgan81/brandbot/internal/log"
	"github.com/samber/do"
)

// Randomizer fills in the look-and-feel options a caller left blank.
type Randomizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomizer(i *do.Injector) (*Randomizer, error) {
	return NewRandomizerWithSeed(time.Now().UTC().UnixNano()), nil
}

func NewRandomizerWithSeed(seed int64) *Randomizer {
	return &Randomizer{rnd: rand.New(rand.NewSource(seed))}
}

// Randomize returns opts with any empty style, color scheme or complexity
// replaced by a random member of its set. Template, brand name and
// description are left alone.
func (r *Randomizer) Randomize(ctx context.Context, opts Options) Options {
	if opts.Style != "" && opts.ColorScheme != "" && opts.Complexity != "" {
		return opts
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if opts.Style == "" {
		opts.Style = pick(r.rnd, Styles())
	}
	if opts.ColorScheme == "" {
		opts.ColorScheme = pick(r.rnd, ColorSchemes())
	}
	if opts.Complexity == "" {
		opts.Complexity = pick(r.rnd, Complexities())
	}

	log.FromContextOrDiscard(ctx).WithGroup("randomizer").Info("filled in options",
		"style", opts.Style, "colorScheme", opts.ColorScheme, "complexity", opts.Complexity)
	return opts
}

func pick[T any](rnd *rand.Rand, values []T) T {
	return values[rnd.Intn(len(values))]
}
