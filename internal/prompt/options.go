package prompt

import (
	"errors"
	"fmt"
)

// ErrUnknownVariant is returned when an option value is not a member of its
// variant set.
var ErrUnknownVariant = errors.New("unknown variant")

type Template string

const (
	Logo              Template = "logo"
	HeroBanner        Template = "hero-banner"
	SocialMedia       Template = "social-media"
	PatternBackground Template = "pattern-background"
	ProductMockup     Template = "product-mockup"
	AbstractArt       Template = "abstract-art"
)

type Style string

const (
	Minimalist Style = "minimalist"
	Futuristic Style = "futuristic"
	Vintage    Style = "vintage"
	Artistic   Style = "artistic"
	Corporate  Style = "corporate"
)

type ColorScheme string

const (
	Vibrant    ColorScheme = "vibrant"
	Pastel     ColorScheme = "pastel"
	Monochrome ColorScheme = "monochrome"
	Earthy     ColorScheme = "earthy"
	Bold       ColorScheme = "bold"
)

type Complexity string

const (
	Simple   Complexity = "simple"
	Moderate Complexity = "moderate"
	Complex  Complexity = "complex"
)

// Options are the user's choices for a single generation.
type Options struct {
	Template    Template    `json:"template"`
	BrandName   string      `json:"brandName"`
	Description string      `json:"description"`
	Style       Style       `json:"style"`
	ColorScheme ColorScheme `json:"colorScheme"`
	Complexity  Complexity  `json:"complexity"`
}

// Validate reports the first enumerated field that is not a member of its set.
func (o Options) Validate() error {
	if _, ok := templatePhrases[o.Template]; !ok {
		return variantError("template", string(o.Template))
	}
	if _, ok := stylePhrases[o.Style]; !ok {
		return variantError("style", string(o.Style))
	}
	if _, ok := colorPhrases[o.ColorScheme]; !ok {
		return variantError("colorScheme", string(o.ColorScheme))
	}
	if _, ok := complexityPhrases[o.Complexity]; !ok {
		return variantError("complexity", string(o.Complexity))
	}
	return nil
}

func variantError(field, value string) error {
	return fmt.Errorf("%s %q: %w", field, value, ErrUnknownVariant)
}

// Templates lists the templates in the order they are offered to users.
func Templates() []Template {
	return []Template{Logo, HeroBanner, SocialMedia, PatternBackground, ProductMockup, AbstractArt}
}

func Styles() []Style {
	return []Style{Minimalist, Futuristic, Vintage, Artistic, Corporate}
}

func ColorSchemes() []ColorScheme {
	return []ColorScheme{Vibrant, Pastel, Monochrome, Earthy, Bold}
}

func Complexities() []Complexity {
	return []Complexity{Simple, Moderate, Complex}
}
