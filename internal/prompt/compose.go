package prompt

import "fmt"

const (
	logoAddendum = " Design a professional, scalable, and memorable logo with clear shapes and forms." +
		" Ensure it works well at different sizes and maintains visual clarity." +
		" Center the logo with ample space around it."
	qualitySuffix = " Make it professional and suitable for commercial use. High quality, sharp details, photorealistic."
)

var templatePhrases = map[Template]string{
	Logo:              "professional brand logo",
	HeroBanner:        "website hero banner",
	SocialMedia:       "social media post visual",
	PatternBackground: "seamless pattern or background",
	ProductMockup:     "product mockup presentation",
	AbstractArt:       "abstract themed artwork",
}

var stylePhrases = map[Style]string{
	Minimalist: "clean, minimal, with lots of white space",
	Futuristic: "modern, tech-inspired, innovative",
	Vintage:    "retro, nostalgic, classic feel",
	Artistic:   "creative, expressive, hand-crafted appearance",
	Corporate:  "professional, business-oriented, trustworthy",
}

var colorPhrases = map[ColorScheme]string{
	Vibrant:    "bright, saturated colors",
	Pastel:     "soft, light pastel colors",
	Monochrome: "black, white, and shades of gray",
	Earthy:     "natural earth tones, browns, greens",
	Bold:       "high contrast, striking colors",
}

var complexityPhrases = map[Complexity]string{
	Simple:   "simple and straightforward design",
	Moderate: "balanced level of detail",
	Complex:  "intricate details and elements",
}

// Compose turns opts into the prompt sent to the inference service. The brand
// name and description are embedded verbatim; an empty description is not an
// error here.
func Compose(opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("Create a %s for \"%s\" with a %s style, using %s, with %s. The brand represents: %s.",
		templatePhrases[opts.Template],
		opts.BrandName,
		stylePhrases[opts.Style],
		colorPhrases[opts.ColorScheme],
		complexityPhrases[opts.Complexity],
		opts.Description,
	)
	if opts.Template == Logo {
		prompt += logoAddendum
	}
	return prompt + qualitySuffix, nil
}

// Label is the display name of a template.
func (t Template) Label() string {
	switch t {
	case Logo:
		return "Logo Design"
	case HeroBanner:
		return "Hero Banner"
	case SocialMedia:
		return "Social Media Post"
	case PatternBackground:
		return "Pattern/Background"
	case ProductMockup:
		return "Product Mock-up"
	case AbstractArt:
		return "Abstract Theme Art"
	}
	return string(t)
}
