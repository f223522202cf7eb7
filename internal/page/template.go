package page

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"sync"
	"time"

	"github.com/dmorgan81/brandbot/internal/log"
	"github.com/dmorgan81/brandbot/internal/session"
	"github.com/samber/do"
)

//go:embed assets/preview.html
var previewTmpl string

type Params struct {
	Image       string
	Brand       string
	Template    string
	Style       string
	ColorScheme string
	Complexity  string
	Prompt      string
	Created     string
}

// ParamsFor describes img, shown from imageURL.
func ParamsFor(img session.Image, imageURL string) Params {
	return Params{
		Image:       imageURL,
		Brand:       img.Options.BrandName,
		Template:    img.Options.Template.Label(),
		Style:       string(img.Options.Style),
		ColorScheme: string(img.Options.ColorScheme),
		Complexity:  string(img.Options.Complexity),
		Prompt:      img.Prompt,
		Created:     img.CreatedAt.UTC().Format(time.RFC1123),
	}
}

type Templator struct {
	tmpl *template.Template
	once sync.Once
}

func NewTemplator(i *do.Injector) (*Templator, error) {
	return &Templator{}, nil
}

func (g *Templator) Template(ctx context.Context, params Params) ([]byte, error) {
	g.once.Do(func() {
		g.tmpl = template.Must(template.New("preview").Parse(previewTmpl))
	})

	log.FromContextOrDiscard(ctx).WithGroup("templator").Info("rendering preview page", "brand", params.Brand)

	var data bytes.Buffer
	if err := g.tmpl.Execute(&data, params); err != nil {
		return nil, err
	}
	return data.Bytes(), nil
}
