package bibfmt

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-bibfmt/pkg/export"
	"github.com/goliatone/go-bibfmt/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// EmbeddedTemplates exposes the built-in export templates: plain, markdown
// and bibtex.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// NewExporter builds a pongo2 exporter over the built-in templates. Pass
// gotemplate.WithBaseDir to look up templates on disk first, or
// gotemplate.WithFS to replace the built-ins.
func NewExporter(exp *Expander, opts ...gotemplate.Option) (*export.Exporter, error) {
	engineOpts := append([]gotemplate.Option{gotemplate.WithFS(EmbeddedTemplates())}, opts...)
	engine, err := gotemplate.New(engineOpts...)
	if err != nil {
		return nil, err
	}
	return export.New(engine, export.WithExpander(exp))
}
