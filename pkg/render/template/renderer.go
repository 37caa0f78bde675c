package template

import (
	"io"
)

// Filter is a template filter. param is nil when the template passes none.
type Filter func(input any, param any) (any, error)

// ContextProvider is implemented by values that know how to present
// themselves to a template. Renderers accept it wherever they accept a map.
type ContextProvider interface {
	TemplateContext() map[string]any
}

// TemplateRenderer renders named templates or inline template text. Every
// render returns the output and also writes it to each writer in out.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn Filter) error
	GlobalContext(data any) error
}
