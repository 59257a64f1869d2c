package renderer

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin/render"
)

// HTMLTemplRenderer lets c.HTML render templ components. Any other data is
// handed to FallbackHTMLRenderer when one is set.
type HTMLTemplRenderer struct {
	FallbackHTMLRenderer render.HTMLRender
}

var _ render.HTMLRender = (*HTMLTemplRenderer)(nil)

func (r *HTMLTemplRenderer) Instance(name string, data any) render.Render {
	component, ok := data.(templ.Component)
	if !ok {
		if r.FallbackHTMLRenderer != nil {
			return r.FallbackHTMLRenderer.Instance(name, data)
		}
		component = nil
	}
	return &Renderer{Ctx: context.Background(), Component: component}
}

// Renderer writes one templ component.
type Renderer struct {
	Ctx       context.Context
	Component templ.Component
}

func (t *Renderer) Render(w http.ResponseWriter) error {
	t.WriteContentType(w)
	if t.Component == nil {
		return nil
	}
	return t.Component.Render(t.Ctx, w)
}

func (t *Renderer) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}
