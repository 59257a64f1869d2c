package domain

import (
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelguide/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-travelguide/internal/app/pages"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseHandler{Logger: logger}
}

// RenderPage renders content inside the page layout through the engine's
// templ HTML renderer.
func (h *BaseHandler) RenderPage(c *gin.Context, status int, title string, content templ.Component) {
	start := time.Now()
	c.HTML(status, "", pages.LayoutPage(title, content))
	if len(c.Errors) > 0 {
		h.Logger.Error("Failed to render page", zap.String("title", title), zap.Error(c.Errors.Last()))
		return
	}
	metrics.Get().TemplateRenderDuration.Record(c.Request.Context(), time.Since(start).Seconds())
}
