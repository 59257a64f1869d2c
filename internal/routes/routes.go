package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelguide/internal/app/domain"
	"github.com/FACorreiaa/go-travelguide/internal/app/domain/guide"
)

// Setup registers the page, generation, download and image routes.
func Setup(r *gin.Engine, svc guide.Service, imagesDir string, logger *zap.Logger) {
	h := guide.NewGuideHandlers(domain.NewBaseHandler(logger), svc)

	r.GET("/", h.ShowGuidePage)
	r.POST("/generate", h.HandleGenerate)
	r.GET("/download", h.HandleDownload)
	r.GET("/healthz", h.HealthCheck)

	r.Static(guide.ImagesRoute, imagesDir)

	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})
}
