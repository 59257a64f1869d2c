package server

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/go-travelguide/internal/app/domain/guide"
	"github.com/FACorreiaa/go-travelguide/internal/app/domain/session"
	"github.com/FACorreiaa/go-travelguide/internal/app/middleware"
	"github.com/FACorreiaa/go-travelguide/internal/app/renderer"
	"github.com/FACorreiaa/go-travelguide/internal/pkg/config"
	"github.com/FACorreiaa/go-travelguide/internal/routes"
)

const (
	sessionCookie = "travelguide"
	maxLoggedBody = 4 << 10
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(cfg *config.Config, svc guide.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.HTMLRender = &renderer.HTMLTemplRenderer{}

	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/healthz"},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.OTELGinMiddleware(config.ServiceName))
	r.Use(middleware.FormLogMiddleware(maxLoggedBody))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())

	cookieStore := cookie.NewStore([]byte(cfg.SessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
	})
	r.Use(sessions.Sessions(sessionCookie, cookieStore))
	r.Use(middleware.SessionStateMiddleware(session.NewStore(cfg.SessionTTL, logger), logger))

	routes.Setup(r, svc, cfg.ImagesDir, logger)

	return r
}

// zapContextFunc returns the Zap context function for logging
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		if form := c.GetString(middleware.LoggedFormKey); form != "" {
			fields = append(fields, zap.String("form", form))
		}

		return fields
	}
}
