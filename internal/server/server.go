package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-travelguide/internal/app/domain/guide"
	"github.com/FACorreiaa/go-travelguide/internal/app/domain/images"
	"github.com/FACorreiaa/go-travelguide/internal/app/domain/pdf"
	"github.com/FACorreiaa/go-travelguide/internal/app/domain/planner"
	"github.com/FACorreiaa/go-travelguide/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *guide.ServiceImpl
	router  http.Handler
}

// New creates a new Server instance with all dependencies
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	svc, err := NewGuideService(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:     cfg,
		logger:  logger,
		service: svc,
	}, nil
}

// NewGuideService wires the Gemini-backed planner and image fetcher, the PDF
// renderer and the orchestrating service.
func NewGuideService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*guide.ServiceImpl, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	p := planner.NewPlanner(planner.NewGeminiCompleter(client), planner.Config{
		Models:      cfg.TextModels,
		MaxTokens:   cfg.MaxTokens,
		Temperature: &cfg.Temperature,
	}, logger)

	fetcher, err := images.NewFetcher(
		cfg.ImagesDir,
		images.NewGeminiGenerator(client, cfg.ImageModel, cfg.ImageSize),
		&http.Client{Timeout: time.Minute},
		logger,
	)
	if err != nil {
		return nil, err
	}

	renderer := pdf.NewRenderer(cfg.DownloadsDir, logger)
	if cfg.PDFFontPath != "" {
		if err := renderer.LoadFonts(cfg.PDFFontPath, cfg.PDFFontBoldPath); err != nil {
			return nil, err
		}
	}

	logger.Info("Guide service configured",
		zap.Strings("text_models", p.Models()),
		zap.String("image_model", cfg.ImageModel),
		zap.String("images_dir", fetcher.Dir()),
		zap.String("downloads_dir", cfg.DownloadsDir),
		zap.String("pdf_font", cfg.PDFFontPath))

	return guide.NewGuideService(p, fetcher, renderer, cfg.ImageWorkers, logger), nil
}

// HTTPServer creates and configures the HTTP server. The write timeout
// covers a full generation run with every model fallback.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		ErrorLog:     zap.NewStdLog(s.logger),
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// GuideService returns the generation service
func (s *Server) GuideService() *guide.ServiceImpl {
	return s.service
}
