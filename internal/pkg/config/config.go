package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/go-travelguide/internal/app/models"
)

const ServiceName = "travelguide"

// Config holds all application configuration, read from the environment.
type Config struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ServerPort   string `mapstructure:"server_port" validate:"required,numeric"`
	LogLevel     string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	DownloadsDir string `mapstructure:"downloads_dir" validate:"required"`
	ImagesDir    string `mapstructure:"images_dir"`

	TextModels   []string `mapstructure:"text_models" validate:"min=1,dive,required"`
	ImageModel   string   `mapstructure:"image_model" validate:"required"`
	MaxTokens    int32    `mapstructure:"max_tokens" validate:"gt=0"`
	Temperature  float32  `mapstructure:"temperature" validate:"gte=0,lte=2"`
	ImageWorkers int      `mapstructure:"image_workers" validate:"min=1,max=16"`
	ImageSize    string   `mapstructure:"image_size" validate:"required"`

	PDFFontPath     string `mapstructure:"pdf_font_path" validate:"required_with=PDFFontBoldPath"`
	PDFFontBoldPath string `mapstructure:"pdf_font_bold_path"`

	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" validate:"gt=0"`

	MetricsAddr  string `mapstructure:"metrics_addr"`
	PprofAddr    string `mapstructure:"pprof_addr"`
	OTELEndpoint string `mapstructure:"otel_endpoint"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("server_port", "8091")
	v.SetDefault("log_level", "info")
	v.SetDefault("downloads_dir", "./downloads")
	v.SetDefault("images_dir", "")
	v.SetDefault("text_models", []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash"})
	v.SetDefault("image_model", "imagen-3.0-generate-002")
	v.SetDefault("max_tokens", 3000)
	v.SetDefault("temperature", 0.7)
	v.SetDefault("image_workers", 4)
	v.SetDefault("image_size", "1024x1024")
	v.SetDefault("pdf_font_path", "")
	v.SetDefault("pdf_font_bold_path", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("metrics_addr", ":9092")
	v.SetDefault("pprof_addr", ":6060")
	v.SetDefault("otel_endpoint", "")
}

// Load reads the configuration from environment variables on top of the
// defaults. A missing GEMINI_API_KEY is reported as models.ErrMissingAPIKey.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	if cfg.GeminiAPIKey == "" {
		return nil, models.ErrMissingAPIKey
	}

	cfg.TextModels = splitModels(cfg.TextModels)
	if cfg.ImagesDir == "" {
		cfg.ImagesDir = filepath.Join(cfg.DownloadsDir, "images")
	}
	if cfg.SessionSecret == "" {
		// sessions do not survive a restart without a configured secret
		cfg.SessionSecret = strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: invalid config: %w", models.ErrValidation, err)
	}
	return &cfg, nil
}

// splitModels accepts both a list and comma separated entries.
func splitModels(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, model := range strings.Split(item, ",") {
			if model = strings.TrimSpace(model); model != "" {
				out = append(out, model)
			}
		}
	}
	return out
}

// ZapLevel parses LogLevel, falling back to info.
func (c *Config) ZapLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
