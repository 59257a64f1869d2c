package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/FACorreiaa/go-travelguide/internal/app/models"
	"github.com/FACorreiaa/go-travelguide/internal/pkg/config"
)

type stubService struct{}

func (stubService) Generate(context.Context, models.TripRequest) (*models.Guide, error) {
	return nil, models.ErrAllModelsExhausted
}

func (stubService) RenderPDF(context.Context, models.TripRequest, string, string) (string, error) {
	return "", models.ErrNoPlan
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		ServerPort:    "8091",
		DownloadsDir:  dir,
		ImagesDir:     filepath.Join(dir, "images"),
		SessionSecret: "0123456789abcdef0123456789abcdef",
		SessionTTL:    time.Hour,
	}
}

func TestSetupRouter(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.ImagesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ImagesDir, "city_lisbon.png"), []byte("png"), 0o644))

	r := SetupRouter(cfg, stubService{}, zap.NewNop())

	tests := []struct {
		name       string
		path       string
		wantStatus int
		check      func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:       "form page",
			path:       "/",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, w.Body.String(), `id="travel-form"`)
				assert.NotEmpty(t, w.Header().Get("Set-Cookie"))
				assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
			},
		},
		{
			name:       "health",
			path:       "/healthz",
			wantStatus: http.StatusOK,
		},
		{
			name:       "cached image",
			path:       "/media/images/city_lisbon.png",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "png", w.Body.String())
			},
		},
		{
			name:       "download without plan",
			path:       "/download",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown route",
			path:       "/nope",
			wantStatus: http.StatusFound,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "/", w.Header().Get("Location"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}
}

func TestHTTPServerTimeouts(t *testing.T) {
	srv := &Server{cfg: testConfig(t), logger: zap.NewNop()}
	hs := srv.HTTPServer()
	assert.Equal(t, ":8091", hs.Addr)
	assert.GreaterOrEqual(t, hs.WriteTimeout, 5*time.Minute)
	assert.NotNil(t, hs.ErrorLog)
}

func TestGracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hs := &http.Server{Addr: "127.0.0.1:0"}
	done := make(chan struct{})

	go GracefulShutdown(ctx, hs, zap.NewNop(), done)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}
}

func TestAccessLogIncludesFormWithoutConstraints(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := SetupRouter(testConfig(t), stubService{}, zap.New(core))

	form := url.Values{
		"destination": {"Lisbon"},
		"num_days":    {"3"},
		"constraints": {"travelling with my diabetic father"},
	}
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadGateway, w.Code)

	entries := logs.FilterMessage("/generate").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "destination=Lisbon&num_days=3", fields["form"])
	for _, e := range logs.All() {
		for _, v := range e.ContextMap() {
			if s, ok := v.(string); ok {
				assert.NotContains(t, s, "diabetic")
			}
		}
	}
}
