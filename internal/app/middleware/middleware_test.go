package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormLogMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantLogged  string
	}{
		{
			name:        "drops free text",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"destination": {"Lisbon"}, "num_days": {"3"}, "constraints": {"wheelchair user, allergic to nuts"}}.Encode(),
			wantLogged:  "destination=Lisbon&num_days=3",
		},
		{
			name:        "ignores other content types",
			contentType: "application/json",
			body:        `{"destination":"Lisbon"}`,
		},
		{
			name:        "ignores large bodies",
			contentType: "application/x-www-form-urlencoded",
			body:        "destination=" + strings.Repeat("a", 2048),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logged, destination string
			r := gin.New()
			r.Use(FormLogMiddleware(1024))
			r.POST("/generate", func(c *gin.Context) {
				logged = c.GetString(LoggedFormKey)
				destination = c.PostForm("destination")
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, tt.wantLogged, logged)
			if tt.contentType != "application/json" {
				assert.NotEmpty(t, destination, "handler still reads the full body")
			}
		})
	}
}
