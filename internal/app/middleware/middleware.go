package middleware

import (
	"bytes"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelguide/internal/app/domain/session"
)

// Define typed context keys
type contextKey string

const SessionStateKey contextKey = "sessionState"

const sessionIDKey = "sid"

// LoggedFormKey holds the request form as written to the access log.
const LoggedFormKey = "loggedForm"

// Form fields left out of access logs.
var unloggedFormFields = []string{"constraints"}

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding", "Cache-Control", "X-Requested-With"},
		MaxAge:          12 * time.Hour,
	})
}

// SecurityMiddleware adds security headers
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		csp := "default-src 'self'; " +
			"script-src 'self' https://cdn.jsdelivr.net; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data:; " +
			"connect-src 'self'"
		c.Writer.Header().Set("Content-Security-Policy", csp)

		c.Next()
	}
}

// SessionStateMiddleware resolves the browser session to its State. The
// session ID lives in the signed cookie set up by sessions.Sessions; a new one
// is issued when it is missing.
func SessionStateMiddleware(store *session.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		id, _ := sess.Get(sessionIDKey).(string)
		if id == "" {
			id = uuid.NewString()
			sess.Set(sessionIDKey, id)
			if err := sess.Save(); err != nil {
				logger.Warn("Failed to save session cookie", zap.Error(err))
			}
		}

		c.Set(string(SessionStateKey), store.Load(id))
		c.Next()
	}
}

// GetSessionState returns the State attached by SessionStateMiddleware.
func GetSessionState(c *gin.Context) *session.State {
	v, exists := c.Get(string(SessionStateKey))
	if !exists {
		return nil
	}
	st, ok := v.(*session.State)
	if !ok {
		return nil
	}
	return st
}

// FormLogMiddleware captures small urlencoded request bodies for the access
// log before handlers consume them. Free-text fields are dropped.
func FormLogMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request
		if req.Body == nil || req.ContentLength <= 0 || req.ContentLength > maxBytes ||
			!strings.HasPrefix(req.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(req.Body, maxBytes))
		req.Body = io.NopCloser(bytes.NewReader(body))
		if err == nil {
			if form, err := url.ParseQuery(string(body)); err == nil {
				for _, field := range unloggedFormFields {
					form.Del(field)
				}
				c.Set(LoggedFormKey, form.Encode())
			}
		}
		c.Next()
	}
}
