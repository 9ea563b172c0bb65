package server

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Header and cookie names shared with browser clients.
const (
	CSRFHeader    = "X-CSRFToken"
	CSRFCookie    = "csrftoken"
	SessionCookie = "sessionid"
)

// Recovery returns a gin middleware that recovers from panics, logs them and
// answers 500.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Msg("recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "Error interno del servidor",
				})
			}
		}()
		c.Next()
	}
}

// RequestLogger logs one line per request through logger.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Debug()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		} else if status >= http.StatusBadRequest {
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// RequireSession rejects requests whose sessionid cookie does not match key.
// An empty key disables the check.
func RequireSession(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		cookie, err := c.Cookie(SessionCookie)
		if err != nil || !equal(cookie, key) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Autenticación requerida",
			})
			return
		}
		c.Next()
	}
}

// RequireCSRF rejects requests whose X-CSRFToken header does not carry token.
func RequireCSRF(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !equal(c.GetHeader(CSRFHeader), token) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Token CSRF ausente o incorrecto",
			})
			return
		}
		c.Next()
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
