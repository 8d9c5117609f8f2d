package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"finrec/internal/log"
)

const requestIDHeader = "X-Request-ID"

// requestID reuses the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(log.FieldRequestID, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs each request once it completes and puts a request
// scoped logger in the request context.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetString(log.FieldRequestID)

		reqLogger := logger.With(log.FieldRequestID, id)
		c.Request = c.Request.WithContext(log.NewContext(c.Request.Context(), reqLogger))

		c.Next()

		status := c.Writer.Status()
		fields := log.NewFields().
			WithHTTPRequest(c.Request.Method, c.Request.URL.Path, c.ClientIP()).
			WithHTTPResponse(status, time.Since(start).Milliseconds())

		level := slogLevel(status)
		reqLogger.LogContext(c.Request.Context(), level, "HTTP request completed", fields.ToSlice()...)
	}
}

// securityHeaders sets the response headers relevant to a JSON API.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Cache-Control", "no-store")
		c.Next()
	}
}

// cors lets browser hosts call the bridge directly.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func slogLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
