package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a JSON logger writing to w (stdout when nil)
func New(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// RFC3339 timestamp under a stable key
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String("timestamp", a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	})
	return slog.New(handler)
}

// RequestLogger logs every request once it has been handled
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
			"status_code", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		for _, err := range c.Errors {
			logger.ErrorContext(c.Request.Context(), "request error", append(attrs, "error", err.Error())...)
		}

		if status >= 500 {
			logger.WarnContext(c.Request.Context(), "HTTP Request", attrs...)
			return
		}
		logger.InfoContext(c.Request.Context(), "HTTP Request", attrs...)
	}
}
