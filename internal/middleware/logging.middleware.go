package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/pkg/logger"
)

// LoggingMiddleware provides request logging functionality
type LoggingMiddleware struct {
	config *MiddlewareConfig
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(config *MiddlewareConfig) *LoggingMiddleware {
	return &LoggingMiddleware{
		config: config,
	}
}

// RequestLogger logs one line per request once it has been handled.
// The token query parameter is never logged.
func (l *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.config.LoggingEnabled {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log := l.createRequestLogger(c)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Int("size", c.Writer.Size()),
			zap.Duration("duration", duration),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Request completed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("Request completed", fields...)
		default:
			log.Info("Request completed", fields...)
		}

		if duration > l.config.SlowRequest {
			log.Warn("Slow request detected", zap.Duration("duration", duration))
		}
	}
}

func (l *LoggingMiddleware) createRequestLogger(c *gin.Context) *zap.Logger {
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}

	if l.config.LogIPAddress {
		fields = append(fields, zap.String("ip", getClientIP(c)))
	}

	if l.config.LogUserAgent {
		fields = append(fields, zap.String("userAgent", c.GetHeader("User-Agent")))
	}

	if claims, ok := ClaimsFrom(c); ok {
		fields = append(fields, zap.String("email", claims.Email))
	}

	return logger.FromContext(c.Request.Context()).With(fields...)
}
