package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duccv/webconf-gate/internal/constant"
)

type MiddlewareConfig struct {
	// Access gate
	PublicPaths    []string // exact matches
	PublicPrefixes []string
	LoginPath      string
	SecureCookies  bool

	// Session
	SessionTTL time.Duration

	// Logging
	LoggingEnabled bool
	LogUserAgent   bool
	LogIPAddress   bool
	SlowRequest    time.Duration
}

func DefaultMiddlewareConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		PublicPaths: []string{
			constant.RootPath,
			constant.LoginPath,
			constant.LogoutPath,
			constant.HealthPath,
			"/metrics",
		},
		PublicPrefixes: []string{constant.StaticPath + "/"},
		LoginPath:      constant.LoginPath,
		SecureCookies:  true,
		SessionTTL:     7 * 24 * time.Hour,
		LoggingEnabled: true,
		LogUserAgent:   true,
		LogIPAddress:   true,
		SlowRequest:    5 * time.Second,
	}
}

func (c *MiddlewareConfig) isPublic(path string) bool {
	for _, p := range c.PublicPaths {
		if path == p {
			return true
		}
	}
	for _, p := range c.PublicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// getClientIP extracts the real client IP address
func getClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	return c.ClientIP()
}
