package http_server

import (
	"net"
	"time"

	"github.com/duccv/webconf-gate/internal/middleware"
)

const (
	_defaultAddr            = ":8100"
	_defaultTimeout         = 15 * time.Second
	_defaultShutdownTimeout = 10 * time.Second
)

// Option -.
type Option func(*Server)

// Port -.
func Port(port string) Option {
	return func(s *Server) {
		s.address = net.JoinHostPort("", port)
	}
}

// Timeout bounds the handlers wrapped by TimeoutMiddleware.
func Timeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// ShutdownTimeout bounds how long Shutdown waits for in-flight requests.
func ShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	}
}

// Middleware replaces middleware.DefaultMiddlewareConfig for request logging.
func Middleware(cfg *middleware.MiddlewareConfig) Option {
	return func(s *Server) {
		s.mwConfig = cfg
	}
}
