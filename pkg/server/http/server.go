package http_server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/penglongli/gin-metrics/ginmetrics"
	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/config"
	"github.com/duccv/webconf-gate/internal/middleware"
	"github.com/duccv/webconf-gate/pkg/metrics"
)

type Server struct {
	App     *gin.Engine
	Monitor *ginmetrics.Monitor // nil unless metrics are enabled
	server  *http.Server
	notify  chan error

	address         string
	timeout         time.Duration
	shutdownTimeout time.Duration
	mwConfig        *middleware.MiddlewareConfig
}

// New -.
func New(env *config.Env, opts ...Option) *Server {
	s := &Server{
		notify:          make(chan error, 1),
		address:         _defaultAddr,
		timeout:         _defaultTimeout,
		shutdownTimeout: _defaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.mwConfig == nil {
		s.mwConfig = middleware.DefaultMiddlewareConfig()
	}

	s.App = s.initGinServer(env)
	s.server = &http.Server{
		Addr:              s.address,
		Handler:           s.App,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// timeoutGrace leaves the handler time to notice its own deadline and render the
// page itself before the middleware answers in its place.
const timeoutGrace = time.Second

func timeoutResponse(c *gin.Context) {
	c.String(http.StatusRequestTimeout, "timeout")
}

// TimeoutMiddleware bounds a single route at the request timeout plus a grace period.
// It is only applied to routes that wait on a remote service, so redirects never pay
// for the extra goroutine. A nil response answers with a plain 408.
func (s *Server) TimeoutMiddleware(response gin.HandlerFunc) gin.HandlerFunc {
	if response == nil {
		response = timeoutResponse
	}
	return timeout.New(
		timeout.WithTimeout(s.timeout+timeoutGrace),
		timeout.WithResponse(response),
	)
}

// RequestTimeout is the deadline handlers should apply to their own remote calls.
func (s *Server) RequestTimeout() time.Duration {
	return s.timeout
}

func (s *Server) initGinServer(env *config.Env) *gin.Engine {
	if env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CorrelationIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(s.mwConfig).RequestLogger())

	if env.MetricsConfig.Enabled {
		s.Monitor = metrics.GetMonitor(env.MetricsConfig.Path, s.mwConfig.SlowRequest)
		s.Monitor.Use(r)
	}

	if env.CORSConfig.Enabled && len(env.CORSConfig.Origins()) == 0 {
		zap.L().Warn("CORS enabled without allowed origins, skipping")
	} else if env.CORSConfig.Enabled {
		corsConfig := cors.Config{
			AllowOrigins:     env.CORSConfig.Origins(),
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           time.Duration(env.CORSConfig.MaxAge) * time.Second,
		}

		r.Use(cors.New(corsConfig))
	}

	return r
}

// Start -.
func (s *Server) Start() {
	go func() {
		zap.L().Info("HTTP server listening", zap.String("address", s.address))
		err := s.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.notify <- err
		close(s.notify)
	}()
}

// Notify -.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown waits for in-flight requests, at most the configured shutdown timeout.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}
