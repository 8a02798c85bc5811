package server

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/config"
	"github.com/duccv/webconf-gate/internal/allowlist"
	"github.com/duccv/webconf-gate/internal/flash"
	"github.com/duccv/webconf-gate/internal/handler"
	"github.com/duccv/webconf-gate/internal/mail"
	"github.com/duccv/webconf-gate/internal/middleware"
	"github.com/duccv/webconf-gate/internal/service"
	"github.com/duccv/webconf-gate/internal/token"
	"github.com/duccv/webconf-gate/internal/view"
	"github.com/duccv/webconf-gate/internal/webconf"
	"github.com/duccv/webconf-gate/pkg/cache"
	"github.com/duccv/webconf-gate/pkg/metrics"
	http_server "github.com/duccv/webconf-gate/pkg/server/http"
)

// App is the fully wired gateway.
type App struct {
	HTTP    *http_server.Server
	closers []func()
}

type options struct {
	mailer     mail.Sender
	flashStore flash.Store
	now        func() time.Time
}

type Option func(*options)

// WithMailSender replaces the SMTP sender built from the mail config.
func WithMailSender(s mail.Sender) Option {
	return func(o *options) { o.mailer = s }
}

// WithFlashStore replaces the store selected by flash.store.
func WithFlashStore(s flash.Store) Option {
	return func(o *options) { o.flashStore = s }
}

// WithClock sets the clock tokens are issued and verified against.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New builds every component from env and mounts the routes.
func New(ctx context.Context, env *config.Env, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	app := &App{}

	templates, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	var tokenOpts []token.Option
	if o.now != nil {
		tokenOpts = append(tokenOpts, token.WithClock(o.now))
	}
	issuer := token.NewIssuer([]byte(env.AuthConfig.Secret), tokenOpts...)

	if o.mailer == nil {
		sender, err := mail.NewSMTPSender(env.MailConfig)
		if err != nil {
			return nil, fmt.Errorf("mail transport: %w", err)
		}
		o.mailer = sender
	}

	if o.flashStore == nil {
		o.flashStore, err = app.newFlashStore(ctx, env)
		if err != nil {
			app.Close()
			return nil, err
		}
	}
	flasher := flash.NewFlasher(o.flashStore, env.FlashConfig.TTL, env.AppConfig.Secure)

	mwConfig := middleware.DefaultMiddlewareConfig()
	mwConfig.SecureCookies = env.AppConfig.Secure
	mwConfig.SessionTTL = env.SessionConfig.TTL
	if env.MetricsConfig.Enabled {
		mwConfig.PublicPaths = append(mwConfig.PublicPaths, env.MetricsConfig.Path)
	}

	app.HTTP = http_server.New(env,
		http_server.Port(strconv.Itoa(env.AppConfig.Port)),
		http_server.Timeout(env.AppConfig.RequestTimeout),
		http_server.ShutdownTimeout(env.AppConfig.ShutdownTimeout),
		http_server.Middleware(mwConfig),
	)
	app.HTTP.App.SetHTMLTemplate(templates)

	policy := middleware.NewSessionPolicy(env.SessionConfig.Refresh, issuer, env.SessionConfig.TTL, env.AppConfig.Secure)
	gate := middleware.NewAccessGate(issuer, flasher, policy, mwConfig)
	app.HTTP.App.Use(gate.Authenticate())

	loginService := service.NewLoginService(
		allowlist.New(env.AuthConfig.Domains(), env.AuthConfig.Emails()),
		webconf.NewLinkBuilder(issuer, env.WebconfConfig),
		o.mailer,
		templates,
		env.MailConfig,
	)

	handlerOpts := handler.Options{
		Login:         loginService,
		Dispatcher:    webconf.NewDispatcher(env.WebconfConfig),
		Flasher:       flasher,
		Static:        view.Static(),
		Scheme:        env.Scheme(),
		SecureCookies: env.AppConfig.Secure,
		LoginTimeout:  app.HTTP.RequestTimeout(),
	}
	if app.HTTP.Monitor != nil {
		handlerOpts.Observer = metrics.NewLoginRecorder(app.HTTP.Monitor)
	}
	h := handler.New(handlerOpts)
	h.Register(app.HTTP.App, app.HTTP.TimeoutMiddleware(h.LoginTimeoutResponse))

	return app, nil
}

func (a *App) newFlashStore(ctx context.Context, env *config.Env) (flash.Store, error) {
	switch env.FlashConfig.Store {
	case "redis":
		client, err := cache.NewRedisClient(ctx, env.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("flash store: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return flash.NewRedisStore(client, env.FlashConfig.TTL), nil
	default:
		lru := cache.NewLRUCache(env.FlashConfig.Capacity, env.FlashConfig.TTL)
		a.closers = append(a.closers, lru.Stop)
		return flash.NewMemoryStore(lru, env.FlashConfig.TTL), nil
	}
}

// Run serves until ctx is cancelled or the listener fails, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.HTTP.Start()

	select {
	case <-ctx.Done():
		zap.L().Info("Shutting down HTTP server")
	case err := <-a.HTTP.Notify():
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	if err := a.HTTP.Shutdown(); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// Close releases the flash store resources.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
}
