// Package handler serves the login pages and the webconf redirects.
package handler

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duccv/webconf-gate/internal/constant"
	"github.com/duccv/webconf-gate/internal/flash"
	"github.com/duccv/webconf-gate/internal/model"
)

// LoginRequester is implemented by service.LoginService.
type LoginRequester interface {
	RequestLogin(ctx context.Context, email, baseURL string) (*model.LoginLinks, error)
}

// TargetResolver is implemented by webconf.Dispatcher.
type TargetResolver interface {
	ResolveTarget(roomID string) string
}

// LoginObserver is told the outcome of every login submission.
type LoginObserver interface {
	LoginRequested(outcome string)
}

type noopObserver struct{}

func (noopObserver) LoginRequested(string) {}

type Handler struct {
	login         LoginRequester
	observer      LoginObserver
	dispatcher    TargetResolver
	flasher       *flash.Flasher
	static        fs.FS
	scheme        string
	secureCookies bool
	loginTimeout  time.Duration
}

type Options struct {
	Login         LoginRequester
	Observer      LoginObserver // optional
	Dispatcher    TargetResolver
	Flasher       *flash.Flasher
	Static        fs.FS
	Scheme        string // http or https, used for links back to this service
	SecureCookies bool
	LoginTimeout  time.Duration // bounds mail delivery of POST /login, 0 means no bound
}

func New(opts Options) *Handler {
	scheme := opts.Scheme
	if scheme == "" {
		scheme = "https"
	}
	observer := opts.Observer
	if observer == nil {
		observer = noopObserver{}
	}
	return &Handler{
		login:         opts.Login,
		observer:      observer,
		dispatcher:    opts.Dispatcher,
		flasher:       opts.Flasher,
		static:        opts.Static,
		scheme:        scheme,
		secureCookies: opts.SecureCookies,
		loginTimeout:  opts.LoginTimeout,
	}
}

// Register mounts every route. The access gate must already be installed on r.
func (h *Handler) Register(r gin.IRoutes, loginMiddleware ...gin.HandlerFunc) {
	r.GET(constant.HealthPath, h.Health)
	r.GET(constant.RootPath, h.Root)
	r.GET(constant.LogoutPath, h.Logout)
	r.GET(constant.LoginPath, h.LoginForm)
	r.POST(constant.LoginPath, append(loginMiddleware, h.SubmitLogin)...)
	r.GET(constant.WebconfPath, h.Webconf)
	r.GET(constant.WebconfPath+"/:roomId", h.Webconf)
	if h.static != nil {
		r.GET(constant.StaticPath+"/*filepath", h.Static)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
