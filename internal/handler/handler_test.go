package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duccv/webconf-gate/config"
	"github.com/duccv/webconf-gate/internal/constant"
	"github.com/duccv/webconf-gate/internal/flash"
	"github.com/duccv/webconf-gate/internal/model"
	"github.com/duccv/webconf-gate/internal/view"
	"github.com/duccv/webconf-gate/internal/webconf"
	"github.com/duccv/webconf-gate/pkg/cache"
)

type fakeLogin struct {
	err         error
	email       string
	baseURL     string
	hasDeadline bool
}

func (f *fakeLogin) RequestLogin(ctx context.Context, email, baseURL string) (*model.LoginLinks, error) {
	f.email, f.baseURL = email, baseURL
	_, f.hasDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &model.LoginLinks{Room: "WebConf123456"}, nil
}

type countingObserver map[string]int

func (o countingObserver) LoginRequested(outcome string) { o[outcome]++ }

type fixture struct {
	engine   *gin.Engine
	login    *fakeLogin
	store    *flash.MemoryStore
	observed countingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := view.Templates()
	require.NoError(t, err)

	lru := cache.NewLRUCache(100, time.Minute)
	t.Cleanup(lru.Stop)

	f := &fixture{
		login:    &fakeLogin{},
		store:    flash.NewMemoryStore(lru, time.Minute),
		observed: countingObserver{},
	}
	h := New(Options{
		Login:    f.login,
		Observer: f.observed,
		Dispatcher: webconf.NewDispatcher(config.WebconfConfig{
			BaseURL:     "https://webconf.numerique.gouv.fr",
			AccessToken: "downstream",
		}),
		Flasher: flash.NewFlasher(f.store, time.Minute, false),
		Static:  view.Static(),
		Scheme:  "http",
	})

	f.engine = gin.New()
	f.engine.SetHTMLTemplate(tmpl)
	h.Register(f.engine)
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func postLogin(email string) *http.Request {
	form := url.Values{"email": {email}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Host = "gate.example"
	return req
}

func TestRoot(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: constant.TokenCookie, Value: "anything"})
	rec = f.do(req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/webconf", rec.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: constant.TokenCookie, Value: "session"})
	rec := f.do(req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), constant.TokenCookie+"=;")
}

func TestLoginForm_ShowsQueuedErrors(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Push(context.Background(), "sid-1", flash.Message{Kind: flash.KindError, Text: constant.MsgUnauthorized}))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: constant.FlashCookie, Value: "sid-1"})
	rec := f.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Vous n&#39;êtes pas identifié")

	rec = f.do(req)
	assert.NotContains(t, rec.Body.String(), "pas identifié", "flash messages are shown once")
}

func TestSubmitLogin(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		outcome string
		body    string
	}{
		{"sent", nil, http.StatusOK, outcomeSent, "Email de connexion envoyé pour agent@beta.gouv.fr"},
		{"bad syntax", constant.ErrInvalidEmailSyntax, http.StatusBadRequest, outcomeInvalid, constant.MsgInvalidEmail},
		{"not allowed", constant.ErrEmailNotAuthorized, http.StatusForbidden, outcomeForbidden, "pas autorisé"},
		{"mail failure", constant.ErrMailDelivery, http.StatusBadGateway, outcomeMailError, "Erreur d&#39;envoi de mail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.login.err = tt.err

			rec := f.do(postLogin("agent@beta.gouv.fr"))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
			assert.Equal(t, 1, f.observed[tt.outcome])
			assert.Equal(t, "agent@beta.gouv.fr", f.login.email)
			assert.Equal(t, "http://gate.example", f.login.baseURL)
		})
	}
}

func TestSubmitLogin_BoundedByLoginTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tmpl, err := view.Templates()
	require.NoError(t, err)

	login := &fakeLogin{}
	h := New(Options{Login: login, LoginTimeout: time.Second})
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.POST("/login", h.SubmitLogin)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, postLogin("agent@beta.gouv.fr"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, login.hasDeadline)
}

func TestLoginTimeoutResponse(t *testing.T) {
	f := newFixture(t)
	f.engine.GET("/slow", New(Options{Observer: f.observed}).LoginTimeoutResponse)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erreur d&#39;envoi de mail")
	assert.Equal(t, 1, f.observed[outcomeMailError])
}

func TestWebconf_RedirectsToTarget(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/webconf/ROOM1", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://webconf.numerique.gouv.fr/ROOM1?token=downstream", rec.Header().Get("Location"))

	rec = f.do(httptest.NewRequest(http.MethodGet, "/webconf", nil))
	assert.Equal(t, "https://webconf.numerique.gouv.fr", rec.Header().Get("Location"))
}

func TestStatic_ETag(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/static/main.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/static/main.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = f.do(req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/static/missing.css", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
