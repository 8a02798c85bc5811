package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/internal/constant"
	"github.com/duccv/webconf-gate/internal/model"
)

// TokenIssuer is the signing half of token.Issuer.
type TokenIssuer interface {
	Issue(identity string, purpose model.TokenPurpose, ttl time.Duration) (string, error)
}

// SessionPolicy runs after the gate let a request through.
type SessionPolicy interface {
	Refresh(c *gin.Context, claims *model.Claims)
}

// SlidingSession stores a fresh session token in the token cookie on every
// authenticated request, so a browser that keeps coming back stays logged in.
type SlidingSession struct {
	issuer TokenIssuer
	ttl    time.Duration
	secure bool
}

func NewSlidingSession(issuer TokenIssuer, ttl time.Duration, secure bool) *SlidingSession {
	return &SlidingSession{issuer: issuer, ttl: ttl, secure: secure}
}

func (s *SlidingSession) Refresh(c *gin.Context, claims *model.Claims) {
	tok, err := s.issuer.Issue(claims.Email, model.PurposeSession, s.ttl)
	if err != nil {
		zap.L().Warn("Session refresh failed", zap.Error(err), zap.String("email", claims.Email))
		return
	}
	SetTokenCookie(c, tok, s.ttl, s.secure)
}

// NoRefresh leaves cookies alone; the magic link itself is the only credential.
type NoRefresh struct{}

func (NoRefresh) Refresh(*gin.Context, *model.Claims) {}

// NewSessionPolicy picks the policy for the session.refresh toggle.
func NewSessionPolicy(refresh bool, issuer TokenIssuer, ttl time.Duration, secure bool) SessionPolicy {
	if refresh {
		return NewSlidingSession(issuer, ttl, secure)
	}
	return NoRefresh{}
}

func SetTokenCookie(c *gin.Context, value string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constant.TokenCookie, value, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearTokenCookie removes the browser's copy of the session token. Tokens already
// issued stay valid until they expire.
func ClearTokenCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constant.TokenCookie, "", -1, "/", "", secure, true)
}
