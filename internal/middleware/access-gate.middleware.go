package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/internal/constant"
	"github.com/duccv/webconf-gate/internal/flash"
	"github.com/duccv/webconf-gate/internal/model"
)

// TokenVerifier is the verifying half of token.Issuer.
type TokenVerifier interface {
	Verify(token string, purpose model.TokenPurpose) (*model.Claims, error)
}

// AccessGate lets a request through to a protected route only when it carries a valid
// token: a login token in the token query parameter, or else a session token in the
// token cookie. Everything else goes back to the login page.
type AccessGate struct {
	verifier TokenVerifier
	flasher  *flash.Flasher
	policy   SessionPolicy
	config   *MiddlewareConfig
}

func NewAccessGate(
	verifier TokenVerifier,
	flasher *flash.Flasher,
	policy SessionPolicy,
	config *MiddlewareConfig,
) *AccessGate {
	if policy == nil {
		policy = NoRefresh{}
	}
	return &AccessGate{
		verifier: verifier,
		flasher:  flasher,
		policy:   policy,
		config:   config,
	}
}

// Authenticate is the gate itself.
func (g *AccessGate) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.config.isPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		claims, err := g.authenticate(c)
		if err != nil {
			g.reject(c, err)
			return
		}

		c.Set(constant.ClaimsKey, claims)
		zap.L().Debug("User authenticated successfully",
			zap.String("email", claims.Email),
			zap.String("purpose", string(claims.Purpose)),
			zap.String("path", c.Request.URL.Path))

		g.policy.Refresh(c, claims)
		c.Next()
	}
}

// authenticate never falls back to the cookie once a query token was supplied.
func (g *AccessGate) authenticate(c *gin.Context) (*model.Claims, error) {
	if tok := c.Query(constant.TokenQueryParam); tok != "" {
		return g.verifier.Verify(tok, model.PurposeLogin)
	}
	if tok, err := c.Cookie(constant.TokenCookie); err == nil && tok != "" {
		return g.verifier.Verify(tok, model.PurposeSession)
	}
	return nil, constant.ErrUnauthorizedAccess
}

func (g *AccessGate) reject(c *gin.Context, err error) {
	zap.L().Warn("Authentication failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("ip", getClientIP(c)),
		zap.Bool("expired", errors.Is(err, constant.ErrTokenExpired)),
		zap.Error(err))

	if c.Request.URL.Path != constant.RootPath {
		g.flasher.Add(c, flash.KindError, constant.MsgUnauthorized)
	}

	c.Redirect(http.StatusFound, g.config.LoginPath)
	c.Abort()
}

// ClaimsFrom returns the claims the gate stored on the context.
func ClaimsFrom(c *gin.Context) (*model.Claims, bool) {
	v, ok := c.Get(constant.ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*model.Claims)
	return claims, ok
}
