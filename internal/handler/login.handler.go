package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/internal/constant"
	"github.com/duccv/webconf-gate/internal/flash"
	"github.com/duccv/webconf-gate/internal/middleware"
	"github.com/duccv/webconf-gate/internal/model"
)

const loginTemplate = "login.html"

const (
	outcomeSent      = "sent"
	outcomeInvalid   = "invalid"
	outcomeForbidden = "forbidden"
	outcomeMailError = "mail_error"
)

type loginPage struct {
	Errors  []string
	Message string
	Email   string
}

// Root sends browsers without a session cookie to the login page.
func (h *Handler) Root(c *gin.Context) {
	if tok, err := c.Cookie(constant.TokenCookie); err != nil || tok == "" {
		c.Redirect(http.StatusFound, constant.LoginPath)
		return
	}
	c.Redirect(http.StatusFound, constant.WebconfPath)
}

// Logout only drops the browser's cookie; the token itself stays valid until it expires.
func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c, h.secureCookies)
	c.Redirect(http.StatusFound, constant.LoginPath)
}

func (h *Handler) LoginForm(c *gin.Context) {
	msgs := h.flasher.Pop(c)
	c.HTML(http.StatusOK, loginTemplate, loginPage{
		Errors:  flash.Texts(msgs, flash.KindError),
		Message: firstOf(flash.Texts(msgs, flash.KindInfo)),
	})
}

func (h *Handler) SubmitLogin(c *gin.Context) {
	var form model.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLoginError(c, http.StatusBadRequest, outcomeInvalid, form.Email, constant.ErrInvalidEmailSyntax)
		return
	}

	ctx := c.Request.Context()
	if h.loginTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.loginTimeout)
		defer cancel()
	}

	_, err := h.login.RequestLogin(ctx, form.Email, h.baseURL(c))
	switch {
	case err == nil:
		h.observer.LoginRequested(outcomeSent)
		c.HTML(http.StatusOK, loginTemplate, loginPage{
			Message: fmt.Sprintf(constant.MsgLoginMailSent, form.Email),
		})
	case errors.Is(err, constant.ErrInvalidEmailSyntax):
		h.renderLoginError(c, http.StatusBadRequest, outcomeInvalid, form.Email, err)
	case errors.Is(err, constant.ErrEmailNotAuthorized):
		h.renderLoginError(c, http.StatusForbidden, outcomeForbidden, form.Email, err)
	case errors.Is(err, constant.ErrMailDelivery):
		h.renderLoginError(c, http.StatusBadGateway, outcomeMailError, form.Email, err)
	default:
		_ = c.Error(err)
		h.renderLoginError(c, http.StatusInternalServerError, outcomeMailError, form.Email, constant.ErrMailDelivery)
	}
}

// LoginTimeoutResponse renders the mail failure page when the route deadline fires
// before SubmitLogin could answer.
func (h *Handler) LoginTimeoutResponse(c *gin.Context) {
	h.renderLoginError(c, http.StatusGatewayTimeout, outcomeMailError, "", constant.ErrMailDelivery)
}

func (h *Handler) renderLoginError(c *gin.Context, status int, outcome, email string, err error) {
	h.observer.LoginRequested(outcome)
	zap.L().Info("Login request rejected", zap.Error(err), zap.Int("status", status))
	c.HTML(status, loginTemplate, loginPage{
		Errors: []string{constant.UserMessage(err)},
		Email:  email,
	})
}

// baseURL is the address links in the login mail point back to.
func (h *Handler) baseURL(c *gin.Context) string {
	return h.scheme + "://" + c.Request.Host
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
