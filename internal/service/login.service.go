package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/config"
	"github.com/duccv/webconf-gate/internal/allowlist"
	"github.com/duccv/webconf-gate/internal/constant"
	"github.com/duccv/webconf-gate/internal/mail"
	"github.com/duccv/webconf-gate/internal/model"
	"github.com/duccv/webconf-gate/internal/validation"
	"github.com/duccv/webconf-gate/internal/webconf"
	"github.com/duccv/webconf-gate/pkg/logger"
)

const (
	loginMailSubject  = "Connexion Webconf BetaGouv"
	loginMailTemplate = "login-mail.html"
)

// LoginService handles a login request from form submission to mail hand-off.
type LoginService struct {
	allowlist *allowlist.Checker
	links     *webconf.LinkBuilder
	mailer    mail.Sender
	templates *template.Template
	mailCfg   config.MailConfig
}

func NewLoginService(
	checker *allowlist.Checker,
	links *webconf.LinkBuilder,
	mailer mail.Sender,
	templates *template.Template,
	mailCfg config.MailConfig,
) *LoginService {
	return &LoginService{
		allowlist: checker,
		links:     links,
		mailer:    mailer,
		templates: templates,
		mailCfg:   mailCfg,
	}
}

type loginMailData struct {
	*model.LoginLinks
	Validity string
	Sender   string
}

// RequestLogin validates the email, checks the allowlist and mails a login link built
// against baseURL. Errors are constant.ErrInvalidEmailSyntax, constant.ErrEmailNotAuthorized
// or constant.ErrMailDelivery; the transport error behind the latter is only logged.
func (s *LoginService) RequestLogin(ctx context.Context, email, baseURL string) (*model.LoginLinks, error) {
	log := logger.WithComponent(logger.FromContext(ctx), "login")

	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	log.Debug("Checking allowlist", zap.String("email", email))
	if !s.allowlist.IsAuthorized(email) {
		return nil, fmt.Errorf("%w: %s", constant.ErrEmailNotAuthorized, email)
	}

	links, err := s.links.Build(email, baseURL)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	data := loginMailData{
		LoginLinks: links,
		Validity:   formatValidity(s.links.TTL()),
		Sender:     s.mailCfg.Sender,
	}
	if err := s.templates.ExecuteTemplate(&body, loginMailTemplate, data); err != nil {
		return nil, fmt.Errorf("render login mail: %w", err)
	}

	msg := mail.NewHTMLMessage(s.mailCfg.SenderName, s.mailCfg.Sender, email, loginMailSubject, body.String())
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Error("Login mail delivery failed",
			zap.Error(err),
			zap.String("to", email),
			zap.Bool("timeout", errors.Is(err, context.DeadlineExceeded)))
		return nil, constant.ErrMailDelivery
	}

	log.Info("Login mail sent", zap.String("to", email), zap.String("room", links.Room))
	return links, nil
}

// formatValidity renders a ttl the way the mail body reads it, e.g. "1 heure", "24 heures".
func formatValidity(ttl time.Duration) string {
	hours := int(ttl.Hours())
	switch {
	case hours == 1:
		return "1 heure"
	case hours > 1:
		return fmt.Sprintf("%d heures", hours)
	default:
		return fmt.Sprintf("%d minutes", int(ttl.Minutes()))
	}
}
