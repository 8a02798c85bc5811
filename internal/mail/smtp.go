package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/config"
)

type wellKnown struct {
	host string
	port int
	ssl  bool
}

// wellKnownServices resolves MAIL_SERVICE names to relays, the same shortcut
// deployments already use instead of an explicit host.
var wellKnownServices = map[string]wellKnown{
	"gmail":      {host: "smtp.gmail.com", port: 465, ssl: true},
	"mailjet":    {host: "in-v3.mailjet.com", port: 587},
	"sendgrid":   {host: "smtp.sendgrid.net", port: 587},
	"mailgun":    {host: "smtp.mailgun.org", port: 465, ssl: true},
	"outlook365": {host: "smtp.office365.com", port: 587},
}

// SMTPSender delivers messages through an SMTP relay. One connection per message;
// there is no retry.
type SMTPSender struct {
	client *gomail.Client
	host   string
}

// NewSMTPSender builds a client from either a well-known service name or an explicit host.
func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	host, port, ssl := cfg.Host, cfg.Port, cfg.Secure
	if cfg.Service != "" {
		svc, ok := wellKnownServices[strings.ToLower(cfg.Service)]
		if !ok {
			return nil, fmt.Errorf("unknown mail service %q", cfg.Service)
		}
		host, port, ssl = svc.host, svc.port, svc.ssl
	}
	if host == "" {
		return nil, errors.New("mail host is empty")
	}

	opts := []gomail.Option{gomail.WithPort(port)}
	if ssl {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.User),
			gomail.WithPassword(cfg.Pass),
		)
	}
	if cfg.Debug {
		opts = append(opts, gomail.WithDebugLog())
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	zap.L().Info("Mail transport configured",
		zap.String("host", host),
		zap.Int("port", port),
		zap.Bool("ssl", ssl),
		zap.Bool("debug", cfg.Debug))

	return &SMTPSender{client: client, host: host}, nil
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	m, err := toGoMail(msg)
	if err != nil {
		return err
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send via %s: %w", s.host, err)
	}
	return nil
}

func toGoMail(msg *Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if msg.FromName != "" {
		if err := m.FromFormat(msg.FromName, msg.From); err != nil {
			return nil, fmt.Errorf("invalid sender: %w", err)
		}
	} else if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}

	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	if msg.Text != "" {
		m.AddAlternativeString(gomail.TypeTextPlain, msg.Text)
	}
	for k, v := range msg.Headers {
		m.SetGenHeader(gomail.Header(k), v)
	}
	return m, nil
}
