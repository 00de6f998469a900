package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"cpaas-portal/internal/config"
	"cpaas-portal/internal/observ"
)

// Sender delivers portal emails.
type Sender interface {
	SendInvite(ctx context.Context, to, company, link string) error
}

var inviteTemplate = template.Must(template.New("invite").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>You're invited to {{.Company}}</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Join {{.Company}} on CPaaS Portal</h2>
    <p>You have been invited as an administrator. Use the link below to accept the invitation.</p>
    <p><a href="{{.Link}}">Accept invitation</a></p>
    <p style="font-size: 12px; color: #7f8c8d;">The link expires in 72 hours. &copy; {{.Year}}</p>
</body>
</html>`))

type inviteData struct {
	Company string
	Link    string
	Year    int
}

func renderInvite(company, link string) (string, error) {
	var body bytes.Buffer
	if err := inviteTemplate.Execute(&body, inviteData{Company: company, Link: link, Year: time.Now().Year()}); err != nil {
		return "", fmt.Errorf("render invite: %w", err)
	}
	return body.String(), nil
}

// New returns an SMTP sender, or a LogSender when SMTP is not configured.
func New(cfg *config.Config, logger *zap.Logger) Sender {
	logger = observ.OrNop(logger)
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set, invitations will only be logged")
		return NewLogSender(logger)
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
		logger: logger,
	}
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func (s *SMTPSender) SendInvite(ctx context.Context, to, company, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := renderInvite(company, link)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("You're invited to %s", company))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("invite email failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("send invite: %w", err)
	}
	s.logger.Info("invite email sent", zap.String("to", to))
	return nil
}

// Mail is a message recorded by LogSender.
type Mail struct {
	To      string
	Company string
	Link    string
}

// LogSender logs emails instead of sending them.
type LogSender struct {
	logger *zap.Logger

	mu   sync.Mutex
	sent []Mail
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: observ.OrNop(logger)}
}

func (s *LogSender) SendInvite(_ context.Context, to, company, link string) error {
	s.mu.Lock()
	s.sent = append(s.sent, Mail{To: to, Company: company, Link: link})
	s.mu.Unlock()
	s.logger.Info("invite email", zap.String("to", to), zap.String("link", link))
	return nil
}

// Sent returns the recorded messages.
func (s *LogSender) Sent() []Mail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Mail(nil), s.sent...)
}
