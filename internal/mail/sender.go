package mail

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/sfrp-tup/helpline/internal/config"
)

// Message is a fully rendered outbound email.
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers messages. Implementations must be safe for concurrent
// use from the request path and the overdue worker.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers mail through an SMTP relay via gomail.
type SMTPSender struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

// NewSMTPSender builds a sender from mail configuration.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTPSender) Send(msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromAddress, s.cfg.FromName)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogSender logs messages instead of delivering them. Used when the
// send-emails flag is off (dry-run mode).
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender builds a dry-run sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(msg Message) error {
	s.logger.Info("email delivery disabled; would have sent",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
