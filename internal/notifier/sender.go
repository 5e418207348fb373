// Package notifier delivers administrator emails off the request path.
package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"member-portal/internal/config"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// Message is one outbound email
type Message struct {
	To      string
	Subject string
	Body    string
	// ContactID links the email to the stored contact message, if any
	ContactID uint
}

// Sender delivers a message. Implementations must honor ctx cancellation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

func init() {
	// mail.v2 reads the server greeting before it applies Dialer.Timeout,
	// so the deadline is set as soon as the connection exists.
	mail.NetDialTimeout = dialWithDeadline
}

func dialWithDeadline(network, address string, timeout time.Duration) (net.Conn, error) {
	conn, err := net.DialTimeout(network, address, timeout)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}
	return conn, nil
}

// MailSender sends through an SMTP server using gopkg.in/mail.v2
type MailSender struct {
	dialer *mail.Dialer
	from   string
}

// NewMailSender builds a MailSender from SMTP settings
func NewMailSender(cfg config.SMTPConfig) *MailSender {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = cfg.Timeout
	d.SSL = cfg.SSL
	if cfg.TLS {
		d.StartTLSPolicy = mail.MandatoryStartTLS
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	} else {
		d.StartTLSPolicy = mail.OpportunisticStartTLS
	}
	return &MailSender{dialer: d, from: cfg.From}
}

// dialerFor returns a private copy of the dialer whose timeout does not
// outlast ctx. The copy also keeps concurrent sends from sharing the
// dialer's negotiated auth.
func (s *MailSender) dialerFor(ctx context.Context) (*mail.Dialer, error) {
	d := *s.dialer
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return nil, context.DeadlineExceeded
		}
		if d.Timeout <= 0 || left < d.Timeout {
			d.Timeout = left
		}
	}
	return &d, nil
}

// Send delivers msg, giving up when ctx ends. The connection deadline is
// derived from ctx, so an abandoned attempt ends about when ctx does.
func (s *MailSender) Send(ctx context.Context, msg Message) error {
	d, err := s.dialerFor(ctx)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}

// LogSender writes messages to the log instead of sending them.
// Used when no SMTP host is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not sent, no SMTP host configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

// NewSender picks the SMTP sender, or the log sender when cfg.Host is empty
func NewSender(cfg config.SMTPConfig, logger *zap.Logger) Sender {
	if cfg.Host == "" {
		return NewLogSender(logger)
	}
	return NewMailSender(cfg)
}
