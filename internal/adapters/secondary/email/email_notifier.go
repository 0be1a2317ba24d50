// Package email is the secondary adapter for operational notifications.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/lorrc/lab-dashboard-backend/internal/config"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// SMTPNotifier sends pipeline notifications over plain SMTP. When disabled
// it degrades to logging, which keeps development environments mail-free.
// It implements the ports.Notifier interface.
type SMTPNotifier struct {
	cfg    config.EmailConfig
	send   func(addr, from string, to []string, msg []byte) error
	logger *slog.Logger
}

var _ ports.Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier creates a new notifier from the email configuration.
func NewSMTPNotifier(cfg config.EmailConfig, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg: cfg,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
		logger: logger.With("component", "email_notifier"),
	}
}

// Notify delivers one notification. Failures are logged, never propagated:
// a dead mail relay must not fail a pipeline run that already committed.
func (n *SMTPNotifier) Notify(ctx context.Context, params ports.NotificationParams) {
	if !n.cfg.Enabled || len(n.cfg.Recipients) == 0 {
		n.logger.InfoContext(ctx, "notification (email disabled)",
			"subject", params.Subject,
			"message", params.Message,
		)
		return
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	msg := buildMessage(n.cfg.From, n.cfg.Recipients, params.Subject, params.Message)

	if err := n.send(addr, n.cfg.From, n.cfg.Recipients, msg); err != nil {
		n.logger.ErrorContext(ctx, "failed to send notification email",
			"subject", params.Subject,
			"error", err,
		)
		return
	}

	n.logger.InfoContext(ctx, "notification email sent",
		"subject", params.Subject,
		"recipients", len(n.cfg.Recipients),
	)
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
