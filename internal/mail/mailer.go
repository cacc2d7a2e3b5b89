// Package mail abstracts outbound email delivery.
package mail

import (
	"context"
	"log/slog"
)

// Mailer sends a single HTML email. Implementations must not report whether
// the recipient address corresponds to a registered account; delivery
// failures are the caller's to log, never to surface to the end user.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// LogMailer writes mail to the log instead of sending it. Used in
// development and tests, where a real provider is unavailable.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message and reports success.
func (m *LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.logger.Info("mail (not sent, log mailer)",
		"to", to,
		"subject", subject,
		"body_bytes", len(htmlBody),
	)
	return nil
}
