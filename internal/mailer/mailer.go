// Package mailer sends account emails over SMTP. Sends are best-effort:
// callers log failures but never surface them into the triggering flow.
package mailer

//go:generate mockgen -destination=../mocks/mock_mailer.go -package=mocks github.com/sauron136/custos/internal/mailer Sender

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/sauron136/custos/config"
)

// Sender is the delivery contract the auth service depends on.
type Sender interface {
	SendVerificationEmail(to, fullName, token string) error
	SendPasswordResetEmail(to, fullName, token string) error
}

type Mailer struct {
	cfg    *config.Config
	dialer *gomail.Dialer
	logger *zerolog.Logger
}

func New(cfg *config.Config, logger *zerolog.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		logger: logger,
	}
}

func (m *Mailer) SendVerificationEmail(to, fullName, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.cfg.FrontendURL, token)
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thanks for signing up for %s. Please confirm your email address by clicking the link below:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s.</p>
		<p>If you did not create an account, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>The %s Team</p>
	`, fullName, m.cfg.SiteName, link, link, m.cfg.VerificationExpiry, m.cfg.SiteName)

	return m.send(to, "Verify your email address", htmlBody)
}

func (m *Mailer) SendPasswordResetEmail(to, fullName, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.FrontendURL, token)
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>The %s Team</p>
	`, fullName, link, link, m.cfg.ResetTokenExpiry, m.cfg.SiteName)

	return m.send(to, "Password Reset Request", htmlBody)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTPFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send email")
		return err
	}

	m.logger.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
