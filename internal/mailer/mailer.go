package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"mergington/cmd/buildCFG"
	"mergington/internal/dto"
)

// SendRosterEmail emails a student a confirmation of a roster change.
func SendRosterEmail(log *zerolog.Logger, cfg buildCFG.SMTPConfig, activityName, action, recipientEmail string) error {
	var subject, body string
	switch action {
	case dto.ActionSignedUp:
		subject = "You are signed up for " + activityName
		body = fmt.Sprintf("Hello!\n\nYou have been signed up for %s. See you there!", activityName)
	case dto.ActionUnregistered:
		subject = "You have been unregistered from " + activityName
		body = fmt.Sprintf("Hello!\n\nYou have been unregistered from %s.", activityName)
	default:
		return fmt.Errorf("unknown roster action %q", action)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		cfg.From, recipientEmail, subject, body,
	)

	addr := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)

	if err := smtp.SendMail(addr, auth, cfg.From, []string{recipientEmail}, []byte(msg)); err != nil {
		log.Warn().Msgf("failed to send email to %s: %v", recipientEmail, err)
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Msgf("email sent to %s (action: %s)", recipientEmail, action)
	return nil
}
