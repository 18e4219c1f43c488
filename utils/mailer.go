package utils

import (
	"fmt"

	"travelapp/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends plain-text email through the configured SMTP relay.
type Mailer interface {
	Send(subject, body, from string, to []string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
}

// NewMailer builds a Mailer from the SMTP settings in AppConfig.
func NewMailer() Mailer {
	cfg := config.AppConfig
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

func (m *smtpMailer) Send(subject, body, from string, to []string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
