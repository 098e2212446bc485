package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// Mailer sends a single email. The SMTP implementation is used in
// production; NoopMailer stands in when no SMTP server is configured.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// NewMailerFromEnv builds a mailer from SMTP_* environment variables.
// Returns a NoopMailer when SMTP_HOST is unset so the rest of the system
// keeps working without an email provider.
func NewMailerFromEnv() Mailer {
	host := os.Getenv("SMTP_HOST")

	if host == "" {
		return NoopMailer{}
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USERNAME")
	}

	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     from,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	headers := []string{
		fmt.Sprintf("From: LifeBlood App <%s>", m.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}

	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := m.Host + ":" + m.Port

	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	return nil
}

// NoopMailer discards outbound mail.
type NoopMailer struct{}

func (NoopMailer) Send(to, subject, body string) error {
	return nil
}
