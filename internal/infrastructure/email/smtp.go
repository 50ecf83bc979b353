// Package email delivers reminder notifications over SMTP.
package email

import (
	"errors"
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/recurra-io/recurra/internal/infrastructure/markdown"
	sharedConfig "github.com/recurra-io/recurra/internal/shared/config"
)

// ErrEmailServiceNotConfigured is returned when no SMTP host is set.
var ErrEmailServiceNotConfigured = errors.New("email service not configured")

// SMTPEmailService sends reminder emails through a configured SMTP relay.
// Notes are Markdown and render to sanitized HTML in the message body.
type SMTPEmailService struct {
	config   sharedConfig.EmailConfig
	dialer   *gomail.Dialer
	renderer *markdown.Renderer
}

func NewSMTPEmailService(config sharedConfig.EmailConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config:   config,
		dialer:   gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword),
		renderer: markdown.NewRenderer(),
	}
}

// Configured reports whether an SMTP host is set.
func (s *SMTPEmailService) Configured() bool {
	return s.config.SMTPHost != ""
}

// SendReminderEmail sends the due-reminder notification. The scheduled time
// is rendered in the recipient's timezone.
func (s *SMTPEmailService) SendReminderEmail(to, question, notes string, scheduledTime time.Time, loc *time.Location) error {
	if !s.Configured() {
		return ErrEmailServiceNotConfigured
	}

	localTime := scheduledTime.In(loc).Format("Monday, 02 January 2006 at 15:04")

	notesHTML := ""
	if notes != "" {
		rendered, err := s.renderer.Render(notes)
		if err != nil {
			return fmt.Errorf("failed to render notes: %w", err)
		}
		notesHTML = fmt.Sprintf("<div>%s</div>", rendered)
	}

	subject := fmt.Sprintf("Reminder: %s", question)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>%s</h2>
			<p>Scheduled for %s.</p>
			%s
			<p>Open the app to mark it done, dismiss it, or snooze it.</p>
		</body>
		</html>
	`, html.EscapeString(question), localTime, notesHTML)

	plainBody := fmt.Sprintf(`%s

Scheduled for %s.

%s

Open the app to mark it done, dismiss it, or snooze it.
`, question, localTime, notes)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
