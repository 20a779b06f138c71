// Package mailer sends contact-form notification emails over SMTP with
// STARTTLS. Sending is best-effort: failures are logged by callers and never
// surfaced to the submitting client.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"
)

// Config holds SMTP connection settings. Leave Host or Username empty to
// disable email sending entirely.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer formats and delivers notification emails for message submissions.
type Mailer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Mailer. Returns a disabled mailer when the config is
// incomplete; Enabled reports the result.
func New(cfg Config, logger *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Enabled reports whether the mailer has enough configuration to send.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != "" && m.cfg.Username != "" && m.cfg.Password != ""
}

// Submission carries the fields of a contact-form message used in the
// notification templates.
type Submission struct {
	Name     string
	Email    string
	Phone    string
	Subject  string
	Message  string
	Received time.Time
}

// NotifySubmission sends two emails in the background: an alert to the site
// owner and a confirmation to the submitter. It returns immediately; delivery
// errors are logged.
func (m *Mailer) NotifySubmission(sub Submission) {
	if !m.Enabled() {
		return
	}
	go func() {
		if err := m.send(m.from(), "New Contact Form: "+sub.Subject, adminTemplate, sub); err != nil {
			m.logger.Warn("failed to send admin notification email", "error", err)
		}
		if err := m.send(sub.Email, "We received your message", userTemplate, sub); err != nil {
			m.logger.Warn("failed to send confirmation email", "error", err)
		}
	}()
}

func (m *Mailer) from() string {
	if m.cfg.From != "" {
		return m.cfg.From
	}
	return m.cfg.Username
}

func (m *Mailer) send(to, subject string, tmpl *template.Template, sub Submission) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, sub); err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from())
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, m.from(), []string{to}, []byte(msg.String()))
}

var adminTemplate = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>New contact form submission</h2>
  <table cellpadding="4">
    <tr><td><strong>Name:</strong></td><td>{{.Name}}</td></tr>
    <tr><td><strong>Email:</strong></td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
    {{if .Phone}}<tr><td><strong>Phone:</strong></td><td>{{.Phone}}</td></tr>{{end}}
    <tr><td><strong>Subject:</strong></td><td>{{.Subject}}</td></tr>
  </table>
  <h3>Message</h3>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
  <p style="color: #888; font-size: 12px;">Received: {{.Received.Format "Mon, 02 Jan 2006 15:04:05 MST"}}</p>
</body>
</html>`))

var userTemplate = template.Must(template.New("user").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <p>Hi {{.Name}},</p>
  <p>Thank you for reaching out. We received your message and will be in touch with you soon.</p>
  <h3>Your message</h3>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
  <p style="color: #888; font-size: 12px;">This is an automated confirmation; there is no need to reply.</p>
</body>
</html>`))
