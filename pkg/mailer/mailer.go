package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/edutrack/edutrack-api/pkg/config"
)

// Mailer delivers transactional mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New constructs a Mailer from SMTP configuration.
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers a single HTML message.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// SendWelcome mails a newly registered user their generated password.
func (m *Mailer) SendWelcome(to, name, password string) error {
	return m.Send(to, welcomeSubject, welcomeBody(name, password))
}

const welcomeSubject = "Welcome to EduTrack"

func welcomeBody(name, password string) string {
	return fmt.Sprintf(`<p>Hello %s,</p>
<p>Your EduTrack account has been created.</p>
<p>Your temporary password is: <b>%s</b></p>
<p>Please sign in and change it as soon as possible.</p>`, name, password)
}

// AsyncWelcomeMailer queues welcome mail instead of sending inline, so
// registration latency never includes the SMTP round trip.
type AsyncWelcomeMailer struct {
	queue *Queue
}

// NewAsyncWelcomeMailer wraps a queue for welcome delivery.
func NewAsyncWelcomeMailer(queue *Queue) *AsyncWelcomeMailer {
	return &AsyncWelcomeMailer{queue: queue}
}

// SendWelcome enqueues the welcome message.
func (a *AsyncWelcomeMailer) SendWelcome(to, name, password string) error {
	return a.queue.Enqueue(Message{To: to, Subject: welcomeSubject, HTMLBody: welcomeBody(name, password)})
}

// SendPasswordReset mails a reset link that expires after the configured TTL.
func (m *Mailer) SendPasswordReset(to, name, link string) error {
	if name == "" {
		name = "user"
	}
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>You requested to reset your password.</p>
<p>Click the link below to reset it:</p>
<p><a href="%s">%s</a></p>
<p>This link expires in 15 minutes.</p>
<p>If you did not request this, please ignore this email.</p>`, name, link, link)
	return m.Send(to, "Password Reset Request", body)
}
