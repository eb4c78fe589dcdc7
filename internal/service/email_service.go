package service

import (
	"fmt"
	"log"

	"github.com/inkwell/internal/config"
	"gopkg.in/gomail.v2"
)

// Notifier sends confirmation emails. Sends are fire and forget: a
// failure is logged and must never fail the triggering operation.
type Notifier interface {
	SendWelcome(name, email string)
	SendSubmissionReceived(name, email, title string)
}

// EmailService delivers notifications over SMTP.
type EmailService struct {
	cfg config.EmailConfig
}

// NewEmailService creates an EmailService instance. When the SMTP
// configuration is incomplete the service degrades to logging only.
func NewEmailService(cfg config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendWelcome greets a new community member.
func (s *EmailService) SendWelcome(name, email string) {
	subject := "Welcome to Our Writing Community!"
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome to Our Writing Community!</h2>
  <p>Hi %s,</p>
  <p>Thank you for joining our writing community! We're excited to have you as part of our literary family.</p>
  <p>You'll receive updates about new stories, essays, and articles as they're published.</p>
  <p>Best regards,<br>The Writing Team</p>
</div>`, name)

	s.send(email, subject, html)
}

// SendSubmissionReceived confirms receipt of a reader submission.
func (s *EmailService) SendSubmissionReceived(name, email, title string) {
	subject := "Submission Received - " + title
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Submission Received</h2>
  <p>Hi %s,</p>
  <p>We've received your submission: "<strong>%s</strong>"</p>
  <p>Our team will review it and get back to you soon. Thank you for sharing your work with us!</p>
  <p>Best regards,<br>The Editorial Team</p>
</div>`, name, title)

	s.send(email, subject, html)
}

func (s *EmailService) send(to, subject, html string) {
	if !s.cfg.Enabled() {
		log.Printf("email disabled, skipping %q to %s", subject, to)
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("email send failed for %s: %v", to, err)
	}
}
