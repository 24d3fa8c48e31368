// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcomeEmail(toEmail, fullName string) error
	SendSyncCompletedEmail(toEmail, episodeName string) error
	SendSyncFailedEmail(toEmail, episodeName, reason string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %q to %s: %v\n", subject, toEmail, err)
		return err
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(toEmail, fullName string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to Borrowed Brain, %s!</h2>
			<p>Search for a podcast, sync an episode, and start chatting with its transcript.</p>
		</div>
	`, fullName)
	return s.send(toEmail, "Welcome to Borrowed Brain", body)
}

func (s *emailService) SendSyncCompletedEmail(toEmail, episodeName string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your episode is ready</h2>
			<p><strong>%s</strong> has finished syncing. You can now ask questions about it.</p>
		</div>
	`, episodeName)
	return s.send(toEmail, "Episode transcript ready", body)
}

func (s *emailService) SendSyncFailedEmail(toEmail, episodeName, reason string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Episode sync failed</h2>
			<p>We could not sync <strong>%s</strong>.</p>
			<p>Reason: %s</p>
			<p>You can retry from the episode page.</p>
		</div>
	`, episodeName, reason)
	return s.send(toEmail, "Episode sync failed", body)
}
