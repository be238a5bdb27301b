package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, fullName string) error
	SendLeaveDecisionEmail(email, fullName string, approved bool, startDate, endDate string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, fullName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your FieldOps account is ready")

	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your FieldOps dashboard account has been created.</p>
		<p>You can now sign in and see your sales, visits and leave balance.</p>
	`, fullName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendLeaveDecisionEmail(email, fullName string, approved bool, startDate, endDate string) error {
	decision := "approved"
	if !approved {
		decision = "rejected"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Leave request %s", decision))

	body := fmt.Sprintf(`
		<h3>Hello, %s</h3>
		<p>Your leave request for <strong>%s — %s</strong> has been <strong>%s</strong>.</p>
		<p>If you have questions, contact your manager.</p>
	`, fullName, startDate, endDate, decision)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send leave decision email: %w", err)
	}
	return nil
}
