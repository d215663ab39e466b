package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey string
	from   string
	to     string
}

// NewEmailService returns a SendGrid-backed EmailService. With an empty API
// key or recipient it degrades to a no-op, so email stays optional.
func NewEmailService(apiKey, from, to string) EmailService {
	return &emailService{apiKey: apiKey, from: from, to: to}
}

func (s *emailService) SendAdminSummary(ctx context.Context, subject, body string) error {
	if s.apiKey == "" || s.to == "" {
		return nil
	}

	from := mail.NewEmail("Tool Rent Bot", s.from)
	recipient := mail.NewEmail("", s.to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
