package services

import (
	"context"
	"fmt"

	"eventportals/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService backed by the given Mailer and
// template renderer. Template names are fixed per message kind.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

func (s *emailService) send(templateName, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	return nil
}

func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	return s.send("welcome", data.Email, data)
}

func (s *emailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	if data == nil {
		return fmt.Errorf("login code email data is nil")
	}
	return s.send("login_code", data.Email, data)
}
