package email

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dan9191/todo-service/internal/config"
	"github.com/Dan9191/todo-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 5 * time.Second

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.smtpSend
	return s
}

// SendWelcome sends a welcome email to a newly registered user
func (s *Sender) SendWelcome(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{user.Email}
	e.Subject = "Welcome to your to-do list"
	e.Text = []byte(welcomeBody(user))

	if err := s.deliver(ctx, e); err != nil {
		s.logger.Errorf("Failed to send welcome email to %s: %v", user.Email, err)
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", user.Email, e.Subject)
	return nil
}

// deliver sends e but gives up once ctx is done or the SMTP timeout passes.
// The abandoned send finishes in the background.
func (s *Sender) deliver(ctx context.Context, e *email.Email) error {
	timeout := s.cfg.SMTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.send(e)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("smtp delivery abandoned: %w", ctx.Err())
	}
}

func (s *Sender) smtpSend(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}

func welcomeBody(user *models.User) string {
	greeting := user.Email
	if user.Name != nil && *user.Name != "" {
		greeting = *user.Name
	}
	body := fmt.Sprintf("Dear %s,\n\n", greeting)
	body += "Your account has been created. You can now sign in with " + user.Email + " and start adding tasks.\n"
	body += "\nBest regards,\nTodo Service"
	return body
}
