package email

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/todo-service/internal/config"
	"github.com/Dan9191/todo-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

func newTestSender(send func(e *email.Email) error) *Sender {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := NewSender(&config.Config{SenderEmail: "no-reply@todo.local"}, logger)
	s.send = send
	return s
}

func TestSendWelcome_ComposesMessage(t *testing.T) {
	var sent *email.Email
	s := newTestSender(func(e *email.Email) error {
		sent = e
		return nil
	})

	name := "Ada"
	user := &models.User{Email: "ada@x.com", Name: &name}
	if err := s.SendWelcome(context.Background(), user); err != nil {
		t.Fatalf("SendWelcome returned error: %v", err)
	}
	if sent == nil {
		t.Fatal("expected message to be sent")
	}
	if sent.From != "no-reply@todo.local" {
		t.Errorf("From = %q", sent.From)
	}
	if len(sent.To) != 1 || sent.To[0] != "ada@x.com" {
		t.Errorf("To = %v", sent.To)
	}
	if !strings.HasPrefix(string(sent.Text), "Dear Ada,") {
		t.Errorf("Text = %q; want greeting by name", sent.Text)
	}
}

func TestSendWelcome_FallsBackToEmail(t *testing.T) {
	var body string
	s := newTestSender(func(e *email.Email) error {
		body = string(e.Text)
		return nil
	})

	if err := s.SendWelcome(context.Background(), &models.User{Email: "b@x.com"}); err != nil {
		t.Fatalf("SendWelcome returned error: %v", err)
	}
	if !strings.HasPrefix(body, "Dear b@x.com,") {
		t.Errorf("Text = %q; want greeting by email", body)
	}
}

func TestSendWelcome_DeliveryError(t *testing.T) {
	s := newTestSender(func(e *email.Email) error {
		return errors.New("connection refused")
	})

	err := s.SendWelcome(context.Background(), &models.User{Email: "c@x.com"})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected wrapped delivery error, got %v", err)
	}
}

func TestSendWelcome_CancelledContext(t *testing.T) {
	called := false
	s := newTestSender(func(e *email.Email) error {
		called = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.SendWelcome(ctx, &models.User{Email: "d@x.com"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v; want context.Canceled", err)
	}
	if called {
		t.Error("did not expect send on cancelled context")
	}
}

func TestSendWelcome_SlowServerTimesOut(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	s := newTestSender(func(e *email.Email) error {
		<-release
		return nil
	})
	s.cfg.SMTPTimeout = 20 * time.Millisecond

	start := time.Now()
	err := s.SendWelcome(context.Background(), &models.User{Email: "e@x.com"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v; want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("SendWelcome took %s; want it bounded by the SMTP timeout", elapsed)
	}
}
