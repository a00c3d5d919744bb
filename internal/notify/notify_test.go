package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/diewo77/talentos/internal/config"
)

func TestNewPicksImplementation(t *testing.T) {
	if _, ok := New(config.MailConfig{}).(Nop); !ok {
		t.Fatalf("expected Nop without host")
	}
	if _, ok := New(config.MailConfig{Host: "smtp.example.com", Port: 587}).(*SMTP); !ok {
		t.Fatalf("expected SMTP with host")
	}
}

func TestSMTPHonoursCancelledContext(t *testing.T) {
	s := NewSMTP(config.MailConfig{Host: "127.0.0.1", Port: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Send(ctx, "a@b.co", "s", "b"); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestConfirmation(t *testing.T) {
	subject, body := Confirmation("pt", "Ana", "Go Developer")
	if subject != "Inscrição recebida - Go Developer" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Olá Ana") || !strings.Contains(body, `"Go Developer"`) {
		t.Fatalf("unexpected body %q", body)
	}
}
