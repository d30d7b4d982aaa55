package email

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"crewbase/internal/config"
	"crewbase/internal/models"
)

type fakeMemberEmails struct {
	emails []string
	err    error
	called bool
}

func (f *fakeMemberEmails) GetMemberEmails(context.Context, uuid.UUID, int64) ([]string, error) {
	f.called = true
	return f.emails, f.err
}

func TestNewNotifier(t *testing.T) {
	cfg := &config.Config{SiteTitle: "Crewbase", BaseURL: "https://app.example.com"}

	notifier := NewNotifier(cfg, nil)

	if notifier == nil {
		t.Fatal("NewNotifier returned nil")
	}
	if notifier.service == nil {
		t.Error("Notifier service is nil")
	}
	if notifier.templates == nil {
		t.Error("Notifier templates is nil")
	}
	if notifier.cfg != cfg {
		t.Error("Notifier config not set")
	}
}

func TestNotifyMemberJoined_DisabledDoesNotQuery(t *testing.T) {
	fake := &fakeMemberEmails{emails: []string{"alice@hedgebox.net"}}
	notifier := NewNotifier(&config.Config{}, fake)

	joiner := &models.User{ID: 2, FirstName: "Bob", Email: "bob@hedgebox.net"}
	org := &models.Organization{ID: uuid.New(), Name: "Hedgebox"}

	notifier.NotifyMemberJoined(context.Background(), joiner, org)

	if fake.called {
		t.Error("NotifyMemberJoined queried member emails while email is disabled")
	}
}

func TestNotifyMemberJoined_LookupErrorIsSwallowed(t *testing.T) {
	fake := &fakeMemberEmails{err: errors.New("db down")}
	notifier := NewNotifier(&config.Config{
		SMTPEnabled: true,
		SMTPHost:    "smtp.example.com",
		SMTPPort:    587,
		SMTPFrom:    "noreply@example.com",
	}, fake)

	joiner := &models.User{ID: 2, FirstName: "Bob", Email: "bob@hedgebox.net"}
	org := &models.Organization{ID: uuid.New(), Name: "Hedgebox"}

	// Must not panic or send anything
	notifier.NotifyMemberJoined(context.Background(), joiner, org)

	if !fake.called {
		t.Error("NotifyMemberJoined did not query member emails")
	}
}

func TestSendWelcome_NoEmailAddress(t *testing.T) {
	notifier := NewNotifier(&config.Config{
		SMTPEnabled: true,
		SMTPHost:    "smtp.example.com",
		SMTPPort:    587,
		SMTPFrom:    "noreply@example.com",
	}, nil)

	// A user without an email address is silently skipped
	notifier.SendWelcome(&models.User{FirstName: "Ghost"}, &models.Organization{Name: "Hedgebox"})
}
