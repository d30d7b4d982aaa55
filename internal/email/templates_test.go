package email

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"crewbase/internal/config"
	"crewbase/internal/models"
)

func testTemplates() *Templates {
	return NewTemplates(&config.Config{
		SiteTitle: "Crewbase",
		BaseURL:   "https://app.example.com",
	})
}

func TestTemplates_BaseHTML(t *testing.T) {
	tmpl := testTemplates()

	html := tmpl.baseHTML("Test Title", "<p>Test content</p>")

	checks := []string{
		"<!DOCTYPE html>",
		"<title>Test Title</title>",
		"Crewbase",
		"https://app.example.com",
		"<p>Test content</p>",
	}

	for _, check := range checks {
		if !strings.Contains(html, check) {
			t.Errorf("baseHTML missing %q", check)
		}
	}
}

func TestTemplates_BaseHTML_EscapesHTML(t *testing.T) {
	tmpl := NewTemplates(&config.Config{
		SiteTitle: "<script>alert('xss')</script>",
		BaseURL:   "https://app.example.com",
	})

	html := tmpl.baseHTML("Test", "Content")

	if strings.Contains(html, "<script>alert") {
		t.Error("baseHTML did not escape the site title")
	}
}

func TestTemplates_MemberJoined(t *testing.T) {
	tmpl := testTemplates()

	joiner := &models.User{FirstName: "Bob", Email: "bob@hedgebox.net"}
	org := &models.Organization{Name: "Hedgebox"}

	subject, htmlBody, textBody := tmpl.MemberJoined(joiner, org)

	if !strings.Contains(subject, "Bob joined Hedgebox") {
		t.Errorf("subject = %q", subject)
	}
	for _, body := range []string{htmlBody, textBody} {
		if !strings.Contains(body, "bob@hedgebox.net") {
			t.Error("body missing joiner email")
		}
		if !strings.Contains(body, "Hedgebox") {
			t.Error("body missing organization name")
		}
	}
}

func TestTemplates_MemberJoined_NoName(t *testing.T) {
	tmpl := testTemplates()

	joiner := &models.User{Email: "bob@hedgebox.net"}
	org := &models.Organization{Name: "Hedgebox"}

	subject, _, _ := tmpl.MemberJoined(joiner, org)

	// Falls back to the email address when no name is set
	if !strings.Contains(subject, "bob@hedgebox.net") {
		t.Errorf("subject = %q", subject)
	}
}

func TestTemplates_Welcome(t *testing.T) {
	tmpl := testTemplates()

	user := &models.User{FirstName: "Alice", Email: "alice@hedgebox.net"}
	org := &models.Organization{Name: "Hedgebox"}

	subject, htmlBody, textBody := tmpl.Welcome(user, org)

	if subject != "Welcome to Crewbase!" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(htmlBody, "https://app.example.com/onboarding") {
		t.Error("html body missing onboarding link")
	}
	if !strings.Contains(textBody, "https://app.example.com/onboarding") {
		t.Error("text body missing onboarding link")
	}
}

func TestTemplates_Invite(t *testing.T) {
	tmpl := testTemplates()

	invite := &models.OrganizationInvite{
		ID:          uuid.New(),
		TargetEmail: "bob@hedgebox.net",
		FirstName:   "Bob",
	}
	org := &models.Organization{Name: "Hedgebox"}
	inviter := &models.User{FirstName: "Alice", Email: "alice@hedgebox.net"}

	subject, htmlBody, textBody := tmpl.Invite(invite, org, inviter)

	if !strings.Contains(subject, "Alice invited you to join Hedgebox") {
		t.Errorf("subject = %q", subject)
	}

	joinURL := "https://app.example.com/signup/" + invite.ID.String()
	if !strings.Contains(htmlBody, joinURL) {
		t.Error("html body missing join URL")
	}
	if !strings.Contains(textBody, joinURL) {
		t.Error("text body missing join URL")
	}
	if !strings.Contains(htmlBody, "Hi Bob,") {
		t.Error("html body missing personalized greeting")
	}
	if !strings.Contains(textBody, "expires in 3 days") {
		t.Error("text body missing expiry notice")
	}
}
