package email

import (
	"fmt"
	"html"

	"crewbase/internal/config"
	"crewbase/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// MemberJoined generates the notification for existing organization members
// when someone new joins.
func (t *Templates) MemberJoined(joiner *models.User, org *models.Organization) (subject, htmlBody, textBody string) {
	name := joiner.FirstName
	if name == "" {
		name = joiner.Email
	}

	subject = fmt.Sprintf("%s joined %s on %s", name, org.Name, t.cfg.SiteTitle)

	content := fmt.Sprintf(`
        <p>A new member just joined your organization.</p>

        <div class="info-box">
            <p><span class="label">Name:</span> %s</p>
            <p><span class="label">Email:</span> %s</p>
            <p><span class="label">Organization:</span> %s</p>
        </div>

        <p style="text-align: center;">
            <a href="%s/organization/members" class="button">View Members</a>
        </p>
    `,
		html.EscapeString(name),
		html.EscapeString(joiner.Email),
		html.EscapeString(org.Name),
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`A new member just joined your organization.

Name: %s
Email: %s
Organization: %s

View members: %s/organization/members

--
%s
%s`,
		name,
		joiner.Email,
		org.Name,
		t.cfg.BaseURL,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

// Welcome generates the welcome email sent after a fresh signup.
func (t *Templates) Welcome(user *models.User, org *models.Organization) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Welcome to %s!", t.cfg.SiteTitle)

	content := fmt.Sprintf(`
        <p>Hi %s,</p>
        <p>Your organization <strong>%s</strong> is ready. Head over to your
        dashboard to finish setting things up and invite your teammates.</p>

        <p style="text-align: center;">
            <a href="%s/onboarding" class="button">Get Started</a>
        </p>
    `,
		html.EscapeString(user.FirstName),
		html.EscapeString(org.Name),
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Hi %s,

Your organization %s is ready. Head over to your dashboard to finish
setting things up and invite your teammates.

Get started: %s/onboarding

--
%s
%s`,
		user.FirstName,
		org.Name,
		t.cfg.BaseURL,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

// Invite generates the email sent to an invitee with their join link.
func (t *Templates) Invite(invite *models.OrganizationInvite, org *models.Organization, inviter *models.User) (subject, htmlBody, textBody string) {
	inviterName := inviter.FirstName
	if inviterName == "" {
		inviterName = inviter.Email
	}

	subject = fmt.Sprintf("%s invited you to join %s on %s", inviterName, org.Name, t.cfg.SiteTitle)
	joinURL := fmt.Sprintf("%s/signup/%s", t.cfg.BaseURL, invite.ID)

	greeting := "Hi,"
	if invite.FirstName != "" {
		greeting = fmt.Sprintf("Hi %s,", html.EscapeString(invite.FirstName))
	}

	content := fmt.Sprintf(`
        <p>%s</p>
        <p><strong>%s</strong> has invited you to join the organization
        <strong>%s</strong>.</p>

        <p style="text-align: center;">
            <a href="%s" class="button">Accept Invite</a>
        </p>

        <p>This invite expires in 3 days.</p>
    `,
		greeting,
		html.EscapeString(inviterName),
		html.EscapeString(org.Name),
		joinURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`%s has invited you to join the organization %s.

Accept the invite: %s

This invite expires in 3 days.

--
%s
%s`,
		inviterName,
		org.Name,
		joinURL,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}
