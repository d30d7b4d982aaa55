package email

import (
	"context"
	"log"

	"github.com/google/uuid"

	"crewbase/internal/config"
	"crewbase/internal/models"
)

// MemberEmailGetter is the slice of the database the notifier needs.
type MemberEmailGetter interface {
	GetMemberEmails(ctx context.Context, orgID uuid.UUID, excludeUserID int64) ([]string, error)
}

// Notifier sends email notifications for signup lifecycle events.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
	db        MemberEmailGetter
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, db MemberEmailGetter) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		db:        db,
	}
}

// NotifyMemberJoined emails every pre-existing member of the organization
// that someone new joined. Nothing is sent when the joiner is the first
// member.
func (n *Notifier) NotifyMemberJoined(ctx context.Context, joiner *models.User, org *models.Organization) {
	if !n.service.IsEnabled() {
		return
	}

	emails, err := n.db.GetMemberEmails(ctx, org.ID, joiner.ID)
	if err != nil {
		log.Printf("Failed to get member emails: %v", err)
		return
	}

	if len(emails) == 0 {
		return
	}

	subject, htmlBody, textBody := n.templates.MemberJoined(joiner, org)
	n.service.SendAsync(emails, subject, htmlBody, textBody)
}

// SendWelcome emails a fresh signup their getting-started link.
func (n *Notifier) SendWelcome(user *models.User, org *models.Organization) {
	if !n.service.IsEnabled() || user.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.Welcome(user, org)
	n.service.SendAsync([]string{user.Email}, subject, htmlBody, textBody)
}

// SendInvite emails an invitee their join link.
func (n *Notifier) SendInvite(invite *models.OrganizationInvite, org *models.Organization, inviter *models.User) {
	if !n.service.IsEnabled() || invite.TargetEmail == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.Invite(invite, org, inviter)
	n.service.SendAsync([]string{invite.TargetEmail}, subject, htmlBody, textBody)
}
