package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crewbase/internal/models"
)

// CreateMembership adds a user to an organization.
func (d *DB) CreateMembership(ctx context.Context, m *models.Membership) error {
	query := `
		INSERT INTO organization_memberships (organization_id, user_id, level)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`
	err := d.Pool.QueryRow(ctx, query, m.OrganizationID, m.UserID, m.Level).Scan(&m.ID, &m.JoinedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyMember
	}
	return err
}

// GetMembership retrieves the user's membership in the organization.
func (d *DB) GetMembership(ctx context.Context, orgID uuid.UUID, userID int64) (*models.Membership, error) {
	var m models.Membership
	err := d.Pool.QueryRow(ctx, `
		SELECT id, organization_id, user_id, level, joined_at
		FROM organization_memberships
		WHERE organization_id = $1 AND user_id = $2
	`, orgID, userID).Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Level, &m.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// HasMembership reports whether the user already belongs to the organization.
func (d *DB) HasMembership(ctx context.Context, orgID uuid.UUID, userID int64) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM organization_memberships
			WHERE organization_id = $1 AND user_id = $2
		)
	`, orgID, userID).Scan(&exists)
	return exists, err
}

// CountMemberships returns how many organizations the user belongs to.
func (d *DB) CountMemberships(ctx context.Context, userID int64) (int, error) {
	var count int
	err := d.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM organization_memberships WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// CountMembers returns how many users belong to the organization.
func (d *DB) CountMembers(ctx context.Context, orgID uuid.UUID) (int, error) {
	var count int
	err := d.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM organization_memberships WHERE organization_id = $1`, orgID).Scan(&count)
	return count, err
}

// GetMemberEmails returns the email addresses of everyone in the
// organization except excludeUserID. Used for member-joined notifications.
func (d *DB) GetMemberEmails(ctx context.Context, orgID uuid.UUID, excludeUserID int64) ([]string, error) {
	query := `
		SELECT u.email FROM organization_memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1 AND m.user_id != $2 AND u.email != ''
		ORDER BY m.joined_at ASC
	`

	rows, err := d.Pool.Query(ctx, query, orgID, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}

	return emails, rows.Err()
}
