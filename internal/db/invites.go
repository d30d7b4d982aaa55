package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crewbase/internal/models"
)

// CreateInvite creates a new organization invite.
func (d *DB) CreateInvite(ctx context.Context, invite *models.OrganizationInvite) error {
	query := `
		INSERT INTO organization_invites (organization_id, target_email, first_name, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return d.Pool.QueryRow(ctx, query,
		invite.OrganizationID,
		invite.TargetEmail,
		invite.FirstName,
		invite.CreatedBy,
	).Scan(&invite.ID, &invite.CreatedAt)
}

// GetInviteByID retrieves an invite by its token.
func (d *DB) GetInviteByID(ctx context.Context, id uuid.UUID) (*models.OrganizationInvite, error) {
	query := `
		SELECT id, organization_id, target_email, first_name, created_by, created_at
		FROM organization_invites WHERE id = $1
	`

	var invite models.OrganizationInvite
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&invite.ID,
		&invite.OrganizationID,
		&invite.TargetEmail,
		&invite.FirstName,
		&invite.CreatedBy,
		&invite.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}

	return &invite, nil
}

// ListInvites returns all pending invites for an organization, newest first.
func (d *DB) ListInvites(ctx context.Context, orgID uuid.UUID) ([]models.OrganizationInvite, error) {
	query := `
		SELECT id, organization_id, target_email, first_name, created_by, created_at
		FROM organization_invites WHERE organization_id = $1
		ORDER BY created_at DESC
	`

	rows, err := d.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []models.OrganizationInvite
	for rows.Next() {
		var invite models.OrganizationInvite
		if err := rows.Scan(
			&invite.ID,
			&invite.OrganizationID,
			&invite.TargetEmail,
			&invite.FirstName,
			&invite.CreatedBy,
			&invite.CreatedAt,
		); err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}

	return invites, rows.Err()
}

// DeleteInvite removes an invite. Called when the invite is consumed by a
// successful signup, or by an org member revoking it.
func (d *DB) DeleteInvite(ctx context.Context, id uuid.UUID) error {
	_, err := d.Pool.Exec(ctx, `DELETE FROM organization_invites WHERE id = $1`, id)
	return err
}

// CountInvites returns the number of pending invites for an organization.
func (d *DB) CountInvites(ctx context.Context, orgID uuid.UUID) (int, error) {
	var count int
	err := d.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM organization_invites WHERE organization_id = $1`, orgID).Scan(&count)
	return count, err
}

// CountAllInvites returns the number of pending invites on the instance.
func (d *DB) CountAllInvites(ctx context.Context) (int, error) {
	var count int
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM organization_invites`).Scan(&count)
	return count, err
}

// DeleteExpiredInvites removes invites older than maxAge and returns how
// many were deleted. Claim-time TTL checks remain authoritative; this is
// background hygiene only.
func (d *DB) DeleteExpiredInvites(ctx context.Context, maxAge string) (int64, error) {
	tag, err := d.Pool.Exec(ctx,
		`DELETE FROM organization_invites WHERE created_at < NOW() - $1::interval`, maxAge)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
