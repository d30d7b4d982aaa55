package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crewbase/internal/models"
)

// CreateOrganization creates a new organization.
func (d *DB) CreateOrganization(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query, org.Name).Scan(
		&org.ID, &org.CreatedAt, &org.UpdatedAt,
	)
}

// GetOrganizationByID retrieves an organization by ID.
func (d *DB) GetOrganizationByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM organizations WHERE id = $1
	`

	var org models.Organization
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrgNotFound
	}
	if err != nil {
		return nil, err
	}

	return &org, nil
}

// GetOrganizationByName retrieves an organization by its exact name.
// Used for the domain-based SSO auto-join mapping.
func (d *DB) GetOrganizationByName(ctx context.Context, name string) (*models.Organization, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM organizations WHERE name = $1
		ORDER BY created_at ASC LIMIT 1
	`

	var org models.Organization
	err := d.Pool.QueryRow(ctx, query, name).Scan(
		&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrgNotFound
	}
	if err != nil {
		return nil, err
	}

	return &org, nil
}

// CountOrganizations returns the total number of organizations on the instance.
func (d *DB) CountOrganizations(ctx context.Context) (int, error) {
	var count int
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM organizations`).Scan(&count)
	return count, err
}
