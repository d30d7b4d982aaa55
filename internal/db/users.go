package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"crewbase/internal/models"
)

const userColumns = `id, uuid, distinct_id, first_name, email, hashed_password, email_opt_in,
	current_organization_id, current_team_id, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.UUID,
		&user.DistinctID,
		&user.FirstName,
		&user.Email,
		&user.HashedPassword,
		&user.EmailOptIn,
		&user.CurrentOrgID,
		&user.CurrentTeamID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByID retrieves a user by their numeric primary key.
func (d *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, id))
}

// GetUserByEmail retrieves a user by their email address.
func (d *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, email))
}

// CountUsers returns the total number of users on the instance.
func (d *DB) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// UpdateCurrentOrgAndTeam points the user at a new current organization and team.
func (d *DB) UpdateCurrentOrgAndTeam(ctx context.Context, user *models.User, org *models.Organization, team *models.Team) error {
	query := `
		UPDATE users SET current_organization_id = $1, current_team_id = $2, updated_at = NOW()
		WHERE id = $3
	`
	if _, err := d.Pool.Exec(ctx, query, org.ID, team.ID, user.ID); err != nil {
		return err
	}
	user.CurrentOrgID = &org.ID
	user.CurrentTeamID = &team.ID
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
