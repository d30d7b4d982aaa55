package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"crewbase/internal/models"
)

func TestInviteLifecycle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	res, err := db.Bootstrap(ctx, "Hedgebox", NewUserParams{FirstName: "Alice", Email: "alice@hedgebox.net"})
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}

	invite := &models.OrganizationInvite{
		OrganizationID: res.Organization.ID,
		TargetEmail:    "bob@hedgebox.net",
		FirstName:      "Bob",
		CreatedBy:      &res.User.ID,
	}
	if err := db.CreateInvite(ctx, invite); err != nil {
		t.Fatalf("CreateInvite() error = %v", err)
	}
	if invite.ID == uuid.Nil {
		t.Fatal("CreateInvite() did not set ID")
	}

	fetched, err := db.GetInviteByID(ctx, invite.ID)
	if err != nil {
		t.Fatalf("GetInviteByID() error = %v", err)
	}
	if fetched.TargetEmail != "bob@hedgebox.net" {
		t.Errorf("GetInviteByID() target = %q, want %q", fetched.TargetEmail, "bob@hedgebox.net")
	}
	if fetched.IsExpired(time.Now()) {
		t.Error("fresh invite reported as expired")
	}

	count, err := db.CountInvites(ctx, res.Organization.ID)
	if err != nil {
		t.Fatalf("CountInvites() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountInvites() = %d, want 1", count)
	}

	if err := db.DeleteInvite(ctx, invite.ID); err != nil {
		t.Fatalf("DeleteInvite() error = %v", err)
	}

	if _, err := db.GetInviteByID(ctx, invite.ID); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("GetInviteByID() after delete error = %v, want ErrInviteNotFound", err)
	}
}

func TestGetInviteByID_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.GetInviteByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("GetInviteByID() error = %v, want ErrInviteNotFound", err)
	}
}

func TestDeleteExpiredInvites(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	res, err := db.Bootstrap(ctx, "Hedgebox", NewUserParams{FirstName: "Alice", Email: "alice@hedgebox.net"})
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}

	fresh := &models.OrganizationInvite{OrganizationID: res.Organization.ID, TargetEmail: "fresh@hedgebox.net"}
	if err := db.CreateInvite(ctx, fresh); err != nil {
		t.Fatalf("CreateInvite() error = %v", err)
	}

	stale := &models.OrganizationInvite{OrganizationID: res.Organization.ID, TargetEmail: "stale@hedgebox.net"}
	if err := db.CreateInvite(ctx, stale); err != nil {
		t.Fatalf("CreateInvite() error = %v", err)
	}
	_, err = db.Pool.Exec(ctx,
		`UPDATE organization_invites SET created_at = NOW() - INTERVAL '4 days' WHERE id = $1`, stale.ID)
	if err != nil {
		t.Fatalf("failed to backdate invite: %v", err)
	}

	deleted, err := db.DeleteExpiredInvites(ctx, "72 hours")
	if err != nil {
		t.Fatalf("DeleteExpiredInvites() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteExpiredInvites() = %d, want 1", deleted)
	}

	if _, err := db.GetInviteByID(ctx, fresh.ID); err != nil {
		t.Errorf("fresh invite was deleted: %v", err)
	}
	if _, err := db.GetInviteByID(ctx, stale.ID); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("stale invite survived the sweep: %v", err)
	}
}
