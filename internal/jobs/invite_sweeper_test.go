package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"crewbase/internal/db"
	"crewbase/internal/models"
	"crewbase/internal/testutil"
)

func TestNewInviteSweeper(t *testing.T) {
	sweeper := NewInviteSweeper(nil, time.Hour)

	if sweeper.interval != time.Hour {
		t.Errorf("interval = %v, want 1h", sweeper.interval)
	}
	if sweeper.maxAge != models.InviteTTL {
		t.Errorf("maxAge = %v, want %v", sweeper.maxAge, models.InviteTTL)
	}
}

func TestSweepDeletesOnlyExpiredInvites(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	org, _ := testutil.CreateTestOrg(t, database, "Hedgebox")

	fresh := testutil.CreateTestInvite(t, database, org, "fresh@hedgebox.net", 0)
	stale := testutil.CreateTestInvite(t, database, org, "stale@hedgebox.net", models.InviteTTL+24*time.Hour)

	sweeper := NewInviteSweeper(database, time.Hour)
	sweeper.sweep(ctx)

	if _, err := database.GetInviteByID(ctx, fresh.ID); err != nil {
		t.Errorf("fresh invite removed by sweep: %v", err)
	}
	if _, err := database.GetInviteByID(ctx, stale.ID); !errors.Is(err, db.ErrInviteNotFound) {
		t.Errorf("stale invite survived sweep: %v", err)
	}
}
