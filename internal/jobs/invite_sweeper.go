package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"crewbase/internal/db"
	"crewbase/internal/models"
)

// InviteSweeper periodically deletes invites past their TTL. Claim-time
// checks reject expired invites regardless; the sweeper keeps the table
// and the pending-invite counts clean.
type InviteSweeper struct {
	db       *db.DB
	interval time.Duration
	maxAge   time.Duration
}

// NewInviteSweeper creates a new invite sweeper.
func NewInviteSweeper(database *db.DB, interval time.Duration) *InviteSweeper {
	return &InviteSweeper{
		db:       database,
		interval: interval,
		maxAge:   models.InviteTTL,
	}
}

// Start begins the background sweep loop.
func (s *InviteSweeper) Start(ctx context.Context) {
	log.Printf("Invite sweeper started (interval: %v, maxAge: %v)", s.interval, s.maxAge)

	// Run immediately on start
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Invite sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *InviteSweeper) sweep(ctx context.Context) {
	maxAge := fmt.Sprintf("%d hours", int(s.maxAge.Hours()))
	deleted, err := s.db.DeleteExpiredInvites(ctx, maxAge)
	if err != nil {
		log.Printf("Invite sweeper: failed to delete expired invites: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Invite sweeper: deleted %d expired invites", deleted)
	}
}
