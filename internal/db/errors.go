package db

import "errors"

// Domain-level database error sentinels.
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")

	// Organisation errors
	ErrOrgNotFound  = errors.New("organization not found")
	ErrTeamNotFound = errors.New("team not found")

	// Invite errors
	ErrInviteNotFound = errors.New("invite not found")

	// Membership errors
	ErrAlreadyMember      = errors.New("user is already a member of this organization")
	ErrMembershipNotFound = errors.New("membership not found")
)
