package validation

import (
	"regexp"
	"strings"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// emailPattern is a pragmatic email check: something@something.something.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks if an email address looks deliverable.
func ValidateEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	return emailPattern.MatchString(email)
}

// ValidatePassword checks the password against the minimum length policy.
func ValidatePassword(password string) bool {
	return len(password) >= MinPasswordLength
}

// MaskEmail obscures the local part of an email address, keeping only its
// first and last character: "test+19@example.com" -> "t*****9@example.com".
// Addresses too short to mask are returned unchanged.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 2 {
		return email
	}

	local, domain := email[:at], email[at:]
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + domain
}
