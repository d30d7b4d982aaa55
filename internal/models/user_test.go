package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUserHasPassword(t *testing.T) {
	withPassword := &User{HashedPassword: "$2a$10$abcdefg"}
	if !withPassword.HasPassword() {
		t.Error("HasPassword() = false for user with a hash")
	}

	socialOnly := &User{}
	if socialOnly.HasPassword() {
		t.Error("HasPassword() = true for social-only user")
	}
}

func TestUserJSONHidesPassword(t *testing.T) {
	user := &User{FirstName: "Alice", HashedPassword: "supersecret"}

	encoded, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(encoded), "supersecret") {
		t.Error("hashed password leaked into JSON output")
	}
}
