package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserJSONHidesCredentials(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	user := User{
		Name:          "Test User",
		Email:         "test@example.com",
		PasswordHash:  "$2a$12$secret",
		Role:          RoleUser,
		VerifyToken:   "verify-token",
		ResetToken:    "reset-token",
		ResetTokenExp: &exp,
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatal(err)
	}

	body := string(data)
	for _, secret := range []string{"$2a$12$secret", "verify-token", "reset-token", "passwordHash"} {
		if strings.Contains(body, secret) {
			t.Errorf("serialized user leaks %q: %s", secret, body)
		}
	}

	if !strings.Contains(body, "test@example.com") {
		t.Error("serialized user missing email")
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleUser) || !ValidRole(RoleAdmin) {
		t.Error("known roles rejected")
	}
	for _, role := range []string{"", "superadmin", "Admin"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true", role)
		}
	}
}
