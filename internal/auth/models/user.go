package models

import (
	"net/mail"
	"strings"
	"time"

	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
)

// User is a registered taxpayer. The password itself never enters the domain;
// only its bcrypt hash does.
type User struct {
	ID           id.UserID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser constructs a user with a normalized email address.
func NewUser(name, email, passwordHash string, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user name is required")
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash is required")
	}
	return &User{
		ID:           id.NewUserID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// NormalizeEmail lowercases and validates an email address. Lookups and the
// storage uniqueness rule both operate on the normalized form.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", dErrors.New(dErrors.CodeInvariantViolation, "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", dErrors.New(dErrors.CodeInvariantViolation, "invalid email address")
	}
	return email, nil
}
