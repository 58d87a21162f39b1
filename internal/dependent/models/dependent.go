// Package models holds the dependent entity. Dependents substantiate
// DEPENDENTS-type deductions on a declaration.
package models

import (
	"strings"
	"time"

	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
)

// Relationship classifies how a dependent relates to the taxpayer.
type Relationship string

const (
	RelationshipChild  Relationship = "CHILD"
	RelationshipSpouse Relationship = "SPOUSE"
	RelationshipParent Relationship = "PARENT"
	RelationshipOther  Relationship = "OTHER"
)

func (r Relationship) Valid() bool {
	switch r {
	case RelationshipChild, RelationshipSpouse, RelationshipParent, RelationshipOther:
		return true
	}
	return false
}

// Dependent is a person the taxpayer supports.
type Dependent struct {
	ID           id.DependentID
	UserID       id.UserID
	Name         string
	BirthDate    time.Time
	Relationship Relationship
	CreatedAt    time.Time
}

// NewDependent constructs a dependent owned by the given user.
func NewDependent(userID id.UserID, name string, birthDate time.Time, relationship Relationship, now time.Time) (*Dependent, error) {
	if userID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "dependent requires an owner")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "dependent name is required")
	}
	if !relationship.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "invalid relationship %q", relationship)
	}
	if birthDate.IsZero() || birthDate.After(now) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "birth date must be in the past")
	}
	return &Dependent{
		ID:           id.NewDependentID(),
		UserID:       userID,
		Name:         name,
		BirthDate:    birthDate,
		Relationship: relationship,
		CreatedAt:    now,
	}, nil
}
