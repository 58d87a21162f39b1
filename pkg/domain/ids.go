// Package domain defines the typed identifiers shared across taxfill domains.
//
// Every entity carries an immutable UUID identity assigned at creation time.
// Wrapping uuid.UUID in distinct types keeps a DeclarationID from being passed
// where an IncomeID is expected.
package domain

import "github.com/google/uuid"

type (
	UserID        uuid.UUID
	DeclarationID uuid.UUID
	IncomeID      uuid.UUID
	DeductionID   uuid.UUID
	DependentID   uuid.UUID
)

func NewUserID() UserID               { return UserID(uuid.New()) }
func NewDeclarationID() DeclarationID { return DeclarationID(uuid.New()) }
func NewIncomeID() IncomeID           { return IncomeID(uuid.New()) }
func NewDeductionID() DeductionID     { return DeductionID(uuid.New()) }
func NewDependentID() DependentID     { return DependentID(uuid.New()) }

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id DeclarationID) String() string { return uuid.UUID(id).String() }
func (id IncomeID) String() string      { return uuid.UUID(id).String() }
func (id DeductionID) String() string   { return uuid.UUID(id).String() }
func (id DependentID) String() string   { return uuid.UUID(id).String() }

func (id UserID) IsZero() bool        { return uuid.UUID(id) == uuid.Nil }
func (id DeclarationID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id IncomeID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }
func (id DeductionID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }
func (id DependentID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	return UserID(u), err
}

func ParseDeclarationID(s string) (DeclarationID, error) {
	u, err := uuid.Parse(s)
	return DeclarationID(u), err
}

func ParseIncomeID(s string) (IncomeID, error) {
	u, err := uuid.Parse(s)
	return IncomeID(u), err
}

func ParseDeductionID(s string) (DeductionID, error) {
	u, err := uuid.Parse(s)
	return DeductionID(u), err
}

func ParseDependentID(s string) (DependentID, error) {
	u, err := uuid.Parse(s)
	return DependentID(u), err
}

// Text marshaling keeps the wire representation identical to a plain UUID
// string, both in JSON payloads and database scans that go through text.

func (id UserID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}

func (id DeclarationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *DeclarationID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = DeclarationID(u)
	return nil
}

func (id IncomeID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *IncomeID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = IncomeID(u)
	return nil
}

func (id DeductionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *DeductionID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = DeductionID(u)
	return nil
}

func (id DependentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *DependentID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = DependentID(u)
	return nil
}
