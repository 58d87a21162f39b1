// Package sentinel defines the errors stores report about storage facts.
package sentinel

import "errors"

// Stores and infrastructure return these (optionally wrapped) so services can
// translate them into coded domain errors. They state facts about records,
// not validation outcomes:
//   - ErrNotFound: record does not exist in the store
//   - ErrConflict: a uniqueness rule in the store rejected the write
//     (duplicate email, second submitted declaration for a user/year)
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
