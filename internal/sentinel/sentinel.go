package sentinel

import "errors"

// Sentinel store errors. Stores return these (optionally wrapped) so services
// can translate them into domain errors exactly once.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrExpired  = errors.New("expired")
)
