package interfaces

import "errors"

// ErrRecordNotFound is the shared not-found sentinel of the repository
// contract. Backends wrap it so callers can test with errors.Is without
// importing a concrete backend.
var ErrRecordNotFound = errors.New("record not found")
