package sqlite

import "github.com/ideabank/ideabank/pkg/domain/interfaces"

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = interfaces.ErrRecordNotFound
