package portfolio

import (
	"errors"

	"github.com/alnah/go-folio/internal/mongostore"
)

var (
	// ErrNotFound is returned when an entity id matches nothing.
	ErrNotFound = mongostore.ErrNotFound

	ErrInvalidEntity = errors.New("invalid entity")
	ErrInvalidOrder  = errors.New("invalid project order")
)
