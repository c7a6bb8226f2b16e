package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a reference does not resolve in its collection.
type ErrNotFound struct {
	Entity EntityType
	Key    string
	// By names the field used for the lookup; empty means the primary id.
	By string
}

func (e ErrNotFound) Error() string {
	if e.By != "" {
		return fmt.Sprintf("%s with %s %q not found", e.Entity, e.By, e.Key)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// IsNotFound reports whether err is, or wraps, an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// ErrInvalidLetter is returned when a letter filter outside A-Z is requested.
var ErrInvalidLetter = errors.New("letter filter must be a single uppercase letter A-Z")
