// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"fmt"

	"blogapi/internal/database"
)

// ErrDuplicate marks writes rejected by a unique index.
var ErrDuplicate = errors.New("duplicate record")

// translateError tags unique index violations with ErrDuplicate and leaves
// every other error untouched.
func translateError(err error) error {
	if err == nil || errors.Is(err, ErrDuplicate) {
		return err
	}
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}
