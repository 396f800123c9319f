// errors.go
package denv

import (
	"errors"
	"fmt"
)

var (
	// ErrPackageNotFound indicates a declared package could not be resolved
	ErrPackageNotFound = errors.New("package not found")

	// ErrInvalidDescriptor indicates the environment descriptor is invalid
	ErrInvalidDescriptor = errors.New("invalid descriptor")

	// ErrSourceNotAvailable indicates the package source is not usable here
	ErrSourceNotAvailable = errors.New("source not available")
)

// Error wraps an error with the failing operation and package
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
