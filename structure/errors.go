package structure

import (
	"errors"
	"fmt"
)

// Sentinel errors, prefixed "structure: " for grep-ability.
var (
	// ErrEmptyStructure is returned when a structure has no atoms.
	ErrEmptyStructure = errors.New("structure: no atoms")

	// ErrLengthMismatch indicates positions and types differ in length.
	ErrLengthMismatch = errors.New("structure: positions and types length mismatch")

	// ErrNonFinite indicates a NaN or ±Inf coordinate.
	ErrNonFinite = errors.New("structure: non-finite coordinate")

	// ErrSingularCell is returned when a periodic structure has a degenerate cell,
	// or cell geometry is requested for a singular cell.
	ErrSingularCell = errors.New("structure: singular cell")

	// ErrAtomIndex indicates an atom index outside [0, Size()).
	ErrAtomIndex = errors.New("structure: atom index out of range")

	// ErrDecode wraps malformed structure documents.
	ErrDecode = errors.New("structure: decode failed")
)

func structureErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
