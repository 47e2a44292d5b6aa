// SPDX-License-Identifier: MIT

package linalg

import (
	"errors"
	"fmt"
)

// Every message is prefixed with "linalg: ..." for grep-ability. Return the
// sentinels directly or wrapped with %w; callers match with errors.Is.
var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("linalg: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("linalg: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes.
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("linalg: matrix is not square")

	// ErrSingular is returned when LU meets a zero pivot after row exchange.
	ErrSingular = errors.New("linalg: singular matrix")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("linalg: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil *Dense was used.
	ErrNilMatrix = errors.New("linalg: nil matrix")
)

// Operation tags used by linalgErrorf.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
	opDet       = "Det"
	opInverse   = "Inverse"
	opCdist     = "Cdist"
	opFromRows  = "FromRows"
)

// linalgErrorf wraps err with an operation tag; the sentinel survives for errors.Is.
func linalgErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// denseErrorf attaches method context and coordinates to a sentinel error.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}
