// SPDX-License-Identifier: MIT

package manager

import (
	"errors"
	"fmt"
)

// Configuration errors, raised at construction.
var (
	// ErrBadCutoff indicates a non-positive or non-finite cutoff or skin.
	ErrBadCutoff = errors.New("manager: cutoff must be finite and > 0")

	// ErrStrictCutoff indicates a strict cutoff larger than the base cutoff.
	ErrStrictCutoff = errors.New("manager: strict cutoff exceeds base cutoff")

	// ErrNoPairList indicates order extension over a manager without pairs.
	ErrNoPairList = errors.New("manager: underlying manager has no pair list")

	// ErrBadStack indicates an adaptor stacked on an incompatible manager.
	ErrBadStack = errors.New("manager: incompatible adaptor stacking")

	// ErrListType indicates an unknown neighbour list type name.
	ErrListType = errors.New("manager: unknown neighbour list type")
)

// Access errors, raised at the call; recoverable by the caller.
var (
	// ErrLayerMismatch indicates a layer that the manager chain does not reach.
	ErrLayerMismatch = errors.New("manager: layer mismatch")

	// ErrOrderMismatch indicates an order the manager does not provide.
	ErrOrderMismatch = errors.New("manager: order mismatch")

	// ErrNoDistances indicates a distance query without a strict stage.
	ErrNoDistances = errors.New("manager: no distances attached")

	// ErrClusterIndex indicates a cluster index out of range.
	ErrClusterIndex = errors.New("manager: cluster index out of range")

	// ErrAtomIndex indicates an atom index out of range.
	ErrAtomIndex = errors.New("manager: atom index out of range")

	// ErrFilterOrder indicates a filter selection added out of iteration order
	// or from a foreign manager.
	ErrFilterOrder = errors.New("manager: cluster added out of order")
)

// Stale-data and lifecycle errors.
var (
	// ErrNotBuilt is returned by every query before the first update.
	ErrNotBuilt = errors.New("manager: not yet built")

	// ErrNilStructure indicates Update(nil) on a root that never saw a structure.
	ErrNilStructure = errors.New("manager: no structure supplied")
)

// Property registry errors.
var (
	// ErrPropertyExists indicates Attach on an (order, layer, name) key that
	// is already registered on the manager.
	ErrPropertyExists = errors.New("manager: property already attached")

	// ErrPropertyNotFound indicates a Lookup that no manager in the chain
	// can satisfy.
	ErrPropertyNotFound = errors.New("manager: property not found")

	// ErrPropertyType indicates a Lookup whose value type differs from the
	// attached property's.
	ErrPropertyType = errors.New("manager: property type mismatch")
)

// managerErrorf attaches stage and method context to a sentinel.
func managerErrorf(stage, method string, err error) error {
	return fmt.Errorf("%s.%s: %w", stage, method, err)
}

// orderErrorf attaches the requested order to a sentinel.
func orderErrorf(stage string, order int, err error) error {
	return fmt.Errorf("%s: order %d: %w", stage, order, err)
}
