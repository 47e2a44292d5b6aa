// SPDX-License-Identifier: MIT

package manager

import (
	"fmt"

	"github.com/katalvlaran/clusterlist/structure"
)

// Manager is the contract every pipeline stage implements.
//
// Indices passed to per-cluster methods are valid at this manager's layer for
// that order. Atom indices in [0, Size()) are real atoms; [Size(), NbAtoms())
// are ghosts.
type Manager interface {
	// Name identifies the stage kind, e.g. "centers" or "strict".
	Name() string
	// Underlying returns the wrapped manager, nil for the root.
	Underlying() Manager
	// Update brings the chain up to date; nil means the structure is unchanged.
	Update(st *structure.Structure) error
	// Built reports whether at least one update succeeded.
	Built() bool
	// Version increments on every rebuild.
	Version() uint64

	Structure() (*structure.Structure, error)
	Size() (int, error)
	NbAtoms() (int, error)
	MaxOrder() int
	ListType() ListType
	Cutoff() float64
	Layer(order int) (int, error)

	NbClusters(order int) (int, error)
	// Table returns the neighbour table producing clusters of order ≥ 2.
	Table(order int) (*Table, error)
	// CenterAtom maps an order-1 cluster index to its atom.
	CenterAtom(index int) (int, error)
	// ParentIndex maps an index at this layer to the layer below.
	ParentIndex(order, index int) (int, error)

	Atom(atom int) (Atom, error)
	Position(atom int) (structure.Vec3, error)
	AtomType(atom int) (int, error)
	// AtomNeighbours returns the pair-list row of any atom, real or ghost.
	AtomNeighbours(atom int) ([]int, error)

	Distance(order, index int) (float64, error)
	Direction(order, index int) (structure.Vec3, error)
	Properties() *Registry
}

// ResolveIndex translates index of an order-order cluster at m's layer down to
// the requested layer.
//
// Errors: ErrOrderMismatch when m does not provide order, ErrLayerMismatch
// when the chain never reaches layer.
func ResolveIndex(m Manager, order, index, layer int) (int, error) {
	cur, idx := m, index
	for cur != nil {
		l, err := cur.Layer(order)
		if err != nil {
			return 0, err
		}
		switch {
		case l == layer:
			return idx, nil
		case l < layer:
			return 0, fmt.Errorf("order %d: layer %d above %d: %w", order, layer, l, ErrLayerMismatch)
		}
		if idx, err = cur.ParentIndex(order, idx); err != nil {
			return 0, err
		}
		cur = cur.Underlying()
	}

	return 0, fmt.Errorf("order %d: layer %d: %w", order, layer, ErrLayerMismatch)
}

// IndexIn translates index of an order-order cluster at m's layer into the
// index valid at target, which must be m or a manager m wraps.
func IndexIn(m Manager, order, index int, target Manager) (int, error) {
	cur, idx := m, index
	for cur != nil {
		if cur == target {
			return idx, nil
		}
		if cur.MaxOrder() < order {
			break
		}
		var err error
		if idx, err = cur.ParentIndex(order, idx); err != nil {
			return 0, err
		}
		cur = cur.Underlying()
	}

	return 0, fmt.Errorf("order %d: %s is not in the chain: %w", order, target.Name(), ErrLayerMismatch)
}

// ClusterAtoms reconstructs the atom tuple of an order-order cluster by
// walking parent rows down to order 1.
// Complexity: O(order · log rows).
func ClusterAtoms(m Manager, order, index int) ([]int, error) {
	if order < 1 || order > m.MaxOrder() {
		return nil, orderErrorf(m.Name(), order, ErrOrderMismatch)
	}
	atoms := make([]int, order)
	idx := index
	for k := order; k >= 2; k-- {
		t, err := m.Table(k)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= t.Size() {
			return nil, orderErrorf(m.Name(), k, ErrClusterIndex)
		}
		atoms[k-1] = t.Neighbours[idx]
		if idx, err = t.Parent(idx); err != nil {
			return nil, err
		}
	}
	a, err := m.CenterAtom(idx)
	if err != nil {
		return nil, err
	}
	atoms[0] = a

	return atoms, nil
}

// Chain lists m and every manager below it, top first.
func Chain(m Manager) []Manager {
	var out []Manager
	for cur := m; cur != nil; cur = cur.Underlying() {
		out = append(out, cur)
	}

	return out
}
