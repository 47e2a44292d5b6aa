// SPDX-License-Identifier: MIT

package manager

import (
	"github.com/katalvlaran/clusterlist/structure"
)

// ClusterRef is a lightweight view of one cluster: its atoms, its order, its
// index at the viewing manager's layer and the manager itself.
type ClusterRef struct {
	mgr   Manager
	order int
	index int
	atoms []int
}

// NewClusterRef builds the ref of cluster index of the given order on m.
func NewClusterRef(m Manager, order, index int) (ClusterRef, error) {
	atoms, err := ClusterAtoms(m, order, index)
	if err != nil {
		return ClusterRef{}, err
	}

	return ClusterRef{mgr: m, order: order, index: index, atoms: atoms}, nil
}

// CenterRefs returns the order-1 clusters of m, the iteration roots.
func CenterRefs(m Manager) ([]ClusterRef, error) {
	n, err := m.NbClusters(1)
	if err != nil {
		return nil, err
	}
	out := make([]ClusterRef, n)
	for i := 0; i < n; i++ {
		a, err := m.CenterAtom(i)
		if err != nil {
			return nil, err
		}
		out[i] = ClusterRef{mgr: m, order: 1, index: i, atoms: []int{a}}
	}

	return out, nil
}

// Children returns the order+1 clusters extending c.
// Errors: ErrOrderMismatch when c is already at the manager's max order.
func (c ClusterRef) Children() ([]ClusterRef, error) {
	t, err := c.mgr.Table(c.order + 1)
	if err != nil {
		return nil, err
	}
	row, err := t.Row(c.index)
	if err != nil {
		return nil, err
	}
	base := t.Offsets[c.index]
	out := make([]ClusterRef, len(row))
	for j, a := range row {
		atoms := make([]int, len(c.atoms)+1)
		copy(atoms, c.atoms)
		atoms[len(c.atoms)] = a
		out[j] = ClusterRef{mgr: c.mgr, order: c.order + 1, index: base + j, atoms: atoms}
	}

	return out, nil
}

// ForEachCluster visits every cluster of the given order on m depth-first,
// i.e. in increasing cluster index. A non-nil error from fn stops the walk.
func ForEachCluster(m Manager, order int, fn func(ClusterRef) error) error {
	if order < 1 || order > m.MaxOrder() {
		return orderErrorf(m.Name(), order, ErrOrderMismatch)
	}
	roots, err := CenterRefs(m)
	if err != nil {
		return err
	}
	var walk func(ClusterRef) error
	walk = func(c ClusterRef) error {
		if c.order == order {
			return fn(c)
		}
		kids, err := c.Children()
		if err != nil {
			return err
		}
		for _, k := range kids {
			if err := walk(k); err != nil {
				return err
			}
		}

		return nil
	}
	for _, r := range roots {
		if err := walk(r); err != nil {
			return err
		}
	}

	return nil
}

// Order returns the number of atoms in the cluster.
func (c ClusterRef) Order() int { return c.order }

// Index returns the linear cluster index at the viewing manager's layer.
func (c ClusterRef) Index() int { return c.index }

// Atoms returns a copy of the atom tuple.
func (c ClusterRef) Atoms() []int { return append([]int(nil), c.atoms...) }

// AtomIndex returns the last atom, the one this cluster added to its parent.
func (c ClusterRef) AtomIndex() int { return c.atoms[len(c.atoms)-1] }

// Front returns the first atom, the center.
func (c ClusterRef) Front() int { return c.atoms[0] }

// Size returns the number of order+1 children of c.
func (c ClusterRef) Size() (int, error) {
	t, err := c.mgr.Table(c.order + 1)
	if err != nil {
		return 0, err
	}
	if c.index < 0 || c.index >= t.Len() {
		return 0, ErrClusterIndex
	}

	return t.NbNeigh[c.index], nil
}

// Manager returns the viewing manager.
func (c ClusterRef) Manager() Manager { return c.mgr }

// Key returns the (order, layer) tag of c.
func (c ClusterRef) Key() (Key, error) {
	l, err := c.mgr.Layer(c.order)
	if err != nil {
		return Key{}, err
	}

	return Key{Order: c.order, Layer: l}, nil
}

// Layer returns the layer at which Index is valid.
func (c ClusterRef) Layer() (int, error) { return c.mgr.Layer(c.order) }

// ClusterIndex returns the index of c at the given layer of its chain.
func (c ClusterRef) ClusterIndex(layer int) (int, error) {
	return ResolveIndex(c.mgr, c.order, c.index, layer)
}

// Position returns the position of AtomIndex.
func (c ClusterRef) Position() (structure.Vec3, error) { return c.mgr.Position(c.AtomIndex()) }

// AtomType returns the type of AtomIndex.
func (c ClusterRef) AtomType() (int, error) { return c.mgr.AtomType(c.AtomIndex()) }

// Distance returns the pair distance; only pairs under a strict stage have one.
func (c ClusterRef) Distance() (float64, error) { return c.mgr.Distance(c.order, c.index) }

// Direction returns the unit vector from Front to AtomIndex, if attached.
func (c ClusterRef) Direction() (structure.Vec3, error) { return c.mgr.Direction(c.order, c.index) }
