// SPDX-License-Identifier: MIT

// Package maxorder extends a manager of max order M ≥ 2 by one cluster order.
//
// For every order-M cluster c = (a_1 … a_M) the candidate extensions are
//
//	∩_k filter(N(a_k)) \ {a_1 … a_M}
//
// where N is the per-atom pair-list row of the wrapped chain and filter keeps,
// for a half list, only atoms with index greater than a_M (so every cluster is
// emitted once, in increasing index order), and everything for a full list.
// An empty intersection is a valid leaf. Every rebuild recomputes the whole
// table.
//
// Complexity: O(clusters_M · M · ν log ν), ν the average coordination.
package maxorder

import (
	"fmt"
	"log/slog"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/katalvlaran/clusterlist/manager"
	"github.com/katalvlaran/clusterlist/structure"
)

// Name is the stage name reported by Adaptor.Name.
const Name = "maxorder"

// Option mutates an Adaptor under construction.
type Option func(*Adaptor)

// WithLogger sets the adaptor logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Adaptor) { a.SetLogger(l) }
}

// Adaptor introduces order MaxOrder() = under.MaxOrder()+1.
type Adaptor struct {
	*manager.Stage
	order int
}

var _ manager.Manager = (*Adaptor)(nil)

// New wraps under. Errors: ErrNoPairList when under has no pairs.
func New(under manager.Manager, opts ...Option) (*Adaptor, error) {
	if under == nil || under.MaxOrder() < 2 {
		return nil, fmt.Errorf("%s: %w", Name, manager.ErrNoPairList)
	}
	a := &Adaptor{order: under.MaxOrder() + 1}
	a.Stage = manager.NewStage(a, Name, under, a.order)
	a.Introduce(a.order)
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Update implements manager.Manager.
func (a *Adaptor) Update(st *structure.Structure) error { return a.Refresh(st, a.rebuild) }

// rebuild walks every cluster of the wrapped top order and stores its
// extensions as one row, so child indices follow the parent order.
func (a *Adaptor) rebuild() error {
	under := a.Underlying()
	half := under.ListType() == manager.Half
	tb := a.OwnTable(a.order)
	tb.Reset()

	err := manager.ForEachCluster(under, a.order-1, func(c manager.ClusterRef) error {
		ext, err := extensions(under, c.Atoms(), half)
		if err != nil {
			return err
		}
		tb.AddRow(ext...)

		return nil
	})
	if err != nil {
		return err
	}
	tb.Seal()
	a.Logger().Debug("order extended", "order", a.order, "clusters", tb.Size(), "parents", tb.Len())

	return nil
}

// extensions intersects the filtered neighbour rows of every atom in the
// cluster and drops the cluster's own atoms. The result is ascending.
func extensions(m manager.Manager, atoms []int, half bool) ([]int, error) {
	last := atoms[len(atoms)-1]
	keep := func(n int) bool { return !half || n > last }

	var cand *treeset.Set
	for k, a := range atoms {
		row, err := m.AtomNeighbours(a)
		if err != nil {
			return nil, err
		}
		next := treeset.NewWithIntComparator()
		for _, n := range row {
			if !keep(n) {
				continue
			}
			if k == 0 || cand.Contains(n) {
				next.Add(n)
			}
		}
		cand = next
		if cand.Empty() {
			return []int{}, nil
		}
	}
	for _, a := range atoms {
		cand.Remove(a)
	}

	out := make([]int, 0, cand.Size())
	it := cand.Iterator()
	for it.Next() {
		out = append(out, it.Value().(int))
	}

	return out, nil
}
