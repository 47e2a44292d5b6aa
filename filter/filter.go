// SPDX-License-Identifier: MIT

// Package filter restricts the top cluster order of a manager to a
// caller-selected subset.
//
// After every structural update the selection is empty; callers walk the
// wrapped manager and AddCluster the clusters they want to keep, in
// iteration order. Stages stacked above a filter see the selection on their
// next Update, since every AddCluster bumps the filter's version.
package filter

import (
	"fmt"

	"github.com/katalvlaran/clusterlist/manager"
	"github.com/katalvlaran/clusterlist/structure"
)

// Name is the stage name reported by Adaptor.Name.
const Name = "filter"

// Adaptor is the selection stage.
type Adaptor struct {
	*manager.Stage
	order    int
	selected []int // indices in the wrapped manager, increasing
	centers  []int // selected atoms when order == 1
}

var _ manager.Manager = (*Adaptor)(nil)

// New wraps under and re-enumerates its top order.
func New(under manager.Manager) (*Adaptor, error) {
	if under == nil || under.MaxOrder() < 1 {
		return nil, fmt.Errorf("%s: %w", Name, manager.ErrBadStack)
	}
	a := &Adaptor{order: under.MaxOrder()}
	a.Stage = manager.NewStage(a, Name, under, a.order)
	if err := a.Reenumerate(a.order); err != nil {
		return nil, err
	}

	return a, nil
}

// Update implements manager.Manager. A rebuild empties the selection.
func (a *Adaptor) Update(st *structure.Structure) error { return a.Refresh(st, a.rebuild) }

// Order returns the filtered order.
func (a *Adaptor) Order() int { return a.order }

func (a *Adaptor) rebuild() error {
	a.selected = []int{}
	a.SetParents(a.order, a.selected)
	if a.order == 1 {
		a.centers = []int{}
		a.SetCenters(a.centers)

		return nil
	}
	src, err := a.Underlying().Table(a.order)
	if err != nil {
		return err
	}
	tb := a.OwnTable(a.order)
	tb.Reset()
	for r := 0; r < src.Len(); r++ {
		tb.AddRow()
	}
	tb.Seal()

	return nil
}

// AddCluster selects c, a cluster of the filtered order taken from the
// wrapped manager. Clusters must be added in increasing index order.
//
// Errors: ErrNotBuilt, ErrOrderMismatch, ErrFilterOrder.
// Complexity: O(rows) for order ≥ 2.
func (a *Adaptor) AddCluster(c manager.ClusterRef) error {
	if !a.Built() {
		return fmt.Errorf("%s.AddCluster: %w", Name, manager.ErrNotBuilt)
	}
	if c.Order() != a.order {
		return fmt.Errorf("%s.AddCluster: order %d: %w", Name, c.Order(), manager.ErrOrderMismatch)
	}
	if c.Manager() != a.Underlying() {
		return fmt.Errorf("%s.AddCluster: cluster from %s: %w", Name, c.Manager().Name(), manager.ErrFilterOrder)
	}
	if n := len(a.selected); n > 0 && c.Index() <= a.selected[n-1] {
		return fmt.Errorf("%s.AddCluster: index %d after %d: %w", Name, c.Index(), a.selected[n-1], manager.ErrFilterOrder)
	}

	if a.order == 1 {
		a.centers = append(a.centers, c.Front())
		a.SetCenters(a.centers)
	} else {
		src, err := a.Underlying().Table(a.order)
		if err != nil {
			return err
		}
		r, err := src.Parent(c.Index())
		if err != nil {
			return err
		}
		tb := a.OwnTable(a.order)
		tb.Neighbours = append(tb.Neighbours, c.AtomIndex())
		tb.NbNeigh[r]++
		tb.Seal()
	}
	a.selected = append(a.selected, c.Index())
	a.SetParents(a.order, a.selected)
	a.Touch()

	return nil
}

// Selected returns the selected indices in the wrapped manager.
func (a *Adaptor) Selected() []int { return append([]int(nil), a.selected...) }
