// SPDX-License-Identifier: MIT

// Package halflist converts a full pair list into a half list.
//
// The adaptor re-enumerates order 2, keeping only pairs (i, j) with j > i,
// and reports ListType() == Half so that stages above it (order extension in
// particular) apply half-list semantics.
package halflist

import (
	"fmt"

	"github.com/katalvlaran/clusterlist/manager"
	"github.com/katalvlaran/clusterlist/structure"
)

// Name is the stage name reported by Adaptor.Name.
const Name = "halflist"

// Adaptor is the full→half conversion stage.
type Adaptor struct {
	*manager.Stage
}

var _ manager.Manager = (*Adaptor)(nil)

// New wraps a full pair list. Errors: ErrBadStack when under is not a full
// list of max order 2.
func New(under manager.Manager) (*Adaptor, error) {
	if under == nil || under.MaxOrder() != 2 || under.ListType() != manager.Full {
		return nil, fmt.Errorf("%s: wrapped manager must be a full pair list: %w", Name, manager.ErrBadStack)
	}
	a := &Adaptor{}
	a.Stage = manager.NewStage(a, Name, under, 2)
	if err := a.Reenumerate(2); err != nil {
		return nil, err
	}
	a.SetListType(manager.Half)

	return a, nil
}

// Update implements manager.Manager.
func (a *Adaptor) Update(st *structure.Structure) error { return a.Refresh(st, a.rebuild) }

func (a *Adaptor) rebuild() error {
	under := a.Underlying()
	src, err := under.Table(2)
	if err != nil {
		return err
	}
	tb := a.OwnTable(2)
	tb.Reset()
	parents := make([]int, 0, src.Size()/2)
	for c := 0; c < src.Len(); c++ {
		center, err := under.CenterAtom(c)
		if err != nil {
			return err
		}
		row, _ := src.Row(c)
		kept := make([]int, 0, len(row)/2+1)
		for k, j := range row {
			if j > center {
				kept = append(kept, j)
				parents = append(parents, src.Offsets[c]+k)
			}
		}
		tb.AddRow(kept...)
	}
	tb.Seal()
	a.SetParents(2, parents)

	return nil
}

// AtomNeighbours implements manager.Manager, keeping neighbours above atom.
func (a *Adaptor) AtomNeighbours(atom int) ([]int, error) {
	if !a.Built() {
		return nil, fmt.Errorf("%s.AtomNeighbours: %w", Name, manager.ErrNotBuilt)
	}
	row, err := a.Underlying().AtomNeighbours(atom)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(row))
	for _, j := range row {
		if j > atom {
			out = append(out, j)
		}
	}

	return out, nil
}
