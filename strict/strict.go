// SPDX-License-Identifier: MIT

// Package strict filters a pair list to an exact cutoff and attaches distances.
//
// The adaptor re-enumerates order 2 (one layer deeper than the wrapped pair
// list), keeps every pair with |r_j - r_i| ≤ cutoff and records, at its own
// (2, layer) key, the pair distance ("distance") and optionally the unit
// vector from center to neighbour ("direction"). Ghost neighbour rows are
// filtered to the same cutoff.
package strict

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/clusterlist/manager"
	"github.com/katalvlaran/clusterlist/structure"
)

// Name is the stage name reported by Adaptor.Name.
const Name = "strict"

// Property names attached by the adaptor.
const (
	DistanceProperty  = "distance"
	DirectionProperty = "direction"
)

// DefaultDirections attaches direction vectors unless disabled.
const DefaultDirections = true

// Option mutates Options.
type Option func(*Options)

// Options is the resolved adaptor configuration.
type Options struct {
	directions bool
	logger     *slog.Logger
}

// WithDirections toggles the direction property.
func WithDirections(enabled bool) Option {
	return func(o *Options) { o.directions = enabled }
}

// WithLogger sets the adaptor logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// Adaptor is the strict-cutoff stage.
type Adaptor struct {
	*manager.Stage
	opts   Options
	cutoff float64

	distance  *manager.Property[float64]
	direction *manager.Property[structure.Vec3]
	atomRows  map[int][]int // strict rows of every atom the wrapped list has rows for
	nbAtoms   int
}

var _ manager.Manager = (*Adaptor)(nil)

// New wraps a pair manager.
//
// Errors:
//   - ErrBadCutoff: cutoff ≤ 0 or non-finite.
//   - ErrBadStack: the wrapped max order is not 2.
//   - ErrStrictCutoff: cutoff exceeds the wrapped cutoff.
func New(under manager.Manager, cutoff float64, opts ...Option) (*Adaptor, error) {
	o := Options{directions: DefaultDirections}
	for _, opt := range opts {
		opt(&o)
	}
	if math.IsNaN(cutoff) || math.IsInf(cutoff, 0) || cutoff <= 0 {
		return nil, fmt.Errorf("%s: cutoff %g: %w", Name, cutoff, manager.ErrBadCutoff)
	}
	if under == nil || under.MaxOrder() != 2 {
		return nil, fmt.Errorf("%s: wrapped manager must have max order 2: %w", Name, manager.ErrBadStack)
	}
	if base := under.Cutoff(); cutoff > base {
		return nil, fmt.Errorf("%s: %g > %g: %w", Name, cutoff, base, manager.ErrStrictCutoff)
	}

	a := &Adaptor{opts: o, cutoff: cutoff}
	a.Stage = manager.NewStage(a, Name, under, 2)
	if err := a.Reenumerate(2); err != nil {
		return nil, err
	}
	a.SetCutoff(cutoff)
	a.SetLogger(o.logger)

	var err error
	if a.distance, err = manager.Attach[float64](a, 2, DistanceProperty); err != nil {
		return nil, err
	}
	if o.directions {
		if a.direction, err = manager.Attach[structure.Vec3](a, 2, DirectionProperty); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Update implements manager.Manager.
func (a *Adaptor) Update(st *structure.Structure) error { return a.Refresh(st, a.rebuild) }

// Distances returns the attached distance store.
func (a *Adaptor) Distances() *manager.Property[float64] { return a.distance }

// Directions returns the attached direction store, nil when disabled.
func (a *Adaptor) Directions() *manager.Property[structure.Vec3] { return a.direction }

// rebuild re-enumerates order 2 at the strict cutoff.
// Stage 1 (Filter): keep the wrapped pairs with |r_j - r_i| ≤ cutoff.
// Stage 2 (Attach): push distance and, when enabled, direction per kept pair.
// Stage 3 (Finalize): record parent indices and refilter per-atom rows.
// Complexity: O(P + N·ν), P the wrapped pair count.
func (a *Adaptor) rebuild() error {
	under := a.Underlying()
	src, err := under.Table(2)
	if err != nil {
		return err
	}
	r2 := a.cutoff * a.cutoff

	tb := a.OwnTable(2)
	tb.Reset()
	parents := make([]int, 0, src.Size())
	for c := 0; c < src.Len(); c++ {
		center, err := under.CenterAtom(c)
		if err != nil {
			return err
		}
		pc, err := under.Position(center)
		if err != nil {
			return err
		}
		row, _ := src.Row(c)
		kept := make([]int, 0, len(row))
		for k, j := range row {
			pj, err := under.Position(j)
			if err != nil {
				return err
			}
			v := pj.Sub(pc)
			if v.Norm2() > r2 {
				continue
			}
			kept = append(kept, j)
			parents = append(parents, src.Offsets[c]+k)
			a.distance.Push(v.Norm())
			if a.direction != nil {
				a.direction.Push(v.Unit())
			}
		}
		tb.AddRow(kept...)
	}
	tb.Seal()
	a.SetParents(2, parents)

	return a.filterAtomRows(r2)
}

// filterAtomRows rebuilds per-atom rows, ghosts included, at the strict cutoff.
func (a *Adaptor) filterAtomRows(r2 float64) error {
	under := a.Underlying()
	n, err := under.NbAtoms()
	if err != nil {
		return err
	}
	a.nbAtoms = n
	a.atomRows = make(map[int][]int)
	for i := 0; i < n; i++ {
		row, err := under.AtomNeighbours(i)
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}
		pi, err := under.Position(i)
		if err != nil {
			return err
		}
		kept := make([]int, 0, len(row))
		for _, j := range row {
			pj, err := under.Position(j)
			if err != nil {
				return err
			}
			if pj.Sub(pi).Norm2() <= r2 {
				kept = append(kept, j)
			}
		}
		a.atomRows[i] = kept
	}

	return nil
}

// AtomNeighbours implements manager.Manager with rows cut to the strict cutoff.
func (a *Adaptor) AtomNeighbours(atom int) ([]int, error) {
	if !a.Built() {
		return nil, fmt.Errorf("%s.AtomNeighbours: %w", Name, manager.ErrNotBuilt)
	}
	if atom < 0 || atom >= a.nbAtoms {
		return nil, fmt.Errorf("%s.AtomNeighbours(%d): %w", Name, atom, manager.ErrAtomIndex)
	}
	if row, ok := a.atomRows[atom]; ok {
		return row, nil
	}

	return []int{}, nil
}

// Distance implements manager.Manager for order 2.
func (a *Adaptor) Distance(order, index int) (float64, error) {
	if err := a.pairQuery("Distance", order); err != nil {
		return 0, err
	}

	return a.distance.At(index)
}

// Direction implements manager.Manager for order 2; ErrNoDistances when
// directions were disabled.
func (a *Adaptor) Direction(order, index int) (structure.Vec3, error) {
	if err := a.pairQuery("Direction", order); err != nil {
		return structure.Vec3{}, err
	}
	if a.direction == nil {
		return structure.Vec3{}, fmt.Errorf("%s.Direction: %w", Name, manager.ErrNoDistances)
	}

	return a.direction.At(index)
}

func (a *Adaptor) pairQuery(method string, order int) error {
	if !a.Built() {
		return fmt.Errorf("%s.%s: %w", Name, method, manager.ErrNotBuilt)
	}
	if order != 2 {
		return fmt.Errorf("%s.%s: order %d: %w", Name, method, order, manager.ErrNoDistances)
	}

	return nil
}
