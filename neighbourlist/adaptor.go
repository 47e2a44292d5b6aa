// SPDX-License-Identifier: MIT

package neighbourlist

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/clusterlist/manager"
	"github.com/katalvlaran/clusterlist/structure"
)

// Name is the stage name reported by Adaptor.Name.
const Name = "neighbourlist"

// ghostTolerance widens the fractional acceptance window so that images at
// exactly cutoff+skin survive rounding.
const ghostTolerance = 1e-10

// Stats summarises the last rebuild.
type Stats struct {
	Atoms    int
	Ghosts   int
	Bins     [3]int
	Pairs    int
	AllPairs bool
}

// Adaptor introduces order 2 over an order-1 manager.
type Adaptor struct {
	*manager.Stage
	opts   Options
	cutoff float64

	nReal    int
	ghosts   []manager.Atom
	atomRows *manager.Table // real atoms first, then ghosts when enabled
	stats    Stats
}

var _ manager.Manager = (*Adaptor)(nil)

// New wraps under, whose max order must be 1.
func New(under manager.Manager, cutoff float64, opts ...Option) (*Adaptor, error) {
	o := gatherOptions(opts...)
	if math.IsNaN(cutoff) || math.IsInf(cutoff, 0) || cutoff <= 0 {
		return nil, fmt.Errorf("%s: cutoff %g: %w", Name, cutoff, manager.ErrBadCutoff)
	}
	if math.IsNaN(o.skin) || math.IsInf(o.skin, 0) || o.skin < 0 {
		return nil, fmt.Errorf("%s: skin %g: %w", Name, o.skin, manager.ErrBadCutoff)
	}
	if under == nil || under.MaxOrder() != 1 {
		return nil, fmt.Errorf("%s: wrapped manager must have max order 1: %w", Name, manager.ErrBadStack)
	}

	a := &Adaptor{opts: o, cutoff: cutoff, atomRows: manager.NewTable(0)}
	a.Stage = manager.NewStage(a, Name, under, 2)
	a.Introduce(2)
	a.SetListType(o.listType)
	a.SetCutoff(cutoff)
	a.SetLogger(o.logger)

	return a, nil
}

// Update implements manager.Manager.
func (a *Adaptor) Update(st *structure.Structure) error { return a.Refresh(st, a.rebuild) }

// Skin returns the binning margin.
func (a *Adaptor) Skin() float64 { return a.opts.skin }

// GhostNeighbours reports whether ghosts get neighbour rows.
func (a *Adaptor) GhostNeighbours() bool { return a.opts.ghostNeighbours }

// Stats returns figures of the last rebuild.
func (a *Adaptor) Stats() Stats { return a.stats }

// Ghosts returns a copy of the ghost arena.
func (a *Adaptor) Ghosts() []manager.Atom { return append([]manager.Atom(nil), a.ghosts...) }

// rebuild recomputes the ghosts, per-atom rows and the order-2 table.
// Stage 1 (Ghosts): periodic images within cutoff+skin of the cell.
// Stage 2 (Bin): real atoms and ghosts go into one cell list.
// Stage 3 (Rows): one row per real atom (and per ghost when enabled),
// ascending, j > i only for a half list.
// Stage 4 (Finalize): order-2 rows in the wrapped manager's center order.
// Complexity: O((N+G)·ν) with binning, O((N+G)²) when the grid collapses.
func (a *Adaptor) rebuild() error {
	under := a.Underlying()
	st, err := under.Structure()
	if err != nil {
		return err
	}
	a.nReal = st.Size()
	r := a.cutoff + a.opts.skin

	if a.ghosts, err = makeGhosts(st, r); err != nil {
		return err
	}
	positions := make([]structure.Vec3, 0, a.nReal+len(a.ghosts))
	positions = append(positions, st.Positions()...)
	for _, g := range a.ghosts {
		positions = append(positions, g.Position)
	}

	g := newGrid(positions, r, a.opts.maxBins)
	a.stats = Stats{Atoms: a.nReal, Ghosts: len(a.ghosts), Bins: g.dims, AllPairs: g.single()}
	if g.single() {
		a.Logger().Debug("single bin, searching all pairs", "atoms", len(positions), "cutoff", r)
	}

	rows := a.nReal
	if a.opts.ghostNeighbours {
		rows = len(positions)
	}
	half := a.opts.listType == manager.Half
	r2 := r * r
	a.atomRows.Reset()
	var cand, row []int
	for i := 0; i < rows; i++ {
		cand = g.candidates(cand[:0], positions[i])
		row = row[:0]
		for _, j := range cand {
			if j == i || (half && j < i) {
				continue
			}
			if positions[i].Sub(positions[j]).Norm2() <= r2 {
				row = append(row, j)
			}
		}
		sort.Ints(row)
		a.atomRows.AddRow(row...)
	}
	a.atomRows.Seal()

	// order-2 rows follow the wrapped manager's centers
	nc, err := under.NbClusters(1)
	if err != nil {
		return err
	}
	tb := a.OwnTable(2)
	tb.Reset()
	for c := 0; c < nc; c++ {
		center, err := under.CenterAtom(c)
		if err != nil {
			return err
		}
		nb, err := a.atomRows.Row(center)
		if err != nil {
			return err
		}
		tb.AddRow(nb...)
	}
	tb.Seal()
	a.stats.Pairs = tb.Size()
	a.Logger().Debug("pair list built",
		"atoms", a.nReal, "ghosts", len(a.ghosts), "bins", g.dims, "pairs", tb.Size())

	return nil
}

// makeGhosts enumerates periodic images within r of the real atoms' span.
// Images are visited in lexicographic order, atoms in index order.
// Stage 1 (Prepare): fractional coordinates and their per-axis bounds.
// Stage 2 (Window): widen the bounds by r/h on periodic axes, h the face
// height, and derive the image range that can reach the window.
// Stage 3 (Execute): emit every image copy inside the window; image
// (0,0,0) is the real cell and is skipped.
// Complexity: O(N·I), I the number of images in range.
func makeGhosts(st *structure.Structure, r float64) ([]manager.Atom, error) {
	if !st.AnyPeriodic() {
		return nil, nil
	}
	h, err := st.Heights()
	if err != nil {
		return nil, err
	}
	pbc := st.Periodicity()
	n := st.Size()
	frac := make([]structure.Vec3, n)
	fmin := structure.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	fmax := structure.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < n; i++ {
		p, _ := st.Position(i)
		if frac[i], err = st.Fractional(p); err != nil {
			return nil, err
		}
		for d := 0; d < 3; d++ {
			fmin[d] = math.Min(fmin[d], frac[i][d])
			fmax[d] = math.Max(fmax[d], frac[i][d])
		}
	}

	var lo, hi structure.Vec3
	var kmin, kmax [3]int
	for d := 0; d < 3; d++ {
		if !pbc[d] {
			continue
		}
		w := r/h[d] + ghostTolerance
		lo[d], hi[d] = fmin[d]-w, fmax[d]+w
		kmin[d] = int(math.Ceil(lo[d] - fmax[d]))
		kmax[d] = int(math.Floor(hi[d] - fmin[d]))
	}

	types := st.Types()
	var ghosts []manager.Atom
	for k0 := kmin[0]; k0 <= kmax[0]; k0++ {
		for k1 := kmin[1]; k1 <= kmax[1]; k1++ {
			for k2 := kmin[2]; k2 <= kmax[2]; k2++ {
				img := [3]int{k0, k1, k2}
				if img == [3]int{} {
					continue
				}
				shift := st.Translation(img)
				for i := 0; i < n; i++ {
					if !insideWindow(frac[i], img, pbc, lo, hi) {
						continue
					}
					p, _ := st.Position(i)
					ghosts = append(ghosts, manager.Atom{
						Index:    n + len(ghosts),
						Owner:    i,
						Image:    img,
						Position: p.Add(shift),
						Type:     types[i],
						Ghost:    true,
					})
				}
			}
		}
	}

	return ghosts, nil
}

func insideWindow(f structure.Vec3, img [3]int, pbc [3]bool, lo, hi structure.Vec3) bool {
	for d := 0; d < 3; d++ {
		if !pbc[d] {
			continue
		}
		x := f[d] + float64(img[d])
		if x < lo[d] || x > hi[d] {
			return false
		}
	}

	return true
}

// NbAtoms implements manager.Manager: real atoms plus ghosts.
func (a *Adaptor) NbAtoms() (int, error) {
	if !a.Built() {
		return 0, fmt.Errorf("%s.NbAtoms: %w", Name, manager.ErrNotBuilt)
	}

	return a.nReal + len(a.ghosts), nil
}

// Atom implements manager.Manager, resolving ghost indices locally.
func (a *Adaptor) Atom(atom int) (manager.Atom, error) {
	if !a.Built() {
		return manager.Atom{}, fmt.Errorf("%s.Atom: %w", Name, manager.ErrNotBuilt)
	}
	if atom >= a.nReal && atom < a.nReal+len(a.ghosts) {
		return a.ghosts[atom-a.nReal], nil
	}

	return a.Underlying().Atom(atom)
}

// Position implements manager.Manager.
func (a *Adaptor) Position(atom int) (structure.Vec3, error) {
	at, err := a.Atom(atom)

	return at.Position, err
}

// AtomType implements manager.Manager.
func (a *Adaptor) AtomType(atom int) (int, error) {
	at, err := a.Atom(atom)

	return at.Type, err
}

// AtomNeighbours implements manager.Manager. Ghost rows are empty unless
// ghost neighbours are enabled.
func (a *Adaptor) AtomNeighbours(atom int) ([]int, error) {
	if !a.Built() {
		return nil, fmt.Errorf("%s.AtomNeighbours: %w", Name, manager.ErrNotBuilt)
	}
	if atom < 0 || atom >= a.nReal+len(a.ghosts) {
		return nil, fmt.Errorf("%s.AtomNeighbours(%d): %w", Name, atom, manager.ErrAtomIndex)
	}
	if atom >= a.atomRows.Len() {
		return []int{}, nil
	}

	return a.atomRows.Row(atom)
}
