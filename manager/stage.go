// SPDX-License-Identifier: MIT

package manager

import (
	"log/slog"
	"time"

	"github.com/katalvlaran/clusterlist/structure"
)

// Stage is the embeddable base of every manager. It owns the tables of the
// orders its adaptor introduces or re-enumerates and forwards everything else
// to the wrapped manager.
//
// Adaptors embed *Stage, declare ownership at construction (Introduce,
// Reenumerate) and implement Update as
//
//	func (a *Adaptor) Update(st *structure.Structure) error {
//		return a.Refresh(st, a.rebuild)
//	}
type Stage struct {
	self     Manager
	name     string
	under    Manager
	maxOrder int

	layers  map[int]int    // owned order → layer
	tables  map[int]*Table // owned order ≥ 2 → table
	parents map[int][]int  // re-enumerated order → index one layer down
	centers []int          // owned order 1 → atom index

	listType    ListType
	hasListType bool
	cutoff      float64
	hasCutoff   bool

	registry *Registry
	logger   *slog.Logger

	built   bool
	dirty   bool
	version uint64
	seen    uint64 // under.Version() at the last rebuild
}

// NewStage returns a dirty, unbuilt stage. self is the adaptor embedding the
// stage; it becomes the owner of the stage's property registry.
func NewStage(self Manager, name string, under Manager, maxOrder int) *Stage {
	return &Stage{
		self:     self,
		name:     name,
		under:    under,
		maxOrder: maxOrder,
		layers:   make(map[int]int),
		tables:   make(map[int]*Table),
		parents:  make(map[int][]int),
		registry: NewRegistry(self),
		logger:   slog.Default(),
		dirty:    true,
	}
}

// Introduce declares order as new at this stage (layer 0).
func (s *Stage) Introduce(order int) {
	s.layers[order] = 0
	if order >= 2 {
		s.tables[order] = NewTable(0)
	}
}

// Reenumerate declares that this stage filters or reorders the wrapped
// manager's order-order clusters, appending one layer.
func (s *Stage) Reenumerate(order int) error {
	if s.under == nil {
		return managerErrorf(s.name, "Reenumerate", ErrBadStack)
	}
	l, err := s.under.Layer(order)
	if err != nil {
		return managerErrorf(s.name, "Reenumerate", err)
	}
	s.layers[order] = l + 1
	s.parents[order] = nil
	if order >= 2 {
		s.tables[order] = NewTable(0)
	}

	return nil
}

// SetListType overrides the list type reported by this stage.
func (s *Stage) SetListType(t ListType) { s.listType, s.hasListType = t, true }

// SetCutoff overrides the cutoff reported by this stage.
func (s *Stage) SetCutoff(c float64) { s.cutoff, s.hasCutoff = c, true }

// SetLogger replaces the stage logger; nil keeps the current one.
func (s *Stage) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Logger returns the stage logger, tagged with the stage name.
func (s *Stage) Logger() *slog.Logger { return s.logger.With("stage", s.name) }

// OwnTable returns the table this stage fills for order.
func (s *Stage) OwnTable(order int) *Table { return s.tables[order] }

// SetParents records, for every cluster of a re-enumerated order, its index
// in the wrapped manager.
func (s *Stage) SetParents(order int, parents []int) { s.parents[order] = parents }

// SetCenters records the order-1 clusters of a stage owning order 1.
func (s *Stage) SetCenters(atoms []int) { s.centers = atoms }

// MarkDirty forces a rebuild on the next Refresh.
func (s *Stage) MarkDirty() { s.dirty = true }

// Touch bumps the version without a rebuild, for stages whose content changes
// between updates (filter selections).
func (s *Stage) Touch() { s.version++ }

// Refresh updates the wrapped manager and rebuilds this stage when needed.
// A failed rebuild leaves the stage unbuilt.
// Stage 1 (Propagate): update the wrapped manager; a Version change there
// marks this stage dirty.
// Stage 2 (Skip): a built, clean stage returns at once.
// Stage 3 (Execute): clear the property registry and run rebuild; queries
// issued by rebuild must go to Underlying(), this stage is unbuilt meanwhile.
// Stage 4 (Finalize): mark built, bump Version, remember the wrapped Version.
// Complexity: O(1) plus the cost of rebuild when one runs.
func (s *Stage) Refresh(st *structure.Structure, rebuild func() error) error {
	if s.under != nil {
		if err := s.under.Update(st); err != nil {
			return err
		}
		if s.under.Version() != s.seen {
			s.dirty = true
		}
	}
	if s.built && !s.dirty {
		return nil
	}

	start := time.Now()
	s.built = false
	s.registry.Clear()
	if err := rebuild(); err != nil {
		return managerErrorf(s.name, "Update", err)
	}
	s.built, s.dirty = true, false
	s.version++
	if s.under != nil {
		s.seen = s.under.Version()
	}
	s.Logger().Debug("rebuilt", "version", s.version, "elapsed", time.Since(start))

	return nil
}

// ready guards every query against stale use.
func (s *Stage) ready(method string) error {
	if !s.built {
		return managerErrorf(s.name, method, ErrNotBuilt)
	}

	return nil
}

func (s *Stage) checkOrder(order int) error {
	if order < 1 || order > s.maxOrder {
		return orderErrorf(s.name, order, ErrOrderMismatch)
	}

	return nil
}

// guard combines ready and checkOrder.
func (s *Stage) guard(method string, order int) error {
	if err := s.ready(method); err != nil {
		return err
	}

	return s.checkOrder(order)
}

func (s *Stage) owns(order int) bool {
	_, ok := s.layers[order]

	return ok
}

func (s *Stage) forward(method string) (Manager, error) {
	if s.under == nil {
		return nil, managerErrorf(s.name, method, ErrBadStack)
	}

	return s.under, nil
}

// Name implements Manager.
func (s *Stage) Name() string { return s.name }

// Underlying implements Manager.
func (s *Stage) Underlying() Manager { return s.under }

// Built implements Manager.
func (s *Stage) Built() bool { return s.built }

// Version implements Manager.
func (s *Stage) Version() uint64 { return s.version }

// MaxOrder implements Manager.
func (s *Stage) MaxOrder() int { return s.maxOrder }

// Properties implements Manager.
func (s *Stage) Properties() *Registry { return s.registry }

// ListType implements Manager.
func (s *Stage) ListType() ListType {
	if s.hasListType || s.under == nil {
		return s.listType
	}

	return s.under.ListType()
}

// Cutoff implements Manager. Zero means no cutoff is defined below.
func (s *Stage) Cutoff() float64 {
	if s.hasCutoff || s.under == nil {
		return s.cutoff
	}

	return s.under.Cutoff()
}

// Layer implements Manager. It is structural and available before the first build.
func (s *Stage) Layer(order int) (int, error) {
	if err := s.checkOrder(order); err != nil {
		return 0, err
	}
	if l, ok := s.layers[order]; ok {
		return l, nil
	}
	under, err := s.forward("Layer")
	if err != nil {
		return 0, err
	}

	return under.Layer(order)
}

// NbClusters implements Manager.
func (s *Stage) NbClusters(order int) (int, error) {
	if err := s.guard("NbClusters", order); err != nil {
		return 0, err
	}
	if s.owns(order) {
		if order == 1 {
			return len(s.centers), nil
		}

		return s.tables[order].Size(), nil
	}
	under, err := s.forward("NbClusters")
	if err != nil {
		return 0, err
	}

	return under.NbClusters(order)
}

// Table implements Manager.
func (s *Stage) Table(order int) (*Table, error) {
	if err := s.guard("Table", order); err != nil {
		return nil, err
	}
	if order == 1 {
		return nil, orderErrorf(s.name, order, ErrOrderMismatch)
	}
	if s.owns(order) {
		return s.tables[order], nil
	}
	under, err := s.forward("Table")
	if err != nil {
		return nil, err
	}

	return under.Table(order)
}

// CenterAtom implements Manager.
func (s *Stage) CenterAtom(index int) (int, error) {
	if err := s.ready("CenterAtom"); err != nil {
		return 0, err
	}
	if s.owns(1) {
		if index < 0 || index >= len(s.centers) {
			return 0, managerErrorf(s.name, "CenterAtom", ErrClusterIndex)
		}

		return s.centers[index], nil
	}
	under, err := s.forward("CenterAtom")
	if err != nil {
		return 0, err
	}

	return under.CenterAtom(index)
}

// ParentIndex implements Manager. Pass-through orders map to themselves; an
// order introduced here has no layer below and yields ErrLayerMismatch.
func (s *Stage) ParentIndex(order, index int) (int, error) {
	if err := s.guard("ParentIndex", order); err != nil {
		return 0, err
	}
	if !s.owns(order) {
		return index, nil
	}
	parents, ok := s.parents[order]
	if !ok {
		return 0, orderErrorf(s.name, order, ErrLayerMismatch)
	}
	if index < 0 || index >= len(parents) {
		return 0, managerErrorf(s.name, "ParentIndex", ErrClusterIndex)
	}

	return parents[index], nil
}

// Structure implements Manager.
func (s *Stage) Structure() (*structure.Structure, error) {
	if err := s.ready("Structure"); err != nil {
		return nil, err
	}
	under, err := s.forward("Structure")
	if err != nil {
		return nil, err
	}

	return under.Structure()
}

// Size implements Manager.
func (s *Stage) Size() (int, error) {
	if err := s.ready("Size"); err != nil {
		return 0, err
	}
	under, err := s.forward("Size")
	if err != nil {
		return 0, err
	}

	return under.Size()
}

// NbAtoms implements Manager.
func (s *Stage) NbAtoms() (int, error) {
	if err := s.ready("NbAtoms"); err != nil {
		return 0, err
	}
	under, err := s.forward("NbAtoms")
	if err != nil {
		return 0, err
	}

	return under.NbAtoms()
}

// Atom implements Manager.
func (s *Stage) Atom(atom int) (Atom, error) {
	if err := s.ready("Atom"); err != nil {
		return Atom{}, err
	}
	under, err := s.forward("Atom")
	if err != nil {
		return Atom{}, err
	}

	return under.Atom(atom)
}

// Position implements Manager.
func (s *Stage) Position(atom int) (structure.Vec3, error) {
	if err := s.ready("Position"); err != nil {
		return structure.Vec3{}, err
	}
	under, err := s.forward("Position")
	if err != nil {
		return structure.Vec3{}, err
	}

	return under.Position(atom)
}

// AtomType implements Manager.
func (s *Stage) AtomType(atom int) (int, error) {
	if err := s.ready("AtomType"); err != nil {
		return 0, err
	}
	under, err := s.forward("AtomType")
	if err != nil {
		return 0, err
	}

	return under.AtomType(atom)
}

// AtomNeighbours implements Manager.
func (s *Stage) AtomNeighbours(atom int) ([]int, error) {
	if err := s.ready("AtomNeighbours"); err != nil {
		return nil, err
	}
	under, err := s.forward("AtomNeighbours")
	if err != nil {
		return nil, err
	}

	return under.AtomNeighbours(atom)
}

// Distance implements Manager by translating the index one layer down.
func (s *Stage) Distance(order, index int) (float64, error) {
	under, idx, err := s.below("Distance", order, index)
	if err != nil {
		return 0, err
	}

	return under.Distance(order, idx)
}

// Direction implements Manager by translating the index one layer down.
func (s *Stage) Direction(order, index int) (structure.Vec3, error) {
	under, idx, err := s.below("Direction", order, index)
	if err != nil {
		return structure.Vec3{}, err
	}

	return under.Direction(order, idx)
}

// below resolves a per-cluster query to the wrapped manager.
func (s *Stage) below(method string, order, index int) (Manager, int, error) {
	if err := s.guard(method, order); err != nil {
		return nil, 0, err
	}
	if s.under == nil || (s.owns(order) && s.layers[order] == 0) {
		return nil, 0, orderErrorf(s.name, order, ErrNoDistances)
	}
	idx, err := s.ParentIndex(order, index)
	if err != nil {
		return nil, 0, err
	}

	return s.under, idx, nil
}
