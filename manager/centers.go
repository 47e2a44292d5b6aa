// SPDX-License-Identifier: MIT

package manager

import (
	"log/slog"

	"github.com/katalvlaran/clusterlist/structure"
)

// CentersName is the Name of the root manager.
const CentersName = "centers"

// Centers is the root manager: every real atom of the current structure is
// an order-1 cluster, in atom order.
type Centers struct {
	*Stage
	st      *structure.Structure
	pending *structure.Structure
	fp      uint64
}

var _ Manager = (*Centers)(nil)

// NewCenters returns an unbuilt root. A non-nil st is used by the first
// Update(nil); otherwise the first Update must supply a structure.
func NewCenters(st *structure.Structure, logger *slog.Logger) *Centers {
	c := &Centers{pending: st}
	c.Stage = NewStage(c, CentersName, nil, 1)
	c.Introduce(1)
	c.SetLogger(logger)

	return c
}

// Update installs st. A structure with the current fingerprint is treated as
// unchanged and does not bump Version.
func (c *Centers) Update(st *structure.Structure) error {
	if st == nil {
		st = c.pending
	}
	if st == nil {
		if c.st == nil {
			return managerErrorf(c.Name(), "Update", ErrNilStructure)
		}

		return nil
	}
	c.pending = nil
	if c.Built() && st.Fingerprint() == c.fp {
		c.st = st

		return nil
	}
	c.st, c.fp = st, st.Fingerprint()
	c.MarkDirty()

	return c.Refresh(st, c.rebuild)
}

func (c *Centers) rebuild() error {
	atoms := make([]int, c.st.Size())
	for i := range atoms {
		atoms[i] = i
	}
	c.SetCenters(atoms)

	return nil
}

// Structure implements Manager.
func (c *Centers) Structure() (*structure.Structure, error) {
	if err := c.ready("Structure"); err != nil {
		return nil, err
	}

	return c.st, nil
}

// Size implements Manager.
func (c *Centers) Size() (int, error) {
	if err := c.ready("Size"); err != nil {
		return 0, err
	}

	return c.st.Size(), nil
}

// NbAtoms implements Manager; the root has no ghosts.
func (c *Centers) NbAtoms() (int, error) { return c.Size() }

// Atom implements Manager.
func (c *Centers) Atom(atom int) (Atom, error) {
	if err := c.ready("Atom"); err != nil {
		return Atom{}, err
	}
	p, err := c.st.Position(atom)
	if err != nil {
		return Atom{}, managerErrorf(c.Name(), "Atom", ErrAtomIndex)
	}
	t, _ := c.st.Type(atom)

	return Atom{Index: atom, Owner: atom, Position: p, Type: t}, nil
}

// Position implements Manager.
func (c *Centers) Position(atom int) (structure.Vec3, error) {
	a, err := c.Atom(atom)

	return a.Position, err
}

// AtomType implements Manager.
func (c *Centers) AtomType(atom int) (int, error) {
	a, err := c.Atom(atom)

	return a.Type, err
}

// AtomNeighbours implements Manager; the root has no pair list.
func (c *Centers) AtomNeighbours(int) ([]int, error) {
	if err := c.ready("AtomNeighbours"); err != nil {
		return nil, err
	}

	return nil, managerErrorf(c.Name(), "AtomNeighbours", ErrNoPairList)
}
