// SPDX-License-Identifier: MIT

package manager

import (
	"fmt"
	"sort"
)

// Table is the neighbour table of one cluster order.
//
// Row r belongs to the r-th cluster of the parent order; its entries are the
// atoms that extend that cluster. The flattened Neighbours slice is indexed by
// the child cluster index.
//
// Invariants (after Seal):
//   - len(Offsets) == len(NbNeigh)+1, Offsets[0] == 0.
//   - Offsets[r+1]-Offsets[r] == NbNeigh[r].
//   - len(Neighbours) == Offsets[len(NbNeigh)].
//
// Tables returned by a Manager are owned by it and must be treated as read-only.
type Table struct {
	NbNeigh    []int
	Offsets    []int
	Neighbours []int
}

// NewTable returns an empty, sealed table with room for rows parent clusters.
func NewTable(rows int) *Table {
	if rows < 0 {
		rows = 0
	}
	t := &Table{
		NbNeigh: make([]int, 0, rows),
		Offsets: make([]int, 1, rows+1),
	}

	return t
}

// Reset clears all rows, keeping capacity.
func (t *Table) Reset() {
	t.NbNeigh = t.NbNeigh[:0]
	t.Offsets = append(t.Offsets[:0], 0)
	t.Neighbours = t.Neighbours[:0]
}

// AddRow appends one parent cluster with the given neighbours.
// Offsets are stale until Seal.
func (t *Table) AddRow(neighbours ...int) {
	t.NbNeigh = append(t.NbNeigh, len(neighbours))
	t.Neighbours = append(t.Neighbours, neighbours...)
}

// Seal recomputes Offsets as the prefix sum of NbNeigh.
func (t *Table) Seal() {
	t.Offsets = append(t.Offsets[:0], 0)
	sum := 0
	for _, n := range t.NbNeigh {
		sum += n
		t.Offsets = append(t.Offsets, sum)
	}
}

// Len returns the number of rows (parent clusters).
func (t *Table) Len() int { return len(t.NbNeigh) }

// Size returns the number of child clusters.
func (t *Table) Size() int { return len(t.Neighbours) }

// Row returns the neighbours of parent cluster r, aliasing the table storage.
func (t *Table) Row(r int) ([]int, error) {
	if r < 0 || r >= len(t.NbNeigh) {
		return nil, fmt.Errorf("row %d: %w", r, ErrClusterIndex)
	}

	return t.Neighbours[t.Offsets[r]:t.Offsets[r+1]], nil
}

// Offset returns the index of the first child of parent cluster r.
func (t *Table) Offset(r int) (int, error) {
	if r < 0 || r >= len(t.NbNeigh) {
		return 0, fmt.Errorf("row %d: %w", r, ErrClusterIndex)
	}

	return t.Offsets[r], nil
}

// Parent returns the row that owns child cluster c.
// Complexity: O(log rows).
func (t *Table) Parent(c int) (int, error) {
	if c < 0 || c >= len(t.Neighbours) {
		return 0, fmt.Errorf("child %d: %w", c, ErrClusterIndex)
	}
	// first row whose end lies beyond c; empty rows in front of it never qualify
	r := sort.Search(len(t.NbNeigh), func(i int) bool { return t.Offsets[i+1] > c })

	return r, nil
}

// Validate checks the offsets invariant and that no row count is negative.
func (t *Table) Validate() error {
	if len(t.Offsets) != len(t.NbNeigh)+1 {
		return fmt.Errorf("manager: offsets length %d, want %d", len(t.Offsets), len(t.NbNeigh)+1)
	}
	if t.Offsets[0] != 0 {
		return fmt.Errorf("manager: offsets[0] = %d, want 0", t.Offsets[0])
	}
	for r, n := range t.NbNeigh {
		if n < 0 {
			return fmt.Errorf("manager: row %d: negative nb_neigh %d", r, n)
		}
		if t.Offsets[r+1]-t.Offsets[r] != n {
			return fmt.Errorf("manager: row %d: offsets span %d, nb_neigh %d", r, t.Offsets[r+1]-t.Offsets[r], n)
		}
	}
	if last := t.Offsets[len(t.NbNeigh)]; last != len(t.Neighbours) {
		return fmt.Errorf("manager: offsets end %d, neighbours %d", last, len(t.Neighbours))
	}

	return nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return &Table{
		NbNeigh:    append([]int(nil), t.NbNeigh...),
		Offsets:    append([]int(nil), t.Offsets...),
		Neighbours: append([]int(nil), t.Neighbours...),
	}
}
