package snapshot

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/katalvlaran/clusterlist/manager"
	"github.com/katalvlaran/clusterlist/structure"
)

// magic prefixes every encoding; the last byte is the format version.
var magic = [4]byte{'C', 'L', 'S', 1}

// Snapshot is a detached copy of the cluster tables of a built chain.
type Snapshot struct {
	Fingerprint uint64
	MaxOrder    int
	ListType    manager.ListType
	Cutoff      float64
	Centers     []int            // order-1 cluster → atom
	Tables      []*manager.Table // Tables[k-2] holds order k
	Atoms       []manager.Atom   // real atoms, then ghosts
}

// Capture copies the tables of m, which must be built.
func Capture(m manager.Manager) (*Snapshot, error) {
	st, err := m.Structure()
	if err != nil {
		return nil, snapshotErrorf("Capture", err)
	}
	s := &Snapshot{
		Fingerprint: st.Fingerprint(),
		MaxOrder:    m.MaxOrder(),
		ListType:    m.ListType(),
		Cutoff:      m.Cutoff(),
	}

	n, err := m.NbClusters(1)
	if err != nil {
		return nil, snapshotErrorf("Capture", err)
	}
	s.Centers = make([]int, n)
	for i := range s.Centers {
		if s.Centers[i], err = m.CenterAtom(i); err != nil {
			return nil, snapshotErrorf("Capture", err)
		}
	}
	for k := 2; k <= s.MaxOrder; k++ {
		t, err := m.Table(k)
		if err != nil {
			return nil, snapshotErrorf("Capture", err)
		}
		s.Tables = append(s.Tables, t.Clone())
	}

	nAtoms, err := m.NbAtoms()
	if err != nil {
		return nil, snapshotErrorf("Capture", err)
	}
	s.Atoms = make([]manager.Atom, nAtoms)
	for i := range s.Atoms {
		if s.Atoms[i], err = m.Atom(i); err != nil {
			return nil, snapshotErrorf("Capture", err)
		}
	}

	return s, nil
}

// Encode captures m and encodes it.
func Encode(m manager.Manager) ([]byte, error) {
	s, err := Capture(m)
	if err != nil {
		return nil, err
	}

	return s.MarshalBinary()
}

// Table returns the table of order k ≥ 2.
func (s *Snapshot) Table(k int) (*manager.Table, error) {
	if k < 2 || k-2 >= len(s.Tables) {
		return nil, fmt.Errorf("snapshot: order %d: %w", k, ErrOrder)
	}

	return s.Tables[k-2], nil
}

// NbClusters returns the cluster count of order k.
func (s *Snapshot) NbClusters(k int) (int, error) {
	if k == 1 {
		return len(s.Centers), nil
	}
	t, err := s.Table(k)
	if err != nil {
		return 0, err
	}

	return t.Size(), nil
}

// MarshalBinary implements encoding.BinaryMarshaler. The output depends only
// on the snapshot contents.
func (s *Snapshot) MarshalBinary() ([]byte, error) {
	b := append([]byte(nil), magic[:]...)
	b = binary.LittleEndian.AppendUint64(b, s.Fingerprint)
	b = binary.AppendUvarint(b, uint64(s.MaxOrder))
	b = binary.AppendUvarint(b, uint64(s.ListType))
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(s.Cutoff))

	b = appendInts(b, s.Centers)
	b = binary.AppendUvarint(b, uint64(len(s.Tables)))
	for _, t := range s.Tables {
		b = appendInts(b, t.NbNeigh)
		b = appendInts(b, t.Neighbours)
	}

	b = binary.AppendUvarint(b, uint64(len(s.Atoms)))
	for _, a := range s.Atoms {
		b = binary.AppendVarint(b, int64(a.Owner))
		for _, k := range a.Image {
			b = binary.AppendVarint(b, int64(k))
		}
		for _, x := range a.Position {
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(x))
		}
		b = binary.AppendVarint(b, int64(a.Type))
		ghost := byte(0)
		if a.Ghost {
			ghost = 1
		}
		b = append(b, ghost)
	}

	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	d, err := Decode(data)
	if err != nil {
		return err
	}
	*s = *d

	return nil
}

// Decode parses an encoding produced by MarshalBinary and validates every
// table.
func Decode(data []byte) (*Snapshot, error) {
	if len(data) < len(magic) || [4]byte(data[:4]) != magic {
		return nil, snapshotErrorf("Decode", fmt.Errorf("bad header: %w", ErrCorrupt))
	}
	r := &reader{buf: data[len(magic):]}

	s := &Snapshot{}
	s.Fingerprint = r.fixed64()
	s.MaxOrder = r.count()
	s.ListType = manager.ListType(r.count())
	s.Cutoff = r.float()
	s.Centers = r.ints()

	nTables := r.count()
	for k := 0; k < nTables && r.err == nil; k++ {
		t := &manager.Table{NbNeigh: r.ints(), Neighbours: r.ints()}
		t.Seal()
		s.Tables = append(s.Tables, t)
	}

	nAtoms := r.count()
	if r.err == nil {
		s.Atoms = make([]manager.Atom, 0, min(nAtoms, len(r.buf)))
	}
	for i := 0; i < nAtoms && r.err == nil; i++ {
		a := manager.Atom{Index: i, Owner: r.varint()}
		for k := range a.Image {
			a.Image[k] = r.varint()
		}
		a.Position = structure.Vec3{r.float(), r.float(), r.float()}
		a.Type = r.varint()
		a.Ghost = r.flag() == 1
		s.Atoms = append(s.Atoms, a)
	}

	if r.err != nil {
		return nil, snapshotErrorf("Decode", r.err)
	}
	if len(r.buf) != 0 {
		return nil, snapshotErrorf("Decode", fmt.Errorf("%d trailing bytes: %w", len(r.buf), ErrCorrupt))
	}
	if nTables != max(s.MaxOrder-1, 0) {
		return nil, snapshotErrorf("Decode", fmt.Errorf("%d tables for max order %d: %w", nTables, s.MaxOrder, ErrCorrupt))
	}
	if err := s.check(); err != nil {
		return nil, snapshotErrorf("Decode", err)
	}

	return s, nil
}

// check validates every table, that table k has one row per order k-1
// cluster and that every atom index is in range.
func (s *Snapshot) check() error {
	parents := len(s.Centers)
	if err := s.checkAtoms(1, s.Centers); err != nil {
		return err
	}
	for i, t := range s.Tables {
		k := i + 2
		if err := t.Validate(); err != nil {
			return fmt.Errorf("order %d: %v: %w", k, err, ErrCorrupt)
		}
		if t.Len() != parents {
			return fmt.Errorf("order %d: %d rows for %d parent clusters: %w", k, t.Len(), parents, ErrCorrupt)
		}
		if err := s.checkAtoms(k, t.Neighbours); err != nil {
			return err
		}
		parents = t.Size()
	}

	return nil
}

func (s *Snapshot) checkAtoms(order int, atoms []int) error {
	for _, a := range atoms {
		if a < 0 || a >= len(s.Atoms) {
			return fmt.Errorf("order %d: atom %d of %d: %w", order, a, len(s.Atoms), ErrCorrupt)
		}
	}

	return nil
}

func appendInts(b []byte, xs []int) []byte {
	b = binary.AppendUvarint(b, uint64(len(xs)))
	for _, x := range xs {
		b = binary.AppendVarint(b, int64(x))
	}

	return b
}

// reader consumes an encoding; the first failure sticks.
type reader struct {
	buf []byte
	err error
}

func (r *reader) fail() {
	if r.err == nil {
		r.err = fmt.Errorf("truncated: %w", ErrCorrupt)
	}
	r.buf = nil
}

func (r *reader) fixed64() uint64 {
	if r.err != nil || len(r.buf) < 8 {
		r.fail()
		return 0
	}
	v := binary.LittleEndian.Uint64(r.buf)
	r.buf = r.buf[8:]

	return v
}

func (r *reader) float() float64 { return math.Float64frombits(r.fixed64()) }

func (r *reader) flag() byte {
	if r.err != nil || len(r.buf) < 1 {
		r.fail()
		return 0
	}
	v := r.buf[0]
	r.buf = r.buf[1:]

	return v
}

// count reads a length, which can never exceed the remaining bytes.
func (r *reader) count() int {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf)
	if n <= 0 || v > uint64(len(r.buf)) {
		r.fail()
		return 0
	}
	r.buf = r.buf[n:]

	return int(v)
}

func (r *reader) varint() int {
	if r.err != nil {
		return 0
	}
	v, n := binary.Varint(r.buf)
	if n <= 0 {
		r.fail()
		return 0
	}
	r.buf = r.buf[n:]

	return int(v)
}

func (r *reader) ints() []int {
	n := r.count()
	if r.err != nil {
		return nil
	}
	xs := make([]int, n)
	for i := range xs {
		xs[i] = r.varint()
	}

	return xs
}
