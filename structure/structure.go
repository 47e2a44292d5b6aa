package structure

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/katalvlaran/clusterlist/linalg"
)

// Structure is an immutable atomic configuration.
type Structure struct {
	positions []Vec3
	types     []int
	cell      [3]Vec3
	pbc       [3]bool

	inv    *linalg.Dense // cell⁻¹, nil when the cell is singular
	fracT  *linalg.Dense // (cell⁻¹)ᵀ, so MatVec computes p·cell⁻¹
	volume float64
	fp     uint64
}

// New validates and copies its inputs into a Structure.
//
// Errors:
//   - ErrEmptyStructure when positions is empty.
//   - ErrLengthMismatch when len(types) != len(positions).
//   - ErrNonFinite for NaN/Inf coordinates or cell entries.
//   - ErrSingularCell when any axis is periodic and the cell is degenerate.
//
// A zero cell is accepted for fully non-periodic structures (infinite box).
func New(positions []Vec3, types []int, cell [3]Vec3, pbc [3]bool) (*Structure, error) {
	if len(positions) == 0 {
		return nil, structureErrorf("New", ErrEmptyStructure)
	}
	if len(types) != len(positions) {
		return nil, structureErrorf("New", ErrLengthMismatch)
	}
	for _, p := range positions {
		if !p.IsFinite() {
			return nil, structureErrorf("New", ErrNonFinite)
		}
	}
	for _, a := range cell {
		if !a.IsFinite() {
			return nil, structureErrorf("New", ErrNonFinite)
		}
	}

	s := &Structure{
		positions: append([]Vec3(nil), positions...),
		types:     append([]int(nil), types...),
		cell:      cell,
		pbc:       pbc,
	}

	m, err := linalg.FromRows([][]float64{cell[0][:], cell[1][:], cell[2][:]})
	if err != nil {
		return nil, structureErrorf("New", err)
	}
	det, err := linalg.Det(m)
	if err != nil {
		return nil, structureErrorf("New", err)
	}
	s.volume = math.Abs(det)
	if s.volume > 0 {
		if s.inv, err = linalg.Inverse(m); err != nil {
			s.inv = nil
		} else if s.fracT, err = linalg.Transpose(s.inv); err != nil {
			return nil, structureErrorf("New", err)
		}
	}
	if s.inv == nil && s.AnyPeriodic() {
		return nil, structureErrorf("New", ErrSingularCell)
	}
	s.fp = s.fingerprint()

	return s, nil
}

// Size returns the number of real atoms.
func (s *Structure) Size() int { return len(s.positions) }

// Position returns the position of atom i.
func (s *Structure) Position(i int) (Vec3, error) {
	if i < 0 || i >= len(s.positions) {
		return Vec3{}, ErrAtomIndex
	}

	return s.positions[i], nil
}

// Type returns the type id of atom i.
func (s *Structure) Type(i int) (int, error) {
	if i < 0 || i >= len(s.types) {
		return 0, ErrAtomIndex
	}

	return s.types[i], nil
}

// Positions returns a copy of all positions.
func (s *Structure) Positions() []Vec3 { return append([]Vec3(nil), s.positions...) }

// Types returns a copy of all type ids.
func (s *Structure) Types() []int { return append([]int(nil), s.types...) }

// Cell returns the lattice vectors, one per row.
func (s *Structure) Cell() [3]Vec3 { return s.cell }

// Periodicity returns the per-axis periodic flags.
func (s *Structure) Periodicity() [3]bool { return s.pbc }

// AnyPeriodic reports whether at least one axis is periodic.
func (s *Structure) AnyPeriodic() bool { return s.pbc[0] || s.pbc[1] || s.pbc[2] }

// Volume returns |det(cell)|; zero for a singular cell.
func (s *Structure) Volume() float64 { return s.volume }

// Fractional converts a Cartesian point to fractional coordinates, f = p·cell⁻¹.
func (s *Structure) Fractional(p Vec3) (Vec3, error) {
	if s.inv == nil {
		return Vec3{}, ErrSingularCell
	}
	out, err := linalg.MatVec(s.fracT, p[:])
	if err != nil {
		return Vec3{}, err
	}

	return Vec3{out[0], out[1], out[2]}, nil
}

// Cartesian converts fractional coordinates back to a Cartesian point, p = f·cell.
func (s *Structure) Cartesian(f Vec3) Vec3 {
	return s.cell[0].Scale(f[0]).Add(s.cell[1].Scale(f[1])).Add(s.cell[2].Scale(f[2]))
}

// Translation returns the Cartesian shift of the integer image (n0, n1, n2).
func (s *Structure) Translation(image [3]int) Vec3 {
	return s.Cartesian(Vec3{float64(image[0]), float64(image[1]), float64(image[2])})
}

// Heights returns the perpendicular distance between opposite cell faces
// along each lattice direction: h_d = V / |a_{d+1} × a_{d+2}|.
func (s *Structure) Heights() ([3]float64, error) {
	var h [3]float64
	if s.inv == nil {
		return h, ErrSingularCell
	}
	for d := 0; d < 3; d++ {
		area := s.cell[(d+1)%3].Cross(s.cell[(d+2)%3]).Norm()
		h[d] = s.volume / area
	}

	return h, nil
}

// Fingerprint returns an xxhash digest of positions, types, cell and pbc.
// Equal fingerprints are treated as "unchanged" by the pipeline.
func (s *Structure) Fingerprint() uint64 { return s.fp }

func (s *Structure) fingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 8*(4*len(s.positions)+12))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s.positions)))
	for i, p := range s.positions {
		for _, x := range p {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
		}
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(s.types[i])))
	}
	for _, a := range s.cell {
		for _, x := range a {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
		}
	}
	for _, b := range s.pbc {
		if b {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	_, _ = d.Write(buf)

	return d.Sum64()
}
