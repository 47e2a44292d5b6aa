package structure

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Document is the on-disk JSON layout, a subset of ASE's JSON atoms format.
//
//	{"positions": [[x,y,z], ...], "numbers": [...], "cell": [[...],[...],[...]], "pbc": [b,b,b]}
//
// A missing cell means a zero cell; missing pbc means non-periodic.
type Document struct {
	Positions [][3]float64   `json:"positions"`
	Numbers   []int          `json:"numbers"`
	Cell      *[3][3]float64 `json:"cell,omitempty"`
	PBC       *[3]bool       `json:"pbc,omitempty"`
}

// Structure validates the document and converts it.
func (d Document) Structure() (*Structure, error) {
	pos := make([]Vec3, len(d.Positions))
	for i, p := range d.Positions {
		pos[i] = Vec3(p)
	}
	var cell [3]Vec3
	if d.Cell != nil {
		for i := range cell {
			cell[i] = Vec3(d.Cell[i])
		}
	}
	var pbc [3]bool
	if d.PBC != nil {
		pbc = *d.PBC
	}

	return New(pos, d.Numbers, cell, pbc)
}

// Document returns the JSON layout of s.
func (s *Structure) Document() Document {
	d := Document{
		Positions: make([][3]float64, len(s.positions)),
		Numbers:   s.Types(),
	}
	for i, p := range s.positions {
		d.Positions[i] = p
	}
	var cell [3][3]float64
	for i, a := range s.cell {
		cell[i] = a
	}
	pbc := s.pbc
	d.Cell, d.PBC = &cell, &pbc

	return d
}

// LoadJSON decodes one structure document from r.
func LoadJSON(r io.Reader) (*Structure, error) {
	var d Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return d.Structure()
}

// LoadFile opens path and decodes it with LoadJSON.
func LoadFile(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, structureErrorf("LoadFile", err)
	}
	defer f.Close()

	s, err := LoadJSON(f)
	if err != nil {
		return nil, structureErrorf(path, err)
	}

	return s, nil
}

// WriteJSON encodes s to w.
func WriteJSON(w io.Writer, s *Structure) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(s.Document())
}
