// SPDX-License-Identifier: MIT

package neighbourlist

import (
	"math"

	"github.com/katalvlaran/clusterlist/structure"
)

// stencil lists the 27 bin offsets of a cell and its neighbours.
var stencil = func() [][3]int {
	out := make([][3]int, 0, 27)
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				out = append(out, [3]int{dx, dy, dz})
			}
		}
	}

	return out
}()

// grid is a row-major cell list over a bounding box.
type grid struct {
	origin structure.Vec3
	edge   [3]float64
	dims   [3]int
	bins   [][]int // atom indices, ascending within a bin
}

// newGrid bins positions into cells of edge ≥ r, growing the edges until the
// cell count fits maxBins.
// Stage 1 (Bounds): axis-aligned box of all positions.
// Stage 2 (Dims): floor(extent/r) bins per axis, at least one; halve the
// finest axis while the total exceeds maxBins.
// Stage 3 (Fill): append atom indices in order, so bins stay ascending.
// Complexity: O(N + bins) time and memory.
func newGrid(positions []structure.Vec3, r float64, maxBins int) *grid {
	lo := positions[0]
	hi := positions[0]
	for _, p := range positions[1:] {
		for d := 0; d < 3; d++ {
			lo[d] = math.Min(lo[d], p[d])
			hi[d] = math.Max(hi[d], p[d])
		}
	}

	g := &grid{origin: lo}
	var extent [3]float64
	for d := 0; d < 3; d++ {
		extent[d] = hi[d] - lo[d]
		g.dims[d] = max(1, int(math.Floor(extent[d]/r)))
	}
	for g.dims[0]*g.dims[1]*g.dims[2] > maxBins {
		// halve the finest axis; edges only grow
		d := 0
		for k := 1; k < 3; k++ {
			if g.dims[k] > g.dims[d] {
				d = k
			}
		}
		g.dims[d] = max(1, g.dims[d]/2)
	}
	for d := 0; d < 3; d++ {
		if extent[d] > 0 {
			g.edge[d] = extent[d] / float64(g.dims[d])
		} else {
			g.edge[d] = r
		}
	}

	g.bins = make([][]int, g.dims[0]*g.dims[1]*g.dims[2])
	for i, p := range positions {
		b := g.index(g.coordinate(p))
		g.bins[b] = append(g.bins[b], i)
	}

	return g
}

// single reports whether the grid degenerated to one bin.
func (g *grid) single() bool { return len(g.bins) == 1 }

func (g *grid) coordinate(p structure.Vec3) [3]int {
	var c [3]int
	for d := 0; d < 3; d++ {
		c[d] = int((p[d] - g.origin[d]) / g.edge[d])
		if c[d] >= g.dims[d] {
			c[d] = g.dims[d] - 1
		}
		if c[d] < 0 {
			c[d] = 0
		}
	}

	return c
}

func (g *grid) index(c [3]int) int {
	return (c[2]*g.dims[1]+c[1])*g.dims[0] + c[0]
}

func (g *grid) inBounds(c [3]int) bool {
	for d := 0; d < 3; d++ {
		if c[d] < 0 || c[d] >= g.dims[d] {
			return false
		}
	}

	return true
}

// candidates appends the atoms of p's bin and its in-bounds neighbours to dst.
func (g *grid) candidates(dst []int, p structure.Vec3) []int {
	c := g.coordinate(p)
	for _, off := range stencil {
		n := [3]int{c[0] + off[0], c[1] + off[1], c[2] + off[2]}
		if !g.inBounds(n) {
			continue
		}
		dst = append(dst, g.bins[g.index(n)]...)
	}

	return dst
}
