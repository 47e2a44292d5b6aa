// SPDX-License-Identifier: MIT

package linalg

import "math"

// Cdist returns the N×K matrix of Euclidean distances between the rows of
// x (N×d) and the rows of y (K×d).
//
// Errors: ErrNilMatrix, ErrDimensionMismatch when column counts differ.
// Complexity: O(N·K·d).
func Cdist(x, y *Dense) (*Dense, error) {
	if x == nil || y == nil {
		return nil, linalgErrorf(opCdist, ErrNilMatrix)
	}
	if x.c != y.c {
		return nil, linalgErrorf(opCdist, ErrDimensionMismatch)
	}
	d := x.c
	out := &Dense{r: x.r, c: y.r, data: make([]float64, x.r*y.r)}
	for i := 0; i < x.r; i++ {
		xi := x.data[i*d : (i+1)*d]
		for j := 0; j < y.r; j++ {
			yj := y.data[j*d : (j+1)*d]
			var s float64
			for k := range xi {
				t := xi[k] - yj[k]
				s += t * t
			}
			out.data[i*y.r+j] = math.Sqrt(s)
		}
	}

	return out, nil
}
