// SPDX-License-Identifier: MIT

// Package linalg - products, transpose and LU-based determinant/inverse.
//
// Determinism:
//   - Loops run in fixed i→k→j order; identical input gives identical output.

package linalg

import (
	"math"
)

// pivotTolerance is the absolute threshold below which an LU pivot is zero.
const pivotTolerance = 1e-12

// Mul returns a×b.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch (a.Cols != b.Rows).
// Complexity: O(n·m·p).
func Mul(a, b *Dense) (*Dense, error) {
	if a == nil || b == nil {
		return nil, linalgErrorf(opMul, ErrNilMatrix)
	}
	if a.c != b.r {
		return nil, linalgErrorf(opMul, ErrDimensionMismatch)
	}
	out := &Dense{r: a.r, c: b.c, data: make([]float64, a.r*b.c)}
	for i := 0; i < a.r; i++ {
		for k := 0; k < a.c; k++ {
			aik := a.data[i*a.c+k]
			if aik == 0 {
				continue
			}
			for j := 0; j < b.c; j++ {
				out.data[i*b.c+j] += aik * b.data[k*b.c+j]
			}
		}
	}

	return out, nil
}

// Transpose returns mᵀ.
func Transpose(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, linalgErrorf(opTranspose, ErrNilMatrix)
	}
	out := &Dense{r: m.c, c: m.r, data: make([]float64, len(m.data))}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			out.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return out, nil
}

// MatVec returns m·v. Errors: ErrNilMatrix, ErrDimensionMismatch.
func MatVec(m *Dense, v []float64) ([]float64, error) {
	if m == nil {
		return nil, linalgErrorf(opMatVec, ErrNilMatrix)
	}
	if len(v) != m.c {
		return nil, linalgErrorf(opMatVec, ErrDimensionMismatch)
	}
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		var s float64
		row := m.data[i*m.c : (i+1)*m.c]
		for j, x := range row {
			s += x * v[j]
		}
		out[i] = s
	}

	return out, nil
}

// luDecompose factors a square matrix in place as P·A = L·U (Doolittle,
// partial pivoting). L has an implicit unit diagonal and shares storage with U.
// Returns the row permutation and its parity sign.
func luDecompose(m *Dense) (lu *Dense, perm []int, sign float64, err error) {
	n := m.r
	lu = m.Clone()
	perm = make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sign = 1
	for k := 0; k < n; k++ {
		// pick the largest |pivot| in column k
		p, best := k, math.Abs(lu.data[k*n+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(lu.data[i*n+k]); v > best {
				p, best = i, v
			}
		}
		if best <= pivotTolerance {
			return nil, nil, 0, ErrSingular
		}
		if p != k {
			for j := 0; j < n; j++ {
				lu.data[k*n+j], lu.data[p*n+j] = lu.data[p*n+j], lu.data[k*n+j]
			}
			perm[k], perm[p] = perm[p], perm[k]
			sign = -sign
		}
		pivot := lu.data[k*n+k]
		for i := k + 1; i < n; i++ {
			f := lu.data[i*n+k] / pivot
			lu.data[i*n+k] = f
			for j := k + 1; j < n; j++ {
				lu.data[i*n+j] -= f * lu.data[k*n+j]
			}
		}
	}

	return lu, perm, sign, nil
}

// Det returns the determinant of a square matrix.
// A singular matrix yields (0, nil): a zero determinant is a valid answer.
//
// Errors: ErrNilMatrix, ErrNonSquare.
// Complexity: O(n³).
func Det(m *Dense) (float64, error) {
	if m == nil {
		return 0, linalgErrorf(opDet, ErrNilMatrix)
	}
	if m.r != m.c {
		return 0, linalgErrorf(opDet, ErrNonSquare)
	}
	lu, _, sign, err := luDecompose(m)
	if err != nil {
		return 0, nil
	}
	det := sign
	for i := 0; i < m.r; i++ {
		det *= lu.data[i*m.r+i]
	}

	return det, nil
}

// Inverse returns m⁻¹ via LU with partial pivoting.
//
// Implementation:
//   - Stage 1: factor P·A = L·U.
//   - Stage 2: for each basis vector e_k, solve L·y = P·e_k then U·x = y.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrSingular.
// Complexity: O(n³).
func Inverse(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, linalgErrorf(opInverse, ErrNilMatrix)
	}
	if m.r != m.c {
		return nil, linalgErrorf(opInverse, ErrNonSquare)
	}
	n := m.r
	lu, perm, _, err := luDecompose(m)
	if err != nil {
		return nil, linalgErrorf(opInverse, err)
	}
	inv := &Dense{r: n, c: n, data: make([]float64, n*n)}
	y := make([]float64, n)
	for col := 0; col < n; col++ {
		// forward substitution on the permuted basis vector
		for i := 0; i < n; i++ {
			var s float64
			if perm[i] == col {
				s = 1
			}
			for k := 0; k < i; k++ {
				s -= lu.data[i*n+k] * y[k]
			}
			y[i] = s
		}
		// back substitution
		for i := n - 1; i >= 0; i-- {
			s := y[i]
			for k := i + 1; k < n; k++ {
				s -= lu.data[i*n+k] * inv.data[k*n+col]
			}
			inv.data[i*n+col] = s / lu.data[i*n+i]
		}
	}

	return inv, nil
}
