// Package linalg_test contains unit tests for Dense storage and the LU kernels.
package linalg_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/clusterlist/linalg"
)

const tol = 1e-12

func mustRows(t *testing.T, rows [][]float64) *linalg.Dense {
	t.Helper()
	m, err := linalg.FromRows(rows)
	require.NoError(t, err)

	return m
}

func TestNewDense_Validation(t *testing.T) {
	_, err := linalg.NewDense(0, 3)
	require.ErrorIs(t, err, linalg.ErrInvalidDimensions)
	_, err = linalg.NewDense(3, -1)
	require.ErrorIs(t, err, linalg.ErrInvalidDimensions)

	m, err := linalg.NewDense(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Zero(t, v) // zero-initialised
}

func TestDense_AtSetBounds(t *testing.T) {
	m, err := linalg.NewDense(2, 2)
	require.NoError(t, err)

	require.ErrorIs(t, m.Set(2, 0, 1), linalg.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), linalg.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), linalg.ErrNaNInf)
	_, err = m.At(-1, 0)
	require.ErrorIs(t, err, linalg.ErrOutOfRange)

	require.NoError(t, m.Set(1, 0, 4.5))
	v, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)
}

func TestFromRows_Ragged(t *testing.T) {
	_, err := linalg.FromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, linalg.ErrDimensionMismatch)
	_, err = linalg.FromRows(nil)
	require.ErrorIs(t, err, linalg.ErrInvalidDimensions)
}

func TestClone_IsDeep(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 9))
	v, _ := m.At(0, 0)
	assert.Equal(t, 1.0, v) // original untouched
}

func TestMul_AndTranspose(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	b := mustRows(t, [][]float64{{7, 8}, {9, 10}, {11, 12}})

	p, err := linalg.Mul(a, b)
	require.NoError(t, err)
	want := [][]float64{{58, 64}, {139, 154}}
	for i := range want {
		row, err := p.Row(i)
		require.NoError(t, err)
		assert.Equal(t, want[i], row)
	}

	_, err = linalg.Mul(a, a)
	require.ErrorIs(t, err, linalg.ErrDimensionMismatch)
	_, err = linalg.Mul(nil, a)
	require.ErrorIs(t, err, linalg.ErrNilMatrix)

	at, err := linalg.Transpose(a)
	require.NoError(t, err)
	assert.Equal(t, 3, at.Rows())
	v, _ := at.At(2, 1)
	assert.Equal(t, 6.0, v)
}

func TestMatVec(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 0, 2}, {0, 3, 0}})
	out, err := linalg.MatVec(m, []float64{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3}, out)

	_, err = linalg.MatVec(m, []float64{1})
	require.ErrorIs(t, err, linalg.ErrDimensionMismatch)
}

func TestDet(t *testing.T) {
	cases := []struct {
		name string
		rows [][]float64
		want float64
	}{
		{"identity", [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, 1},
		{"swap needs pivot", [][]float64{{0, 5, 0}, {5, 0, 0}, {0, 0, 5}}, -125},
		{"singular", [][]float64{{1, 2}, {2, 4}}, 0},
		{"triclinic", [][]float64{{2, 0, 0}, {1, 3, 0}, {0.5, 0.5, 4}}, 24},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := linalg.Det(mustRows(t, tc.rows))
			require.NoError(t, err)
			assert.InDelta(t, tc.want, d, 1e-9)
		})
	}

	_, err := linalg.Det(mustRows(t, [][]float64{{1, 2, 3}}))
	require.ErrorIs(t, err, linalg.ErrNonSquare)
}

func TestInverse_RoundTrip(t *testing.T) {
	// zero leading pivot would break LU without row exchange
	m := mustRows(t, [][]float64{{0, 2, 1}, {3, 0, 0}, {1, 1, 4}})
	inv, err := linalg.Inverse(m)
	require.NoError(t, err)

	prod, err := linalg.Mul(m, inv)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v, _ := prod.At(i, j)
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, v, 1e-9, "entry (%d,%d)", i, j)
		}
	}
}

func TestInverse_Errors(t *testing.T) {
	_, err := linalg.Inverse(mustRows(t, [][]float64{{1, 2}, {2, 4}}))
	require.ErrorIs(t, err, linalg.ErrSingular)
	_, err = linalg.Inverse(mustRows(t, [][]float64{{1, 2}}))
	require.ErrorIs(t, err, linalg.ErrNonSquare)
	_, err = linalg.Inverse(nil)
	require.ErrorIs(t, err, linalg.ErrNilMatrix)
}

func TestCdist(t *testing.T) {
	x, err := linalg.FromVec3([][3]float64{{0, 0, 0}, {1, 0, 0}})
	require.NoError(t, err)
	y, err := linalg.FromVec3([][3]float64{{0, 0, 0}, {0, 3, 4}, {1, 1, 0}})
	require.NoError(t, err)

	d, err := linalg.Cdist(x, y)
	require.NoError(t, err)
	require.Equal(t, 2, d.Rows())
	require.Equal(t, 3, d.Cols())

	v, _ := d.At(0, 1)
	assert.InDelta(t, 5.0, v, tol)
	v, _ = d.At(1, 0)
	assert.InDelta(t, 1.0, v, tol)
	v, _ = d.At(1, 2)
	assert.InDelta(t, 1.0, v, tol)

	z := mustRows(t, [][]float64{{1, 2}})
	_, err = linalg.Cdist(x, z)
	require.ErrorIs(t, err, linalg.ErrDimensionMismatch)
}
