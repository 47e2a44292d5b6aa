package strict_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/clusterlist/manager"
	"github.com/katalvlaran/clusterlist/neighbourlist"
	"github.com/katalvlaran/clusterlist/strict"
	"github.com/katalvlaran/clusterlist/structure"
)

func pairStack(t *testing.T, cutoff float64, opts ...neighbourlist.Option) *neighbourlist.Adaptor {
	t.Helper()
	nl, err := neighbourlist.New(manager.NewCenters(nil, nil), cutoff, opts...)
	require.NoError(t, err)

	return nl
}

func randomPeriodic(t *testing.T, n int, l float64, seed int64) *structure.Structure {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	pos := make([]structure.Vec3, n)
	types := make([]int, n)
	for i := range pos {
		pos[i] = structure.Vec3{rng.Float64() * l, rng.Float64() * l, rng.Float64() * l}
		types[i] = 6
	}
	cell := [3]structure.Vec3{{l, 0, 0}, {0, l, 0}, {0, 0, l}}
	st, err := structure.New(pos, types, cell, [3]bool{true, true, true})
	require.NoError(t, err)

	return st
}

func TestNew_ConfigurationErrors(t *testing.T) {
	nl := pairStack(t, 2)

	_, err := strict.New(nl, 0)
	require.ErrorIs(t, err, manager.ErrBadCutoff)
	_, err = strict.New(nl, math.NaN())
	require.ErrorIs(t, err, manager.ErrBadCutoff)
	_, err = strict.New(nl, 2.5)
	require.ErrorIs(t, err, manager.ErrStrictCutoff)
	_, err = strict.New(manager.NewCenters(nil, nil), 1)
	require.ErrorIs(t, err, manager.ErrBadStack)

	s, err := strict.New(nl, 2) // equal to the base cutoff is fine
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.Cutoff())
}

func TestTwoAtoms(t *testing.T) {
	st, err := structure.New([]structure.Vec3{{0, 0, 0}, {1, 0, 0}}, []int{1, 1}, [3]structure.Vec3{}, [3]bool{})
	require.NoError(t, err)

	for _, tc := range []struct {
		name   string
		cutoff float64
		pairs  int
	}{
		{"inside", 1.5, 1},
		{"outside", 0.5, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			nl := pairStack(t, 1.5, neighbourlist.WithListType(manager.Half))
			s, err := strict.New(nl, tc.cutoff)
			require.NoError(t, err)
			require.NoError(t, s.Update(st))

			n, err := s.NbClusters(2)
			require.NoError(t, err)
			require.Equal(t, tc.pairs, n)
			if n == 0 {
				return
			}
			ref, err := manager.NewClusterRef(s, 2, 0)
			require.NoError(t, err)
			d, err := ref.Distance()
			require.NoError(t, err)
			assert.Equal(t, 1.0, d)
			dir, err := ref.Direction()
			require.NoError(t, err)
			assert.Equal(t, structure.Vec3{1, 0, 0}, dir)
		})
	}
}

func TestStrictIffDistance(t *testing.T) {
	const rc = 2.5
	st := randomPeriodic(t, 60, 8, 17)
	nl := pairStack(t, 3, neighbourlist.WithSkin(0.5), neighbourlist.WithGhostNeighbours(true))
	s, err := strict.New(nl, rc)
	require.NoError(t, err)
	require.NoError(t, s.Update(st))

	total, err := s.NbAtoms()
	require.NoError(t, err)

	centers, err := manager.CenterRefs(s)
	require.NoError(t, err)
	for _, c := range centers {
		pc, err := c.Position()
		require.NoError(t, err)

		want := map[int]float64{}
		for j := 0; j < total; j++ {
			if j == c.Front() {
				continue
			}
			pj, err := s.Position(j)
			require.NoError(t, err)
			if d := pc.Dist(pj); d <= rc {
				want[j] = d
			}
		}

		kids, err := c.Children()
		require.NoError(t, err)
		got := map[int]float64{}
		for _, k := range kids {
			d, err := k.Distance()
			require.NoError(t, err)
			got[k.AtomIndex()] = d
		}
		require.Len(t, got, len(want), "center %d", c.Front())
		for j, d := range want {
			assert.InDelta(t, d, got[j], 1e-12, "pair (%d,%d)", c.Front(), j)
		}
	}

	// ghost rows are cut too
	for a := st.Size(); a < total; a++ {
		row, err := s.AtomNeighbours(a)
		require.NoError(t, err)
		pa, _ := s.Position(a)
		for _, j := range row {
			pj, _ := s.Position(j)
			assert.LessOrEqual(t, pa.Dist(pj), rc)
		}
	}
}

func TestLayersAndProperties(t *testing.T) {
	st := randomPeriodic(t, 30, 6, 2)
	nl := pairStack(t, 2.5)
	s, err := strict.New(nl, 2)
	require.NoError(t, err)
	require.NoError(t, s.Update(st))

	l, err := s.Layer(2)
	require.NoError(t, err)
	assert.Equal(t, 1, l)

	dist, err := manager.Lookup[float64](s, 2, strict.DistanceProperty)
	require.NoError(t, err)
	assert.Same(t, s.Distances(), dist)
	assert.Equal(t, manager.PropertyKey{Order: 2, Layer: 1, Name: strict.DistanceProperty}, dist.Key())

	n, err := s.NbClusters(2)
	require.NoError(t, err)
	assert.Equal(t, n, dist.Len())

	require.NoError(t, manager.ForEachCluster(s, 2, func(c manager.ClusterRef) error {
		d, err := dist.Get(c)
		require.NoError(t, err)
		dir, err := c.Direction()
		require.NoError(t, err)
		assert.InDelta(t, 1.0, dir.Norm(), 1e-12)

		pf, _ := s.Position(c.Front())
		pb, _ := c.Position()
		back := pf.Add(dir.Scale(d))
		assert.InDeltaSlice(t, pb[:], back[:], 1e-9)

		// the same pair one layer down carries no distance
		idx, err := c.ClusterIndex(0)
		require.NoError(t, err)
		_, err = nl.Distance(2, idx)
		require.ErrorIs(t, err, manager.ErrNoDistances)

		return nil
	}))

	_, err = s.Distance(1, 0)
	require.ErrorIs(t, err, manager.ErrNoDistances)
	_, err = s.Distance(2, n)
	require.ErrorIs(t, err, manager.ErrClusterIndex)
}

func TestWithoutDirections(t *testing.T) {
	st := randomPeriodic(t, 10, 5, 4)
	s, err := strict.New(pairStack(t, 2), 2, strict.WithDirections(false))
	require.NoError(t, err)
	require.NoError(t, s.Update(st))

	assert.Nil(t, s.Directions())
	_, err = s.Direction(2, 0)
	require.ErrorIs(t, err, manager.ErrNoDistances)
	_, err = manager.Lookup[structure.Vec3](s, 2, strict.DirectionProperty)
	require.ErrorIs(t, err, manager.ErrPropertyNotFound)
}

func TestNotBuilt(t *testing.T) {
	s, err := strict.New(pairStack(t, 2), 1)
	require.NoError(t, err)
	_, err = s.Distance(2, 0)
	require.ErrorIs(t, err, manager.ErrNotBuilt)
	_, err = s.AtomNeighbours(0)
	require.ErrorIs(t, err, manager.ErrNotBuilt)
}
