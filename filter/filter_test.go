package filter_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/clusterlist/filter"
	"github.com/katalvlaran/clusterlist/manager"
	"github.com/katalvlaran/clusterlist/maxorder"
	"github.com/katalvlaran/clusterlist/neighbourlist"
	"github.com/katalvlaran/clusterlist/strict"
	"github.com/katalvlaran/clusterlist/structure"
)

func cloud(t *testing.T, n int, seed int64) *structure.Structure {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	pos := make([]structure.Vec3, n)
	for i := range pos {
		pos[i] = structure.Vec3{rng.Float64() * 4, rng.Float64() * 4, rng.Float64() * 4}
	}
	st, err := structure.New(pos, make([]int, n), [3]structure.Vec3{}, [3]bool{})
	require.NoError(t, err)

	return st
}

func strictPairs(t *testing.T) *strict.Adaptor {
	t.Helper()
	nl, err := neighbourlist.New(manager.NewCenters(nil, nil), 1.6)
	require.NoError(t, err)
	s, err := strict.New(nl, 1.5)
	require.NoError(t, err)

	return s
}

func TestFilterPairs(t *testing.T) {
	st := cloud(t, 30, 1)
	pairs := strictPairs(t)
	f, err := filter.New(pairs)
	require.NoError(t, err)
	require.NoError(t, f.Update(st))

	n, err := f.NbClusters(2)
	require.NoError(t, err)
	assert.Zero(t, n, "selection starts empty")

	var want [][]int
	var wantDist []float64
	require.NoError(t, manager.ForEachCluster(pairs, 2, func(c manager.ClusterRef) error {
		if c.Index()%3 != 0 {
			return nil
		}
		want = append(want, c.Atoms())
		d, err := c.Distance()
		require.NoError(t, err)
		wantDist = append(wantDist, d)

		return f.AddCluster(c)
	}))
	require.NotEmpty(t, want)

	tb, err := f.Table(2)
	require.NoError(t, err)
	require.NoError(t, tb.Validate())

	var got [][]int
	var gotDist []float64
	require.NoError(t, manager.ForEachCluster(f, 2, func(c manager.ClusterRef) error {
		got = append(got, c.Atoms())
		d, err := c.Distance()
		require.NoError(t, err)
		gotDist = append(gotDist, d)

		return nil
	}))
	assert.Equal(t, want, got)
	assert.Equal(t, wantDist, gotDist)

	l, err := f.Layer(2)
	require.NoError(t, err)
	assert.Equal(t, 2, l, "one layer above strict")
	for i, p := range f.Selected() {
		pi, err := f.ParentIndex(2, i)
		require.NoError(t, err)
		assert.Equal(t, p, pi)
		assert.Zero(t, p%3)
	}
}

func TestAddClusterErrors(t *testing.T) {
	st := cloud(t, 20, 2)
	pairs := strictPairs(t)
	f, err := filter.New(pairs)
	require.NoError(t, err)

	ref := func(m manager.Manager, order, idx int) manager.ClusterRef {
		c, err := manager.NewClusterRef(m, order, idx)
		require.NoError(t, err)

		return c
	}

	require.NoError(t, f.Update(st))
	n, _ := pairs.NbClusters(2)
	require.Greater(t, n, 2)

	require.NoError(t, f.AddCluster(ref(pairs, 2, 1)))
	require.ErrorIs(t, f.AddCluster(ref(pairs, 2, 1)), manager.ErrFilterOrder)
	require.ErrorIs(t, f.AddCluster(ref(pairs, 2, 0)), manager.ErrFilterOrder)
	require.ErrorIs(t, f.AddCluster(ref(pairs, 1, 3)), manager.ErrOrderMismatch)

	other := strictPairs(t)
	require.NoError(t, other.Update(st))
	require.ErrorIs(t, f.AddCluster(ref(other, 2, 2)), manager.ErrFilterOrder)

	fresh, err := filter.New(strictPairs(t))
	require.NoError(t, err)
	require.ErrorIs(t, fresh.AddCluster(ref(pairs, 2, 0)), manager.ErrNotBuilt)
}

func TestSelectionLifecycle(t *testing.T) {
	st := cloud(t, 20, 3)
	pairs := strictPairs(t)
	f, err := filter.New(pairs)
	require.NoError(t, err)
	require.NoError(t, f.Update(st))

	c, err := manager.NewClusterRef(pairs, 2, 0)
	require.NoError(t, err)
	require.NoError(t, f.AddCluster(c))

	require.NoError(t, f.Update(nil))
	n, _ := f.NbClusters(2)
	assert.Equal(t, 1, n, "unchanged structure keeps the selection")

	require.NoError(t, f.Update(cloud(t, 20, 4)))
	n, _ = f.NbClusters(2)
	assert.Zero(t, n, "new structure clears the selection")
}

func TestFilterCentersBelowPairList(t *testing.T) {
	st := cloud(t, 16, 5)
	root := manager.NewCenters(nil, nil)
	f, err := filter.New(root)
	require.NoError(t, err)
	nl, err := neighbourlist.New(f, 1.5)
	require.NoError(t, err)
	require.NoError(t, nl.Update(st))

	n, _ := nl.NbClusters(1)
	require.Zero(t, n)

	centers, err := manager.CenterRefs(root)
	require.NoError(t, err)
	for _, c := range centers {
		if c.Front()%2 == 1 {
			require.NoError(t, f.AddCluster(c))
		}
	}
	require.NoError(t, nl.Update(nil)) // picks up the selection via the filter's version

	sel, err := manager.CenterRefs(nl)
	require.NoError(t, err)
	require.Len(t, sel, 8)
	for i, c := range sel {
		assert.Equal(t, 2*i+1, c.Front())
		row, err := nl.AtomNeighbours(c.Front())
		require.NoError(t, err)
		kids, err := c.Children()
		require.NoError(t, err)
		assert.Len(t, kids, len(row))
	}
	l, err := nl.Layer(1)
	require.NoError(t, err)
	assert.Equal(t, 1, l)
}

func TestTripletsAboveFilter(t *testing.T) {
	st := cloud(t, 30, 6)
	nl, err := neighbourlist.New(manager.NewCenters(nil, nil), 1.6, neighbourlist.WithListType(manager.Half))
	require.NoError(t, err)
	f, err := filter.New(nl)
	require.NoError(t, err)
	top, err := maxorder.New(f)
	require.NoError(t, err)
	require.NoError(t, top.Update(st))

	// keep only pairs centred on atom 0
	require.NoError(t, manager.ForEachCluster(nl, 2, func(c manager.ClusterRef) error {
		if c.Front() == 0 {
			return f.AddCluster(c)
		}

		return nil
	}))
	require.NoError(t, top.Update(nil))
	require.NoError(t, manager.ForEachCluster(top, 3, func(c manager.ClusterRef) error {
		assert.Equal(t, 0, c.Front())

		return nil
	}))
}
