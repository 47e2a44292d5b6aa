package manager_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/clusterlist/manager"
)

func TestClusterRef_Navigation(t *testing.T) {
	_, _, even := builtStack(t, 4)

	centers, err := manager.CenterRefs(even)
	require.NoError(t, err)
	require.Len(t, centers, 4)

	c1 := centers[1]
	assert.Equal(t, 1, c1.Order())
	assert.Equal(t, 1, c1.Front())
	size, err := c1.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size) // atoms 0 and 2

	kids, err := c1.Children()
	require.NoError(t, err)
	require.Len(t, kids, 2)
	assert.Equal(t, []int{1, 0}, kids[0].Atoms())
	assert.Equal(t, []int{1, 2}, kids[1].Atoms())
	assert.Equal(t, 2, kids[1].AtomIndex())
	assert.Equal(t, 1, kids[1].Front())

	key, err := kids[1].Key()
	require.NoError(t, err)
	assert.Equal(t, manager.Key{Order: 2, Layer: 1}, key)

	// the same pair at layer 0 is addressed by the unfiltered index
	idx0, err := kids[1].ClusterIndex(0)
	require.NoError(t, err)
	atoms, err := manager.ClusterAtoms(even.Underlying(), 2, idx0)
	require.NoError(t, err)
	assert.Equal(t, kids[1].Atoms(), atoms)

	_, err = kids[0].Children()
	require.ErrorIs(t, err, manager.ErrOrderMismatch)

	pos, err := kids[1].Position()
	require.NoError(t, err)
	assert.Equal(t, 2.0, pos[0])
	ty, err := kids[1].AtomType()
	require.NoError(t, err)
	assert.Equal(t, 3, ty)
}

func TestForEachCluster(t *testing.T) {
	_, _, even := builtStack(t, 4)

	var seen []int
	err := manager.ForEachCluster(even, 2, func(c manager.ClusterRef) error {
		seen = append(seen, c.Index())
		ref, err := manager.NewClusterRef(even, 2, c.Index())
		require.NoError(t, err)
		assert.Equal(t, ref.Atoms(), c.Atoms())

		return nil
	})
	require.NoError(t, err)
	n, _ := even.NbClusters(2)
	require.Len(t, seen, n)
	for i, idx := range seen {
		assert.Equal(t, i, idx, "depth-first walk visits indices in order")
	}

	stop := errors.New("stop")
	calls := 0
	err = manager.ForEachCluster(even, 1, func(manager.ClusterRef) error {
		calls++

		return stop
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)

	require.ErrorIs(t, manager.ForEachCluster(even, 3, nil), manager.ErrOrderMismatch)
}
