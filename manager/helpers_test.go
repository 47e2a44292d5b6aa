package manager_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/clusterlist/manager"
	"github.com/katalvlaran/clusterlist/structure"
)

// allPairs introduces order 2: every center is paired with every other real atom.
type allPairs struct {
	*manager.Stage
	rebuilds int
}

func newAllPairs(under manager.Manager) *allPairs {
	a := &allPairs{}
	a.Stage = manager.NewStage(a, "allpairs", under, 2)
	a.Introduce(2)

	return a
}

func (a *allPairs) Update(st *structure.Structure) error { return a.Refresh(st, a.rebuild) }

func (a *allPairs) rebuild() error {
	a.rebuilds++
	under := a.Underlying()
	n, err := under.Size()
	if err != nil {
		return err
	}
	nc, err := under.NbClusters(1)
	if err != nil {
		return err
	}
	tb := a.OwnTable(2)
	tb.Reset()
	for c := 0; c < nc; c++ {
		center, err := under.CenterAtom(c)
		if err != nil {
			return err
		}
		row := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != center {
				row = append(row, j)
			}
		}
		tb.AddRow(row...)
	}
	tb.Seal()

	return nil
}

// keepEven re-enumerates order 2, keeping pairs whose neighbour atom is even.
type keepEven struct {
	*manager.Stage
}

func newKeepEven(t *testing.T, under manager.Manager) *keepEven {
	t.Helper()
	k := &keepEven{}
	k.Stage = manager.NewStage(k, "keepeven", under, 2)
	require.NoError(t, k.Reenumerate(2))

	return k
}

func (k *keepEven) Update(st *structure.Structure) error { return k.Refresh(st, k.rebuild) }

func (k *keepEven) rebuild() error {
	src, err := k.Underlying().Table(2)
	if err != nil {
		return err
	}
	tb := k.OwnTable(2)
	tb.Reset()
	var parents []int
	for r := 0; r < src.Len(); r++ {
		row, _ := src.Row(r)
		var kept []int
		for j, a := range row {
			if a%2 == 0 {
				kept = append(kept, a)
				parents = append(parents, src.Offsets[r]+j)
			}
		}
		tb.AddRow(kept...)
	}
	tb.Seal()
	k.SetParents(2, parents)

	return nil
}

func lineStructure(t *testing.T, n int) *structure.Structure {
	t.Helper()
	pos := make([]structure.Vec3, n)
	types := make([]int, n)
	for i := range pos {
		pos[i] = structure.Vec3{float64(i), 0, 0}
		types[i] = i + 1
	}
	st, err := structure.New(pos, types, [3]structure.Vec3{}, [3]bool{})
	require.NoError(t, err)

	return st
}
