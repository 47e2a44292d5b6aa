package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/clusterlist/structure"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), err
}

// writeTriangle stores an equilateral triangle of side 1 as JSON.
func writeTriangle(t *testing.T) string {
	t.Helper()
	st, err := structure.New(
		[]structure.Vec3{{0, 0, 0}, {1, 0, 0}, {0.5, math.Sqrt(3) / 2, 0}},
		[]int{1, 1, 8},
		[3]structure.Vec3{},
		[3]bool{},
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "triangle.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, structure.WriteJSON(f, st))

	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "clusterlist dev\n", out)
}

func TestBuild_Counts(t *testing.T) {
	path := writeTriangle(t)
	out, err := execute(t, "build", "--structure", path,
		"--cutoff", "1.5", "--strict-cutoff", "1.2", "--max-order", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "structure: 3 atoms")
	assert.Contains(t, out, "stack: full list, cutoff 1.5, max order 3")
	assert.Contains(t, out, "ghosts: 0")
	assert.Contains(t, out, "order 1: 3 clusters\norder 2: 6 clusters\norder 3: 6 clusters\n")
}

func TestBuild_CutoffOnly(t *testing.T) {
	path := writeTriangle(t)
	out, err := execute(t, "build", "--structure", path, "--cutoff", "1.5")
	require.NoError(t, err)
	assert.Contains(t, out, "order 2: 6 clusters")

	out, err = execute(t, "build", "--structure", path, "--cutoff", "0.5", "--strict=false")
	require.NoError(t, err)
	assert.Contains(t, out, "order 2: 0 clusters")
}

func TestBuild_ConfigFileAndOverride(t *testing.T) {
	path := writeTriangle(t)
	cfgPath := filepath.Join(t.TempDir(), "stack.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"cutoff: 1.5\nstrict: false\nneighbour_list_type: half\nmax_order: 2\n"), 0o600))

	out, err := execute(t, "build", "--structure", path, "--config", cfgPath, "--max-order", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "stack: half list")
	assert.Contains(t, out, "order 2: 3 clusters\norder 3: 1 clusters\n")
}

func TestBuild_Errors(t *testing.T) {
	path := writeTriangle(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no structure", []string{"build"}},
		{"missing file", []string{"build", "--structure", filepath.Join(t.TempDir(), "nope.json")}},
		{"strict above cutoff", []string{"build", "--structure", path, "--cutoff", "1", "--strict-cutoff", "2"}},
		{"bad list type", []string{"build", "--structure", path, "--cutoff", "1.5", "--strict-cutoff", "1", "--list-type", "quarter"}},
		{"bad log level", []string{"build", "--structure", path, "--log-level", "loud"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			require.Error(t, err)
		})
	}
}

func TestBuild_Metrics(t *testing.T) {
	path := writeTriangle(t)
	out, err := execute(t, "build", "--structure", path,
		"--cutoff", "1.5", "--strict-cutoff", "1.2", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, `clusterlist_stack_updates_total{result="rebuilt"} 1`)
	assert.Contains(t, out, `clusterlist_stack_clusters{order="2"} 6`)
}

func TestBuildThenInspect(t *testing.T) {
	path := writeTriangle(t)
	dir := t.TempDir()
	out, err := execute(t, "build", "--structure", path,
		"--cutoff", "1.5", "--strict-cutoff", "1.2", "--max-order", "3", "--snapshot-dir", dir)
	require.NoError(t, err)

	var key string
	for _, line := range strings.Split(out, "\n") {
		if k, ok := strings.CutPrefix(line, "snapshot: "); ok {
			key = k
		}
	}
	require.NotEmpty(t, key)

	listed, err := execute(t, "inspect", "--snapshot-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, key+"\n", listed)

	summary, err := execute(t, "inspect", "--snapshot-dir", dir, "--key", key)
	require.NoError(t, err)
	assert.Contains(t, summary, "stack: full list, cutoff 1.2, max order 3")
	assert.Contains(t, summary, "atoms: 3 real, 0 ghosts")
	assert.Contains(t, summary, "order 3: 6 clusters")

	// rebuilding the same structure and config lands on the same key
	again, err := execute(t, "build", "--structure", path,
		"--cutoff", "1.5", "--strict-cutoff", "1.2", "--max-order", "3", "--snapshot-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, again, "snapshot: "+key)
	listed, err = execute(t, "inspect", "--snapshot-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, key+"\n", listed)

	_, err = execute(t, "inspect", "--snapshot-dir", dir, "--key", "bogus")
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
		_, err := parseLevel(name)
		require.NoError(t, err, name)
	}
	_, err := parseLevel("verbose")
	require.Error(t, err)
}
