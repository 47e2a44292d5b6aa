package pipeline_test

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/katalvlaran/clusterlist/pipeline"
	"github.com/katalvlaran/clusterlist/structure"
)

// ExampleBuild stacks a half list with triplets over an equilateral triangle.
func ExampleBuild() {
	st, _ := structure.New(
		[]structure.Vec3{{0, 0, 0}, {1, 0, 0}, {0.5, math.Sqrt(3) / 2, 0}},
		[]int{1, 1, 1},
		[3]structure.Vec3{},
		[3]bool{},
	)

	cfg := pipeline.DefaultConfig()
	cfg.Cutoff, cfg.StrictCutoff = 1.5, 1.5
	cfg.NeighbourListType = "half"
	cfg.MaxOrder = 3

	stack, err := pipeline.Build(cfg, pipeline.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := stack.Update(st); err != nil {
		fmt.Println(err)
		return
	}
	counts, _ := stack.Counts()
	names := make([]string, 0, len(stack.Stages()))
	for _, m := range stack.Stages() {
		names = append(names, m.Name())
	}
	fmt.Println(strings.Join(names, " → "))
	fmt.Println(counts)
	// Output:
	// centers → neighbourlist → strict → maxorder
	// [3 3 1]
}
