package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/clusterlist/pipeline"
	"github.com/katalvlaran/clusterlist/snapshot"
	"github.com/katalvlaran/clusterlist/structure"
)

var errNoStructure = errors.New("--structure is required")

type buildFlags struct {
	structure    string
	config       string
	cutoff       float64
	strict       bool
	strictCutoff float64
	listType     string
	maxOrder     int
	ghosts       bool
	skin         float64
	snapshotDir  string
	metrics      bool
}

func newBuildCmd() *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the cluster lists of a structure",
		Long: `Build loads a structure (JSON: positions, numbers, cell, pbc), stacks the
managers described by the configuration and prints the cluster count of every
order. Flags override the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.structure, "structure", "", "structure JSON file")
	fl.StringVar(&f.config, "config", "", "stack YAML file (defaults apply when empty)")
	fl.Float64Var(&f.cutoff, "cutoff", 0, "neighbour list cutoff")
	fl.BoolVar(&f.strict, "strict", true, "add a strict stage above the pair list")
	fl.Float64Var(&f.strictCutoff, "strict-cutoff", 0, "strict cutoff; 0 uses --cutoff")
	fl.StringVar(&f.listType, "list-type", "", "neighbour list type: full or half")
	fl.IntVar(&f.maxOrder, "max-order", 0, "highest cluster order")
	fl.BoolVar(&f.ghosts, "ghosts", false, "build neighbour rows for ghost atoms")
	fl.Float64Var(&f.skin, "skin", 0, "neighbour list skin")
	fl.StringVar(&f.snapshotDir, "snapshot-dir", "", "store the result in this snapshot directory")
	fl.BoolVar(&f.metrics, "metrics", false, "print Prometheus metrics after the build")

	return cmd
}

// mergeFlags applies the flags the user set on top of cfg.
func mergeFlags(cmd *cobra.Command, f buildFlags, cfg pipeline.Config) pipeline.Config {
	fl := cmd.Flags()
	if fl.Changed("cutoff") {
		cfg.Cutoff = f.cutoff
	}
	if fl.Changed("strict") {
		cfg.Strict = f.strict
	}
	if fl.Changed("strict-cutoff") {
		cfg.StrictCutoff = f.strictCutoff
	}
	if fl.Changed("list-type") {
		cfg.NeighbourListType = f.listType
	}
	if fl.Changed("max-order") {
		cfg.MaxOrder = f.maxOrder
	}
	if fl.Changed("ghosts") {
		cfg.ConsiderGhostNeighbours = f.ghosts
	}
	if fl.Changed("skin") {
		cfg.Skin = f.skin
	}

	return cfg
}

func runBuild(cmd *cobra.Command, f buildFlags) error {
	if f.structure == "" {
		return errNoStructure
	}
	logger, err := newLogger(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg, err := pipeline.LoadConfigOrDefault(f.config)
	if err != nil {
		return err
	}
	cfg = mergeFlags(cmd, f, cfg)
	st, err := structure.LoadFile(f.structure)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	var reg *prometheus.Registry
	if f.metrics {
		reg = prometheus.NewRegistry()
		opts = append(opts, pipeline.WithMetrics(pipeline.NewMetrics(reg)))
	}
	stack, err := pipeline.Build(cfg, opts...)
	if err != nil {
		return err
	}
	if err := stack.Update(st); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	counts, err := stack.Counts()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "structure: %d atoms, fingerprint %016x\n", st.Size(), st.Fingerprint())
	fmt.Fprintf(out, "stack: %s list, cutoff %g, max order %d\n", stack.Top().ListType(), cfg.Cutoff, cfg.MaxOrder)
	fmt.Fprintf(out, "ghosts: %d\n", stack.NeighbourList().Stats().Ghosts)
	for k, n := range counts {
		fmt.Fprintf(out, "order %d: %d clusters\n", k+1, n)
	}

	if f.snapshotDir != "" {
		key, err := storeSnapshot(stack, cfg, f.snapshotDir, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "snapshot: %s\n", key)
	}
	if reg != nil {
		return writeMetrics(out, reg)
	}

	return nil
}

func storeSnapshot(stack *pipeline.Stack, cfg pipeline.Config, dir string, logger *slog.Logger) (snapshot.Key, error) {
	snap, err := snapshot.Capture(stack.Top())
	if err != nil {
		return snapshot.Key{}, err
	}
	raw, err := cfg.Marshal()
	if err != nil {
		return snapshot.Key{}, err
	}
	key := snapshot.NewKey(snap.Fingerprint, raw)

	store, err := snapshot.Open(snapshot.Options{Dir: dir, SyncWrites: true})
	if err != nil {
		return snapshot.Key{}, err
	}
	defer store.Close()
	if err := store.Put(key, snap); err != nil {
		return snapshot.Key{}, err
	}
	logger.Debug("snapshot written", "dir", dir, "key", key.String())

	return key, nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}
