package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/clusterlist/halflist"
	"github.com/katalvlaran/clusterlist/manager"
	"github.com/katalvlaran/clusterlist/maxorder"
	"github.com/katalvlaran/clusterlist/neighbourlist"
	"github.com/katalvlaran/clusterlist/strict"
	"github.com/katalvlaran/clusterlist/structure"
)

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	logger    *slog.Logger
	metrics   *Metrics
	structure *structure.Structure
}

// WithLogger sets the logger of every stage; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics attaches collectors to the stack.
func WithMetrics(m *Metrics) Option {
	return func(o *buildOptions) { o.metrics = m }
}

// WithStructure hands the root an initial structure, so the first Update
// may pass nil.
func WithStructure(st *structure.Structure) Option {
	return func(o *buildOptions) { o.structure = st }
}

// Stack is a built manager chain.
type Stack struct {
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics

	root   *manager.Centers
	nl     *neighbourlist.Adaptor
	half   *halflist.Adaptor
	strict *strict.Adaptor
	pairs  manager.Manager // top of the pair part of the chain
	top    manager.Manager
	stages []manager.Manager // root first
}

// Build validates cfg and stacks
// centers → neighbourlist → [halflist] → [strict] → maxorder × (MaxOrder-2).
// Nothing is computed until the first Update.
func Build(cfg Config, opts ...Option) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, pipelineErrorf("Build", err)
	}
	o := buildOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	lt, _ := cfg.ListType()

	s := &Stack{cfg: cfg, logger: o.logger, metrics: o.metrics}
	s.root = manager.NewCenters(o.structure, o.logger)
	s.stages = append(s.stages, s.root)

	nlType := lt
	if lt == manager.Half && cfg.HalfViaConversion {
		nlType = manager.Full
	}
	nl, err := neighbourlist.New(s.root, cfg.Cutoff,
		neighbourlist.WithListType(nlType),
		neighbourlist.WithSkin(cfg.Skin),
		neighbourlist.WithGhostNeighbours(cfg.ConsiderGhostNeighbours),
		neighbourlist.WithMaxBins(cfg.MaxBins),
		neighbourlist.WithLogger(o.logger),
	)
	if err != nil {
		return nil, pipelineErrorf("Build", err)
	}
	s.nl = nl
	s.push(nl)

	if nlType != lt {
		h, err := halflist.New(s.top)
		if err != nil {
			return nil, pipelineErrorf("Build", err)
		}
		h.SetLogger(o.logger)
		s.half = h
		s.push(h)
	}

	if cfg.Strict {
		sa, err := strict.New(s.top, cfg.EffectiveStrictCutoff(),
			strict.WithDirections(cfg.Directions),
			strict.WithLogger(o.logger),
		)
		if err != nil {
			return nil, pipelineErrorf("Build", err)
		}
		s.strict = sa
		s.push(sa)
	}
	s.pairs = s.top

	if err := s.extend(cfg.MaxOrder); err != nil {
		return nil, pipelineErrorf("Build", err)
	}

	return s, nil
}

func (s *Stack) push(m manager.Manager) {
	s.stages = append(s.stages, m)
	s.top = m
}

// extend stacks order extensions on the current top until maxOrder.
func (s *Stack) extend(maxOrder int) error {
	for s.top.MaxOrder() < maxOrder {
		m, err := maxorder.New(s.top, maxorder.WithLogger(s.logger))
		if err != nil {
			return err
		}
		s.push(m)
	}

	return nil
}

// Config returns the configuration the stack was built from.
func (s *Stack) Config() Config { return s.cfg }

// Root returns the order-1 root manager.
func (s *Stack) Root() *manager.Centers { return s.root }

// NeighbourList returns the base pair-list stage.
func (s *Stack) NeighbourList() *neighbourlist.Adaptor { return s.nl }

// Strict returns the strict stage, or nil when none was configured.
func (s *Stack) Strict() *strict.Adaptor { return s.strict }

// Pairs returns the topmost manager of max order 2.
func (s *Stack) Pairs() manager.Manager { return s.pairs }

// Top returns the outermost manager.
func (s *Stack) Top() manager.Manager { return s.top }

// Stages returns the chain, root first.
func (s *Stack) Stages() []manager.Manager { return append([]manager.Manager(nil), s.stages...) }

// Update updates the whole chain from the top. A nil st re-uses the current
// structure.
func (s *Stack) Update(st *structure.Structure) error {
	start := time.Now()
	prev := s.top.Version()
	if err := s.top.Update(st); err != nil {
		s.metrics.observe(ResultError, time.Since(start))
		s.metrics.fail(err)
		s.logger.Error("stack update failed", "err", err)

		return pipelineErrorf("Update", err)
	}
	elapsed := time.Since(start)
	if s.top.Version() == prev {
		s.metrics.observe(ResultUnchanged, elapsed)
		s.logger.Debug("stack unchanged", "top", s.top.Name())

		return nil
	}

	counts, err := s.Counts()
	if err != nil {
		return pipelineErrorf("Update", err)
	}
	ghosts := s.nl.Stats().Ghosts
	s.metrics.observe(ResultRebuilt, elapsed)
	s.metrics.setCounts(counts, ghosts)
	s.logger.Info("stack updated",
		"top", s.top.Name(),
		"clusters", counts,
		"ghosts", ghosts,
		"elapsed", elapsed,
	)

	return nil
}

// Counts returns NbClusters for orders 1…MaxOrder of the top.
func (s *Stack) Counts() ([]int, error) {
	counts := make([]int, s.top.MaxOrder())
	for i := range counts {
		n, err := s.top.NbClusters(i + 1)
		if err != nil {
			return nil, err
		}
		counts[i] = n
	}

	return counts, nil
}

// Branch stacks a second chain of order extensions up to maxOrder on the
// pair manager of s. The branch shares every stage up to Pairs() with s; an
// update of either chain keeps the shared stages current for both.
func (s *Stack) Branch(maxOrder int) (*Stack, error) {
	if maxOrder < 2 {
		return nil, fmt.Errorf("pipeline.Branch: max order %d: %w", maxOrder, ErrBranch)
	}
	b := &Stack{
		cfg:     s.cfg,
		logger:  s.logger,
		metrics: s.metrics,
		root:    s.root,
		nl:      s.nl,
		half:    s.half,
		strict:  s.strict,
		pairs:   s.pairs,
		top:     s.pairs,
	}
	for _, m := range s.stages {
		b.stages = append(b.stages, m)
		if m == s.pairs {
			break
		}
	}
	b.cfg.MaxOrder = maxOrder
	if err := b.extend(maxOrder); err != nil {
		return nil, pipelineErrorf("Branch", err)
	}

	return b, nil
}
