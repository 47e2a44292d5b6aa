// SPDX-License-Identifier: MIT

package neighbourlist

import (
	"log/slog"

	"github.com/katalvlaran/clusterlist/manager"
)

// Defaults for Options.
const (
	// DefaultListType stores both orderings of every pair.
	DefaultListType = manager.Full

	// DefaultSkin adds no binning margin.
	DefaultSkin = 0.0

	// DefaultGhostNeighbours leaves ghost rows empty.
	DefaultGhostNeighbours = false

	// DefaultMaxBins caps the cell-list size; bins only grow to respect it.
	DefaultMaxBins = 1 << 21
)

const panicMaxBinsInvalid = "neighbourlist: WithMaxBins: n must be > 0"

// Option mutates Options.
type Option func(*Options)

// Options is the resolved adaptor configuration.
type Options struct {
	listType        manager.ListType
	skin            float64
	ghostNeighbours bool
	maxBins         int
	logger          *slog.Logger
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		listType:        DefaultListType,
		skin:            DefaultSkin,
		ghostNeighbours: DefaultGhostNeighbours,
		maxBins:         DefaultMaxBins,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithListType selects half or full pair storage.
func WithListType(t manager.ListType) Option {
	return func(o *Options) { o.listType = t }
}

// WithSkin adds a binning margin to the cutoff. Validated by New.
func WithSkin(skin float64) Option {
	return func(o *Options) { o.skin = skin }
}

// WithGhostNeighbours builds neighbour rows for ghost atoms too, which order
// extension needs to close clusters across periodic boundaries.
func WithGhostNeighbours(enabled bool) Option {
	return func(o *Options) { o.ghostNeighbours = enabled }
}

// WithMaxBins caps the number of cells. Panics when n ≤ 0.
func WithMaxBins(n int) Option {
	if n <= 0 {
		panic(panicMaxBinsInvalid)
	}

	return func(o *Options) { o.maxBins = n }
}

// WithLogger sets the adaptor logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}
