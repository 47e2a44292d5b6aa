package pipeline

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/clusterlist/manager"
)

// Update outcomes, used as the "result" label.
const (
	ResultRebuilt   = "rebuilt"
	ResultUnchanged = "unchanged"
	ResultError     = "error"
)

// Metrics holds the collectors a Stack reports to. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// updates counts Stack.Update calls by result.
	updates *prometheus.CounterVec

	// duration records Stack.Update latency by result.
	duration *prometheus.HistogramVec

	// clusters tracks the cluster count per order after the last rebuild.
	clusters *prometheus.GaugeVec

	// ghosts tracks the ghost atom count of the last rebuild.
	ghosts prometheus.Gauge

	// errors counts failed updates by error kind.
	errors *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered. Registering twice on one registry panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		updates: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clusterlist",
				Subsystem: "stack",
				Name:      "updates_total",
				Help:      "Total number of stack updates by result",
			},
			[]string{"result"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "clusterlist",
				Subsystem: "stack",
				Name:      "update_duration_seconds",
				Help:      "Duration of stack updates",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 12), // 10µs to ~42s
			},
			[]string{"result"},
		),
		clusters: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "clusterlist",
				Subsystem: "stack",
				Name:      "clusters",
				Help:      "Number of clusters per order after the last rebuild",
			},
			[]string{"order"},
		),
		ghosts: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "clusterlist",
				Subsystem: "stack",
				Name:      "ghost_atoms",
				Help:      "Number of ghost atoms after the last rebuild",
			},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "clusterlist",
				Subsystem: "stack",
				Name:      "update_errors_total",
				Help:      "Total number of failed stack updates by kind",
			},
			[]string{"kind"},
		),
	}
}

func (m *Metrics) observe(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(result).Inc()
	m.duration.WithLabelValues(result).Observe(elapsed.Seconds())
}

func (m *Metrics) setCounts(counts []int, ghosts int) {
	if m == nil {
		return
	}
	for i, n := range counts {
		m.clusters.WithLabelValues(strconv.Itoa(i + 1)).Set(float64(n))
	}
	m.ghosts.Set(float64(ghosts))
}

func (m *Metrics) fail(err error) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(errorKind(err)).Inc()
}

// errorKind maps an update error onto a small label set.
func errorKind(err error) string {
	switch {
	case errors.Is(err, manager.ErrNilStructure):
		return "nil_structure"
	case errors.Is(err, manager.ErrNotBuilt):
		return "not_built"
	case errors.Is(err, manager.ErrBadCutoff), errors.Is(err, manager.ErrStrictCutoff),
		errors.Is(err, manager.ErrBadStack), errors.Is(err, manager.ErrNoPairList):
		return "config"
	case errors.Is(err, manager.ErrAtomIndex), errors.Is(err, manager.ErrClusterIndex):
		return "index"
	default:
		return "other"
	}
}
