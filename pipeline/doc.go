// Package pipeline assembles manager stacks from a configuration.
//
// A Stack is
//
//	centers → neighbourlist → [halflist] → [strict] → maxorder × (MaxOrder-2)
//
// built by Build from a Config (YAML-loadable, see LoadConfig). Stack.Update
// updates the whole chain, logs the per-order cluster counts with slog and
// records Prometheus metrics when a Metrics is attached. Stack.Branch stacks
// a second chain of order extensions on the same pair manager; both chains
// share every stage below the branch point.
package pipeline
