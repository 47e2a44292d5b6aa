// Package clusterlist builds neighbour and cluster lists for atomic
// structures, the way descriptor codes consume them.
//
// What's inside?
//
//   - linalg/        dense 3×3-ish linear algebra: Det, Inverse, Cdist
//   - structure/     positions, species, cell, periodicity, JSON ingestion
//   - manager/       the Manager contract, Stage base, tables, properties, ClusterRef
//   - neighbourlist/ cell-list pair search with periodic ghost atoms
//   - strict/        exact-distance pair filter with distances and directions
//   - maxorder/      one-order-up cluster extension (triplets, quadruplets…)
//   - halflist/      full → half pair-list conversion
//   - filter/        user-selected subsets of the top order
//   - pipeline/      YAML config → manager stack, slog logging, Prometheus metrics
//   - snapshot/      deterministic table encoding, BadgerDB store
//   - cmd/clusterlist cobra CLI: build, inspect, version
//
// Stages wrap one another; each either forwards a cluster order or owns a
// table for it. Update on the outermost stage refreshes the whole chain:
//
//	root := manager.NewCenters(st, nil)
//	nl, _ := neighbourlist.New(root, 3.0, neighbourlist.WithListType(manager.Half))
//	pairs, _ := strict.New(nl, 2.5)
//	triplets, _ := maxorder.New(pairs)
//	_ = triplets.Update(nil)
//
// Managers are single-threaded; share them across goroutines only with
// external synchronisation.
package clusterlist
