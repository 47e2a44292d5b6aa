// SPDX-License-Identifier: MIT

// Package manager defines the cluster-manager contract shared by every stage
// of a neighbour pipeline, plus the bookkeeping those stages have in common.
//
// A pipeline is a chain of managers. The root (Centers) exposes the real atoms
// of a structure as order-1 clusters; every adaptor wraps one manager and
// either introduces a new cluster order, re-enumerates an existing one, or
// passes it through unchanged.
//
// Cluster identity:
//
//   - An order-1 cluster index addresses the centers list (CenterAtom).
//   - An order-k cluster index (k ≥ 2) addresses the flattened Neighbours of
//     Table(k), whose rows are the order-(k-1) clusters.
//   - Every order carries a runtime layer. Re-enumerating order k sets
//     layer(k) = under.layer(k)+1, introducing it sets layer(k) = 0, and
//     passing it through keeps the wrapped layer. ParentIndex maps an index
//     one layer down; ResolveIndex and IndexIn walk the whole chain.
//
// Properties:
//
//   - Property[T] is bound to (owner, order, layer, name). Access through a
//     ClusterRef resolves the ref's index down to the owner; a ref from an
//     unrelated chain fails with ErrLayerMismatch, a wrong order with
//     ErrOrderMismatch.
//   - Properties are emptied whenever their owner rebuilds.
//
// Updates:
//
//   - Update(st) on the top manager updates the wrapped manager first. A stage
//     rebuilds when it has never been built or when the wrapped manager's
//     Version moved since its last rebuild, so several chains may share one
//     wrapped manager. Update(nil) means "structure unchanged".
//   - Every query before the first successful build fails with ErrNotBuilt.
//
// Managers are not safe for concurrent use.
package manager
