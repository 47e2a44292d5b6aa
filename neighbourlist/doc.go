// SPDX-License-Identifier: MIT

// Package neighbourlist is the base pair-list adaptor: it wraps an order-1
// manager and introduces order 2 using periodic ghost atoms and a cell list.
//
// What:
//
//   - Ghosts: periodic images of real atoms, each recorded as (owner, integer
//     image triple, position). Ghost indices start at Size(). Ghosts are never
//     centers; they only appear as neighbours.
//   - Binning: an axis-aligned grid over all real and ghost atoms with bin
//     edges ≥ cutoff+skin, searched with a 27-bin stencil.
//   - Rows: for every order-1 cluster, the atoms within cutoff+skin sorted by
//     index. A half list keeps only indices greater than the center.
//
// Approximations (documented, not bugs):
//
//   - The skin is a binning margin; rows may contain pairs up to cutoff+skin.
//     Stack a strict adaptor for exact distances.
//   - When every axis collapses to a single bin (the cutoff exceeds the box
//     along every axis) the search degrades to all pairs.
//
// Ghost generation:
//
//   - For each periodic axis d with cell height h_d, the real atoms span
//     fractional range [fmin_d, fmax_d]. A ghost is kept iff its fractional
//     coordinate lies in [fmin_d - r/h_d, fmax_d + r/h_d] on every periodic
//     axis, r = cutoff+skin. For wrapped coordinates this needs at most
//     ceil(r/h_d) images per side.
//
// Complexity:
//
//   - Ghosts: O(N · Π(2n_d+1)). Binning: O(N+G). Search: O((N+G) · ρ · r³).
//
// Errors:
//
//   - ErrBadCutoff (manager): cutoff ≤ 0, negative skin, NaN/Inf.
//   - ErrBadStack (manager): the wrapped manager's max order is not 1.
package neighbourlist
