// Package structure holds the atomic structure a neighbour pipeline is built from.
//
// A Structure is an immutable snapshot of:
//
//   - real atom positions (Cartesian, Å or any consistent unit),
//   - integer atom types (atomic numbers in practice),
//   - the unit cell, one lattice vector per row,
//   - per-axis periodicity flags.
//
// Structures are replaced wholesale on update; there is no partial mutation
// API. Fingerprint lets consumers detect an "unchanged" replacement cheaply.
//
// Cell geometry helpers (Fractional, Cartesian, Heights, Volume) are backed by
// the linalg package and are only available for non-singular cells.
package structure
