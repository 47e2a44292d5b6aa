// Package linalg is the small dense linear-algebra kernel behind cell geometry.
//
// What:
//
//   - Dense: row-major float64 matrix with bounds-checked At/Set.
//   - Mul, Transpose, MatVec: deterministic fixed-order kernels.
//   - Det, Inverse: LU with partial pivoting; singular input is an error.
//   - Cdist: pairwise Euclidean distance matrix between two point sets.
//
// Why:
//
//   - Lattice cells are 3×3 matrices; fractional coordinates, cell heights and
//     image translations all reduce to a handful of products and one inverse.
//   - Cdist gives a brute-force reference for neighbour-list tests and a
//     convenience for descriptor code that wants every pairwise distance.
//
// Complexity:
//
//   - At/Set: O(1). Mul: O(n·m·p). Det/Inverse: O(n³). Cdist: O(N·K·d).
//
// Errors:
//
//   - ErrInvalidDimensions: non-positive shape at construction.
//   - ErrOutOfRange:        index outside bounds.
//   - ErrDimensionMismatch: incompatible operand shapes.
//   - ErrNonSquare:         square matrix required.
//   - ErrSingular:          zero pivot during LU.
//   - ErrNaNInf:            non-finite value rejected by Set.
package linalg
