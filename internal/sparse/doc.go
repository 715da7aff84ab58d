// Package sparse assembles sparse matrices from coordinate triplets.
//
// A Builder collects (row, col, value) triplets in any order; CSC compresses
// them column-major, summing duplicate coordinates. The resulting *CSC
// satisfies gonum's mat.Matrix, so it can be handed to mat routines
// directly, while MulVec and MulVecT cover the hot paths without densifying.
//
// Complexity: Add O(1) amortized; CSC O(nnz log nnz) worst case;
// At O(log nnz_col); MulVec/MulVecT O(nnz).
package sparse
