// Package buffer defines the per-pixel grids exchanged between a rasterizer
// and the Jacobian assemblers: the rendered Image, the Visibility buffer,
// the Barycentric buffer, the boundary Mask and derivative Fields.
//
// Every grid is stored as a flat row-major slice; pixel (x, y) has flat index
// p = y*W + x. Images are always three-dimensional (H, W, C) so that grayscale
// and color inputs take the same code path.
package buffer
