// Package jacobian assembles sparse Jacobians of rendered pixel values with
// respect to scene parameters: 2D vertex screen positions, per-vertex colors
// and the background color.
//
// Rows index pixel×channel as p*C + k with p = y*W + x. Every assembler is
// a pure function: it validates its buffers, never mutates them, and returns
// a freshly allocated *sparse.CSC whose duplicate coordinates are summed.
//
// Vertex-position entries are the image derivative weighted by the pixel's
// barycentric coordinates. Moving a surface point by +δ along x shifts the
// content it carries, so the pixel sees the value previously at x-δ and the
// derivative is the negated image gradient.
package jacobian
