// Package gradient estimates per-pixel, per-channel image derivatives.
//
// Two estimators are provided. Sobel applies a fixed derivative kernel with
// border replication and is normalized so that a unit ramp yields exactly 1.
// BoundaryAware separates smooth shading from rasterized silhouettes: it
// takes central differences over interior pixels only, then falls back to a
// doubled full-image difference wherever the interior estimate touches the
// boundary. Rasterized edges are one pixel wide, while a central difference
// spreads their jump over two samples, hence the factor of two.
//
// All estimators return the image gradient (a ramp of slope s yields +s).
// Callers wanting the derivative of intensity with respect to a surface
// displacement use Negated.
package gradient
