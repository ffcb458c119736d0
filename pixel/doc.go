// Package pixel is the pixel-graph accessor consumed by the foresting
// transform: dense sample arrays addressed by linear index, plus the
// adjacency relations that enumerate each node's neighbours.
//
// What:
//
//   - Shape: per-axis extents, linear index ⇄ coordinate arithmetic and
//     bounds checks (axis 0 varies fastest).
//   - Image: float64 samples (handicap, intensity, value maps).
//   - IntMap: int samples (labels, masks, geodesic restriction maps).
//   - Adjacency: offset tables (Ball, Circular, Spherical, FromOffsets);
//     slot 0 is the node itself.
//   - Iterator: allocation-free, fixed-order neighbour enumeration.
//   - FromImage / Decode / Gray / Resize: adapters to image.Image,
//     including TIFF and BMP decoding and bilinear resampling.
//
// Complexity:
//
//   - Index / Coordinates / ValidCoordinate: O(D).
//   - Iterator.Neighbors: O(n·D) for n adjacency slots.
//   - Ball: O((2r+1)^D log((2r+1)^D)), done once per transform.
//
// Errors:
//
//   - ErrEmptyShape, ErrBadDimension: malformed shape.
//   - ErrDimensionMismatch: data length or dimensionality disagreement.
//   - ErrBadRadius: negative or non-finite adjacency radius.
//   - ErrNotPlanar: 2-D only operation on other data.
package pixel
