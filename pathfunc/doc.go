// Package pathfunc provides the path-cost strategies driven by the image
// foresting transform (package ift).
//
// Overview:
//
//   - A PathFunction seeds values (Initialize), decides whether a popped
//     node may propagate (RemoveSimple / RemoveLabel), filters neighbours
//     cheaply (Capable) and offers path values to them (Propagate).
//   - Increasing reports the ordering the function needs: true for a
//     maximum-ordered queue, false for a minimum-ordered one.
//   - Node attributes live in a Maps arena (value, label, predecessor)
//     owned by one run; path functions hold a reference to it between
//     Initialize and the end of the run.
//
// Variants:
//
//   - MaxCost: strength-style costs; value(u) - attenuation, strongest first.
//   - OrientedIntern: orientation-aware arc weights with an optional
//     geodesic restriction map; cheapest first; needs a label map.
//   - Watershed: max-arc flooding, either from every regional minimum
//     (sequential labelling) or from labelled markers.
//
// Errors:
//
//   - ErrLabelMapRequired, ErrNilMaps, ErrNilMap: missing maps (configuration).
//   - ErrAlphaRange, ErrBadBucketSize, ErrBadAttenuation, ErrNonFiniteHandicap:
//     parameter ranges.
//   - ErrDimensionMismatch: an auxiliary map disagrees with the value map.
//
// Every error is detected before any map is written.
package pathfunc
