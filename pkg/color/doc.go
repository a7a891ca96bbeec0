// Package color implements the color arithmetic behind palette recoloring.
//
// Colors travel through the engine as hex strings ("#rrggbb"). This package
// parses and normalizes them, converts between RGB and HSL, blends colors
// linearly and implements [Shift], the operation that carries a color's
// relationship with one palette over to another.
//
// # Shift
//
// Theme stylesheets and images contain many colors that are not in the
// palette itself: lighter tints of the base color, shadows, borders. [Shift]
// assumes such a color (ref2) was produced by blending a palette color (ref1)
// toward a blend target, usually white. It estimates how far the blend went,
// measures any deviation from a pure blend in HSL space and applies the same
// blend plus deviation to the replacement palette color:
//
//	shifted, err := color.Shift("#0072b9", "#1d84c3", "#cce4f2", "#ffffff")
//
// When ref2 is an exact blend of ref1 and the target, the HSL deviation is
// zero and the result is the plain blend of the replacement color.
package color
