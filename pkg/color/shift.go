package color

import "math"

// Shift maps ref2, a color derived from palette color ref1, to the matching
// color derived from given.
//
// ref2 is assumed to be ref1 blended toward target. The blend fraction is
// estimated from the distance between the colors, the part of ref2 a pure
// blend cannot explain is measured in HSL space, and both are applied to
// given. All four arguments are hex colors; the result is a 6-digit hex color.
func Shift(given, ref1, ref2, target string) (string, error) {
	g, err := Parse(given)
	if err != nil {
		return "", err
	}
	r1, err := Parse(ref1)
	if err != nil {
		return "", err
	}
	r2, err := Parse(ref2)
	if err != nil {
		return "", err
	}
	t, err := Parse(target)
	if err != nil {
		return "", err
	}
	return ShiftRGB(g, r1, r2, t).Hex(), nil
}

// ShiftRGB is [Shift] on RGB values, without hex rounding.
func ShiftRGB(given, ref1, ref2, target RGB) RGB {
	delta := BlendFraction(ref1, ref2, target)

	// ref3 is what ref2 would be if it were a pure blend.
	ref3 := Blend(target, ref1, delta)

	h2 := ToHSL(ref2).components()
	h3 := ToHSL(ref3).components()
	var shift [3]float64
	for i := range shift {
		shift[i] = h2[i] - h3[i]
	}

	result := ToHSL(Blend(target, given, delta)).components()
	for i := range result {
		result[i] = clamp01(result[i] + shift[i])
	}
	return FromHSL(hslFrom(result))
}

// BlendFraction estimates how much of ref1 survives in ref2 when ref2 is ref1
// blended toward target: 1 - |ref2 - ref1| / |target - ref1|.
// It returns 0 when target equals ref1.
func BlendFraction(ref1, ref2, target RGB) float64 {
	a, b, t := ref1.channels(), ref2.channels(), target.channels()
	var num, den float64
	for i := 0; i < 3; i++ {
		num += (b[i] - a[i]) * (b[i] - a[i])
		den += (t[i] - a[i]) * (t[i] - a[i])
	}
	if den <= 0 {
		return 0
	}
	return 1 - math.Sqrt(num/den)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
