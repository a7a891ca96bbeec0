package color

import (
	"math"
	"regexp"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/recolor/pkg/errors"
)

// hexRegex matches 3- or 6-digit hex colors with a leading '#'.
var hexRegex = regexp.MustCompile(`(?i)^#([0-9a-f]{3}){1,2}$`)

// RGB is a color with channels in [0, 1].
type RGB struct {
	R, G, B float64
}

// HSL is a color in hue/saturation/lightness space, each component in [0, 1].
type HSL struct {
	H, S, L float64
}

// Valid reports whether hex is a 3- or 6-digit hex color such as "#abc" or "#AABBCC".
func Valid(hex string) bool {
	return hexRegex.MatchString(hex)
}

// Normalize lower-cases hex and expands the 3-digit form to 6 digits.
func Normalize(hex string) (string, error) {
	if !Valid(hex) {
		return "", errors.New(errors.ErrCodeInvalidColor, "invalid hex color: %q", hex)
	}
	hex = strings.ToLower(hex)
	if len(hex) == 4 {
		return string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]}), nil
	}
	return hex, nil
}

// MustNormalize is like [Normalize] but panics on invalid input.
// It is intended for package-level constants and tests.
func MustNormalize(hex string) string {
	n, err := Normalize(hex)
	if err != nil {
		panic(err)
	}
	return n
}

// Parse converts a hex color to RGB.
func Parse(hex string) (RGB, error) {
	n, err := Normalize(hex)
	if err != nil {
		return RGB{}, err
	}
	c, err := colorful.Hex(n)
	if err != nil {
		return RGB{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse %q", hex)
	}
	return RGB{R: c.R, G: c.G, B: c.B}, nil
}

// Hex returns the color as a lower-case 6-digit hex string.
// Channels are clamped to [0, 1] and rounded to the nearest 8-bit value.
func (c RGB) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// Bytes returns the channels scaled to 0-255 and truncated, the way a
// palette-based image library allocates a color from float channels.
func (c RGB) Bytes() (r, g, b uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B)
}

func toByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Floor(v*255+1e-9))))
}

// ToHSL converts c to HSL. Hue is scaled from degrees to [0, 1).
// Achromatic colors have hue and saturation 0.
func ToHSL(c RGB) HSL {
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	return HSL{H: h / 360, S: s, L: l}
}

// FromHSL converts c back to RGB.
func FromHSL(c HSL) RGB {
	rgb := colorful.Hsl(c.H*360, c.S, c.L)
	return RGB{R: rgb.R, G: rgb.G, B: rgb.B}
}

// Blend moves a toward b by alpha: a + (b - a) * alpha.
func Blend(a, b RGB, alpha float64) RGB {
	return RGB{
		R: a.R + (b.R-a.R)*alpha,
		G: a.G + (b.G-a.G)*alpha,
		B: a.B + (b.B-a.B)*alpha,
	}
}

func (c RGB) channels() [3]float64 { return [3]float64{c.R, c.G, c.B} }

func (c HSL) components() [3]float64 { return [3]float64{c.H, c.S, c.L} }

func hslFrom(v [3]float64) HSL { return HSL{H: v[0], S: v[1], L: v[2]} }
