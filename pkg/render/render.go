package render

import (
	"image"
	stdcolor "image/color"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/recolor/pkg/color"
	"github.com/matzehuels/recolor/pkg/errors"
	"github.com/matzehuels/recolor/pkg/palette"
	"github.com/matzehuels/recolor/pkg/theme"
)

// Render paints info's fills and gradients with p and composites tmpl over
// the result.
func Render(tmpl image.Image, info *theme.Info, p *palette.Palette) (*image.NRGBA, error) {
	b := tmpl.Bounds()
	if b.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidImage, "base image is empty")
	}

	canvas := imaging.New(b.Dx(), b.Dy(), stdcolor.NRGBA{A: 255})

	for _, f := range info.Fill {
		c, err := slotColor(p, f.Slot)
		if err != nil {
			return nil, err
		}
		fillInclusive(canvas, theme.Rect(f.Rect), c)
	}

	for _, g := range info.Gradients {
		if err := paintGradient(canvas, g, p); err != nil {
			return nil, err
		}
	}

	return imaging.Overlay(canvas, tmpl, image.Pt(0, 0), 1.0), nil
}

// paintGradient draws g one column (horizontal) or one row (vertical) at a
// time, interpolating between the gradient's two palette colors.
func paintGradient(canvas *image.NRGBA, g theme.Gradient, p *palette.Palette) error {
	from, err := slotColor(p, g.Colors[0])
	if err != nil {
		return err
	}
	to, err := slotColor(p, g.Colors[1])
	if err != nil {
		return err
	}

	r := theme.Rect(g.Dimension)
	if g.Direction == theme.Horizontal {
		w := r.Dx()
		for x := 0; x < w; x++ {
			c := Blend(from, to, fraction(x, w))
			fillInclusive(canvas, image.Rect(r.Min.X+x, r.Min.Y, r.Min.X+x+1, r.Max.Y), c)
		}
		return nil
	}

	h := r.Dy()
	for y := 0; y < h; y++ {
		c := Blend(from, to, fraction(y, h))
		fillInclusive(canvas, image.Rect(r.Min.X, r.Min.Y+y, r.Max.X, r.Min.Y+y+1), c)
	}
	return nil
}

// fraction returns i/(n-1), or 0 for single-step gradients.
func fraction(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

// Blend interpolates two 8-bit colors, truncating each channel.
func Blend(a, b stdcolor.NRGBA, alpha float64) stdcolor.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*alpha)
	}
	return stdcolor.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// fillInclusive paints the pixels of r including its right and bottom
// edges, clipped to the canvas.
func fillInclusive(canvas *image.NRGBA, r image.Rectangle, c stdcolor.NRGBA) {
	r = image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Max.Y+1).Intersect(canvas.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			canvas.SetNRGBA(x, y, c)
		}
	}
}

func slotColor(p *palette.Palette, slot string) (stdcolor.NRGBA, error) {
	hex, ok := p.Get(slot)
	if !ok {
		return stdcolor.NRGBA{}, errors.New(errors.ErrCodeInvalidPalette, "palette has no color for slot %q", slot)
	}
	return ToNRGBA(hex)
}

// ToNRGBA converts a hex color to an opaque 8-bit color.
func ToNRGBA(hex string) (stdcolor.NRGBA, error) {
	c, err := color.Parse(hex)
	if err != nil {
		return stdcolor.NRGBA{}, err
	}
	r, g, b := c.Bytes()
	return stdcolor.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
