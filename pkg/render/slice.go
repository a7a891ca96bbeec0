package render

import (
	"image"
	stdcolor "image/color"
	"path"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/recolor/pkg/errors"
	"github.com/matzehuels/recolor/pkg/theme"
)

// Screenshot dimensions of the theme preview.
const (
	ScreenshotWidth  = 150
	ScreenshotHeight = 90
)

// Slice is an image cut from the rendered canvas.
type Slice struct {
	// File is the slice path from the descriptor.
	File string

	// Name is the file name the slice is written under.
	Name string

	// Image holds the pixels.
	Image *image.NRGBA

	// Screenshot marks the theme preview.
	Screenshot bool
}

// Cut copies every slice of info out of canvas, in descriptor order.
func Cut(canvas *image.NRGBA, info *theme.Info) ([]Slice, error) {
	shot := info.ScreenshotSlice()
	out := make([]Slice, 0, len(info.Slices))
	for _, s := range info.Slices {
		r := theme.Rect(s.Rect)
		if r.Empty() {
			return nil, errors.New(errors.ErrCodeInvalidImage, "slice %q is empty", s.File)
		}
		sl := Slice{File: s.File, Name: path.Base(s.File)}
		if s.File == shot || sl.Name == shot {
			sl.Image = Screenshot(canvas, r)
			sl.Screenshot = true
		} else {
			sl.Image = Crop(canvas, r)
		}
		out = append(out, sl)
	}
	return out, nil
}

// Crop copies r out of canvas. Parts of r outside the canvas are opaque black.
func Crop(canvas image.Image, r image.Rectangle) *image.NRGBA {
	out := imaging.New(r.Dx(), r.Dy(), stdcolor.NRGBA{A: 255})
	inter := r.Intersect(canvas.Bounds())
	if inter.Empty() {
		return out
	}
	return imaging.Paste(out, imaging.Crop(canvas, inter), inter.Min.Sub(r.Min))
}

// Screenshot resamples r of canvas to the preview size.
func Screenshot(canvas image.Image, r image.Rectangle) *image.NRGBA {
	return imaging.Resize(Crop(canvas, r), ScreenshotWidth, ScreenshotHeight, imaging.Linear)
}
