// Package render paints a theme's template image with a palette.
//
// # Overview
//
// A theme that ships a base image describes which regions of it are painted
// with palette colors. Rendering happens in two steps:
//
//  1. [Render] creates an opaque black canvas the size of the base image,
//     paints the fill regions and gradients, and composites the base image
//     on top so its transparent areas let the painted colors through.
//  2. [Cut] copies the configured slices out of the canvas. The screenshot
//     slice is resampled to [ScreenshotWidth] x [ScreenshotHeight].
//
// Basic usage:
//
//	tmpl, err := render.LoadTemplate(info.Path(info.BaseImage))
//	canvas, err := render.Render(tmpl, info, pal)
//	slices, err := render.Cut(canvas, info)
//	data, err := render.PNG(slices[0].Image)
//
// # Rectangles
//
// Fill rectangles are [x, y, width, height] and include both edges, so a
// fill of width w covers w+1 columns. Gradients are painted one column
// (horizontal) or one row (vertical) at a time with alpha i/(n-1); each
// channel is truncated to 8 bits, which puts the exact start color in the
// first step and the exact end color in the last.
//
// Slice rectangles are half-open. Parts of a slice outside the canvas are
// opaque black.
package render
