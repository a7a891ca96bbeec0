package theme

import (
	"image"
	"path/filepath"

	"github.com/matzehuels/recolor/pkg/color"
	"github.com/matzehuels/recolor/pkg/errors"
	"github.com/matzehuels/recolor/pkg/palette"
)

const (
	// DefaultBlendTarget is the color tints are assumed to blend toward.
	DefaultBlendTarget = "#ffffff"

	// DefaultScreenshot is the slice resampled into the theme preview.
	DefaultScreenshot = "screenshot.png"

	// Gradient directions.
	Vertical   = "vertical"
	Horizontal = "horizontal"
)

// Field is a palette slot declared by the theme.
type Field struct {
	Name  string `toml:"name" yaml:"name" json:"name"`
	Label string `toml:"label" yaml:"label" json:"label"`
}

// SchemeSpec is a scheme as written in the descriptor.
type SchemeSpec struct {
	Name   string            `toml:"name" yaml:"name" json:"name"`
	Label  string            `toml:"label" yaml:"label" json:"label"`
	Colors map[string]string `toml:"colors" yaml:"colors" json:"colors"`
}

// Fill paints a rectangle of the canvas with a palette color.
type Fill struct {
	Slot string `toml:"slot" yaml:"slot" json:"slot"`
	Rect []int  `toml:"rect" yaml:"rect" json:"rect"`
}

// Gradient paints a linear gradient between two palette colors.
type Gradient struct {
	Dimension []int    `toml:"dimension" yaml:"dimension" json:"dimension"`
	Direction string   `toml:"direction" yaml:"direction" json:"direction"`
	Colors    []string `toml:"colors" yaml:"colors" json:"colors"`
}

// Slice is a region of the rendered template saved as its own image.
type Slice struct {
	File string `toml:"file" yaml:"file" json:"file"`
	Rect []int  `toml:"rect" yaml:"rect" json:"rect"`
}

// Info is a theme info descriptor.
type Info struct {
	Name        string       `toml:"name" yaml:"name" json:"name"`
	Fields      []Field      `toml:"fields" yaml:"fields" json:"fields"`
	Schemes     []SchemeSpec `toml:"schemes" yaml:"schemes" json:"schemes"`
	CSS         []string     `toml:"css" yaml:"css" json:"css"`
	Copy        []string     `toml:"copy" yaml:"copy" json:"copy"`
	BaseImage   string       `toml:"base_image" yaml:"base_image" json:"base_image"`
	BlendTarget string       `toml:"blend_target" yaml:"blend_target" json:"blend_target"`
	Fill        []Fill       `toml:"fill" yaml:"fill" json:"fill"`
	Gradients   []Gradient   `toml:"gradients" yaml:"gradients" json:"gradients"`
	Slices      []Slice      `toml:"slices" yaml:"slices" json:"slices"`
	Screenshot  string       `toml:"screenshot" yaml:"screenshot" json:"screenshot"`

	// Dir is the theme directory the descriptor was loaded from.
	Dir string `toml:"-" yaml:"-" json:"-"`
}

// Rect converts an [x, y, w, h] quadruple to an image.Rectangle.
// The rectangle spans w by h pixels starting at (x, y).
func Rect(r []int) image.Rectangle {
	if len(r) != 4 {
		return image.Rectangle{}
	}
	return image.Rect(r[0], r[1], r[0]+r[2], r[1]+r[3])
}

// FieldNames returns the slot names in declaration order.
func (i *Info) FieldNames() []string {
	names := make([]string, len(i.Fields))
	for k, f := range i.Fields {
		names[k] = f.Name
	}
	return names
}

// PaletteSchemes converts the descriptor's schemes to palettes.
func (i *Info) PaletteSchemes() ([]palette.Scheme, error) {
	order := i.FieldNames()
	out := make([]palette.Scheme, 0, len(i.Schemes))
	for _, s := range i.Schemes {
		p, err := palette.FromMap(order, s.Colors)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "scheme %q", s.Name)
		}
		out = append(out, palette.Scheme{Name: s.Name, Label: s.Label, Palette: p})
	}
	return out, nil
}

// DefaultPalette returns the stock palette of the theme.
func (i *Info) DefaultPalette() (*palette.Palette, error) {
	schemes, err := i.PaletteSchemes()
	if err != nil {
		return nil, err
	}
	s, ok := palette.Default(schemes)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidTheme, "theme %q declares no color schemes", i.Name)
	}
	return s.Palette, nil
}

// Scheme returns the palette of the scheme called name. Unknown names
// report [errors.ErrCodeInvalidPalette].
func (i *Info) Scheme(name string) (*palette.Palette, error) {
	schemes, err := i.PaletteSchemes()
	if err != nil {
		return nil, err
	}
	s, ok := palette.Find(schemes, name)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "theme %q has no scheme %q", i.Name, name)
	}
	return s.Palette, nil
}

// Target returns the blend target, falling back to [DefaultBlendTarget].
func (i *Info) Target() string {
	n, err := color.Normalize(i.BlendTarget)
	if err != nil {
		return DefaultBlendTarget
	}
	return n
}

// ScreenshotSlice returns the name of the slice used as preview screenshot.
func (i *Info) ScreenshotSlice() string {
	if i.Screenshot == "" {
		return DefaultScreenshot
	}
	return i.Screenshot
}

// HasImages reports whether the theme renders a template image.
func (i *Info) HasImages() bool {
	return i.BaseImage != "" && len(i.Slices) > 0
}

// Path resolves a descriptor path against the theme directory.
func (i *Info) Path(rel string) string {
	return filepath.Join(i.Dir, filepath.FromSlash(rel))
}
