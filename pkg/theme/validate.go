package theme

import (
	"fmt"

	"github.com/matzehuels/recolor/pkg/color"
	"github.com/matzehuels/recolor/pkg/errors"
)

// Validate checks the descriptor for consistency. Every error carries
// [errors.ErrCodeInvalidTheme] or [errors.ErrCodeInvalidPath].
func (i *Info) Validate() error {
	if err := errors.ValidateThemeName(i.Name); err != nil {
		return err
	}
	if len(i.Fields) == 0 {
		return invalid("theme declares no fields")
	}

	fields := make(map[string]bool, len(i.Fields))
	for _, f := range i.Fields {
		if err := errors.ValidateSlotName(f.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTheme, err, "field")
		}
		if fields[f.Name] {
			return invalid("duplicate field %q", f.Name)
		}
		fields[f.Name] = true
	}

	if len(i.Schemes) == 0 {
		return invalid("theme declares no color schemes")
	}
	seen := make(map[string]bool, len(i.Schemes))
	schemes, err := i.PaletteSchemes()
	if err != nil {
		return err
	}
	for _, s := range schemes {
		if s.Name == "" {
			return invalid("scheme without a name")
		}
		if seen[s.Name] {
			return invalid("duplicate scheme %q", s.Name)
		}
		seen[s.Name] = true
		if err := s.Palette.Validate(i.FieldNames()); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTheme, err, "scheme %q", s.Name)
		}
	}

	if i.BlendTarget != "" && !color.Valid(i.BlendTarget) {
		return invalid("invalid blend target %q", i.BlendTarget)
	}

	for _, p := range i.CSS {
		if err := errors.ValidatePath(p); err != nil {
			return err
		}
	}
	for _, p := range i.Copy {
		if err := errors.ValidatePath(p); err != nil {
			return err
		}
	}
	if i.BaseImage != "" {
		if err := errors.ValidatePath(i.BaseImage); err != nil {
			return err
		}
	}

	if (len(i.Fill) > 0 || len(i.Gradients) > 0 || len(i.Slices) > 0) && i.BaseImage == "" {
		return invalid("fill, gradients and slices require base_image")
	}

	for k, f := range i.Fill {
		if !fields[f.Slot] {
			return invalid("fill %d: unknown slot %q", k, f.Slot)
		}
		if err := validateRect(f.Rect); err != nil {
			return invalid("fill %d: %v", k, err)
		}
	}

	for k, g := range i.Gradients {
		if err := validateRect(g.Dimension); err != nil {
			return invalid("gradient %d: %v", k, err)
		}
		switch g.Direction {
		case "", Vertical, Horizontal:
		default:
			return invalid("gradient %d: unknown direction %q", k, g.Direction)
		}
		if len(g.Colors) != 2 {
			return invalid("gradient %d: needs exactly two colors", k)
		}
		for _, slot := range g.Colors {
			if !fields[slot] {
				return invalid("gradient %d: unknown slot %q", k, slot)
			}
		}
	}

	files := make(map[string]bool, len(i.Slices))
	for _, s := range i.Slices {
		if err := errors.ValidatePath(s.File); err != nil {
			return err
		}
		if files[s.File] {
			return invalid("duplicate slice %q", s.File)
		}
		files[s.File] = true
		if err := validateRect(s.Rect); err != nil {
			return invalid("slice %q: %v", s.File, err)
		}
		if s.Rect[2] == 0 || s.Rect[3] == 0 {
			return invalid("slice %q: empty rectangle", s.File)
		}
	}
	return nil
}

func validateRect(r []int) error {
	if len(r) != 4 {
		return fmt.Errorf("rectangle needs 4 values [x, y, w, h], got %d", len(r))
	}
	for _, v := range r {
		if v < 0 {
			return fmt.Errorf("rectangle %v has negative values", r)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidTheme, format, args...)
}
