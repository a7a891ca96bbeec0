package palette

// DefaultScheme is the name of the scheme that holds a theme's stock palette.
const DefaultScheme = "default"

// Scheme is a named palette bundled with a theme.
type Scheme struct {
	Name    string
	Label   string
	Palette *Palette
}

// Default returns the scheme named [DefaultScheme], or the first scheme when
// none has that name.
func Default(schemes []Scheme) (Scheme, bool) {
	for _, s := range schemes {
		if s.Name == DefaultScheme {
			return s, true
		}
	}
	if len(schemes) > 0 {
		return schemes[0], true
	}
	return Scheme{}, false
}

// Find returns the scheme with the given name.
func Find(schemes []Scheme, name string) (Scheme, bool) {
	for _, s := range schemes {
		if s.Name == name {
			return s, true
		}
	}
	return Scheme{}, false
}

// Match returns the name of the first scheme whose palette equals p, or ""
// when p is a custom palette.
func Match(schemes []Scheme, p *Palette) string {
	for _, s := range schemes {
		if s.Palette.Equal(p) {
			return s.Name
		}
	}
	return ""
}
