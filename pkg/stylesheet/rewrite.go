// Package stylesheet rewrites the color literals of theme stylesheets.
//
// [Rewrite] walks a stylesheet's hex color literals. A literal equal to a
// color of the default palette is replaced by the same slot's new color.
// Any other literal is treated as a tint of a palette color and moved with
// [color.Shift]; the palette color it is measured against depends on where
// the literal appears: inside an anchor rule it is "link", in a color
// property it is "text", anywhere else "base".
//
// Everything after the [Delimiter] comment is copied verbatim.
package stylesheet

import (
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/matzehuels/recolor/pkg/color"
	"github.com/matzehuels/recolor/pkg/palette"
)

// Delimiter marks the start of a stylesheet section that is never rewritten.
const Delimiter = "Color Module: Don't touch"

// Base slots used to classify colors that are not in the default palette.
const (
	SlotBase = "base"
	SlotLink = "link"
	SlotText = "text"
)

var (
	// hexLiteral matches 6- or 3-digit hex colors, preferring 6 digits.
	hexLiteral = regexp.MustCompile(`(?i)#[0-9a-f]{6}|#[0-9a-f]{3}`)

	// anchorRule matches text ending inside the open block of a rule whose
	// selector contains an "a" element.
	anchorRule = regexp.MustCompile(`(?i)[^a-z0-9_-]a[^a-z0-9_-][^/{]*\{[^{]+$`)

	// urlRef matches url() references, capturing the quote and the path.
	urlRef = regexp.MustCompile(`url\(\s*(['"]?)([^'")]*?)(['"]?)\s*\)`)

	// colorProperty matches text ending in the value of a color property,
	// excluding prefixed properties such as background-color.
	colorProperty = regexp2.MustCompile(`(?<!-)color[^{:]*:[^{#]*$`, regexp2.IgnoreCase)
)

func init() {
	colorProperty.MatchTimeout = time.Second
}

// Options configures a rewrite.
type Options struct {
	// Palette holds the new colors.
	Palette *palette.Palette

	// Default is the theme's stock palette the stylesheet was written for.
	Default *palette.Palette

	// BlendTarget is the color tints are assumed to blend toward.
	BlendTarget string

	// PathMap renames image references after colors are rewritten. Keys are
	// theme-relative paths; a url() reference matches when it resolves to a
	// key from SourceDir, or when it equals a key literally.
	PathMap map[string]string

	// SourceDir is the stylesheet's directory relative to the theme root.
	SourceDir string

	// BaseURL, when set, prefixes relative url() references that are not
	// in PathMap, so the rewritten stylesheet still finds the theme's
	// other assets from its new location.
	BaseURL string
}

// Stats counts what happened to the color literals of a stylesheet.
type Stats struct {
	Exact   int // replaced by the matching slot of the new palette
	Shifted int // extrapolated from a base slot
	Kept    int // left unchanged because no base slot was available
}

// Total returns the number of color literals seen.
func (s Stats) Total() int { return s.Exact + s.Shifted + s.Kept }

// Rewrite recolors css from opts.Default to opts.Palette.
func Rewrite(css string, opts Options) (string, Stats, error) {
	var stats Stats

	style, fixed, hasFixed := strings.Cut(css, Delimiter)

	var out strings.Builder
	out.Grow(len(css))

	last := 0
	for _, loc := range hexLiteral.FindAllStringIndex(style, -1) {
		chunk := style[last:loc[0]]
		out.WriteString(chunk)
		base := Classify(chunk)

		replaced, how, err := recolor(style[loc[0]:loc[1]], base, opts)
		if err != nil {
			return "", stats, err
		}
		switch how {
		case exact:
			stats.Exact++
		case shifted:
			stats.Shifted++
		default:
			stats.Kept++
		}
		out.WriteString(replaced)
		last = loc[1]
	}
	out.WriteString(style[last:])

	if hasFixed {
		out.WriteString(Delimiter)
		out.WriteString(fixed)
	}

	return rewriteURLs(out.String(), opts), stats, nil
}

// Classify returns the base slot for a color that follows chunk.
func Classify(chunk string) string {
	if anchorRule.MatchString(chunk) {
		return SlotLink
	}
	if ok, err := colorProperty.MatchString(chunk); err == nil && ok {
		return SlotText
	}
	return SlotBase
}

type outcome int

const (
	kept outcome = iota
	exact
	shifted
)

func recolor(literal, base string, opts Options) (string, outcome, error) {
	hex, err := color.Normalize(literal)
	if err != nil {
		return "", kept, err
	}

	if slot, ok := opts.Default.Lookup(hex); ok {
		if repl, ok := opts.Palette.Get(slot); ok {
			return repl, exact, nil
		}
	}

	given, ref1, ok := baseColors(base, opts)
	if !ok {
		return literal, kept, nil
	}
	target := opts.BlendTarget
	if target == "" {
		target = "#ffffff"
	}
	s, err := color.Shift(given, ref1, hex, target)
	if err != nil {
		return "", kept, err
	}
	return s, shifted, nil
}

// baseColors returns the new and default colors of base, falling back to
// the base slot when the palettes lack it.
func baseColors(base string, opts Options) (given, ref1 string, ok bool) {
	for _, slot := range []string{base, SlotBase} {
		g, okG := opts.Palette.Get(slot)
		r, okR := opts.Default.Get(slot)
		if okG && okR {
			return g, r, true
		}
	}
	return "", "", false
}

// rewriteURLs renames or rebases the relative url() references of css.
func rewriteURLs(css string, opts Options) string {
	if len(opts.PathMap) == 0 && opts.BaseURL == "" {
		return css
	}
	return urlRef.ReplaceAllStringFunc(css, func(m string) string {
		sub := urlRef.FindStringSubmatch(m)
		ref := sub[2]
		if !isRelative(ref) {
			return m
		}
		resolved := path.Clean(path.Join(opts.SourceDir, ref))
		var repl string
		if name, ok := opts.PathMap[resolved]; ok {
			repl = name
		} else if name, ok := opts.PathMap[ref]; ok {
			repl = name
		} else if opts.BaseURL != "" && !strings.HasPrefix(resolved, "../") {
			repl = strings.TrimSuffix(opts.BaseURL, "/") + "/" + resolved
		} else {
			return m
		}
		return "url(" + sub[1] + repl + sub[1] + ")"
	})
}

// isRelative reports whether ref is a path relative to the stylesheet.
func isRelative(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "#") {
		return false
	}
	if i := strings.IndexByte(ref, ':'); i >= 0 && !strings.ContainsAny(ref[:i], "/?#") {
		return false // scheme such as data: or https:
	}
	return true
}
