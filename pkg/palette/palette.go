// Package palette models theme color palettes.
//
// A [Palette] maps semantic slot names ("base", "link", "text", ...) to hex
// colors. Slots keep the order in which the theme declares them: when two
// slots share a color, the first one wins a reverse [Palette.Lookup]. All
// colors are stored normalized (lower-case, 6 digits).
//
// A [Scheme] is a named palette shipped with a theme. The scheme named
// "default" (or the first scheme) is the theme's stock palette.
package palette

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/recolor/pkg/color"
	"github.com/matzehuels/recolor/pkg/errors"
)

// Palette is an ordered mapping from slot name to hex color.
// The zero value is an empty palette ready to use.
type Palette struct {
	slots  []string
	colors map[string]string
}

// New creates an empty palette.
func New() *Palette {
	return &Palette{colors: make(map[string]string)}
}

// FromMap builds a palette from m. Slots listed in order come first, in that
// order; any remaining slots of m follow alphabetically.
func FromMap(order []string, m map[string]string) (*Palette, error) {
	p := New()
	seen := make(map[string]bool, len(m))
	for _, slot := range order {
		hex, ok := m[slot]
		if !ok || seen[slot] {
			continue
		}
		seen[slot] = true
		if err := p.Set(slot, hex); err != nil {
			return nil, err
		}
	}
	rest := make([]string, 0, len(m))
	for slot := range m {
		if !seen[slot] {
			rest = append(rest, slot)
		}
	}
	sort.Strings(rest)
	for _, slot := range rest {
		if err := p.Set(slot, m[slot]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Set assigns hex to slot, appending the slot if it is new.
func (p *Palette) Set(slot, hex string) error {
	if err := errors.ValidateSlotName(slot); err != nil {
		return err
	}
	n, err := color.Normalize(hex)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPalette, err, "slot %q", slot)
	}
	if p.colors == nil {
		p.colors = make(map[string]string)
	}
	if _, ok := p.colors[slot]; !ok {
		p.slots = append(p.slots, slot)
	}
	p.colors[slot] = n
	return nil
}

// Get returns the color of slot.
func (p *Palette) Get(slot string) (string, bool) {
	if p == nil {
		return "", false
	}
	hex, ok := p.colors[slot]
	return hex, ok
}

// Slots returns the slot names in declaration order.
func (p *Palette) Slots() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.slots...)
}

// Len returns the number of slots.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.slots)
}

// Lookup returns the first slot whose color equals hex.
// hex may be in any case and in 3- or 6-digit form.
func (p *Palette) Lookup(hex string) (string, bool) {
	if p == nil {
		return "", false
	}
	n, err := color.Normalize(hex)
	if err != nil {
		return "", false
	}
	for _, slot := range p.slots {
		if p.colors[slot] == n {
			return slot, true
		}
	}
	return "", false
}

// Equal reports whether p and o assign the same colors to the same slots.
// Slot order is ignored.
func (p *Palette) Equal(o *Palette) bool {
	if p.Len() != o.Len() {
		return false
	}
	for _, slot := range p.Slots() {
		a, _ := p.Get(slot)
		b, ok := o.Get(slot)
		if !ok || a != b {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of p.
func (p *Palette) Clone() *Palette {
	c := New()
	if p == nil {
		return c
	}
	c.slots = append(c.slots, p.slots...)
	for k, v := range p.colors {
		c.colors[k] = v
	}
	return c
}

// Merge returns a palette with the slots of defaults, in defaults' order,
// where every slot p defines takes p's color. Slots unknown to defaults are
// dropped.
func (p *Palette) Merge(defaults *Palette) *Palette {
	out := defaults.Clone()
	for _, slot := range out.slots {
		if hex, ok := p.Get(slot); ok {
			out.colors[slot] = hex
		}
	}
	return out
}

// Validate checks that p defines exactly the given fields.
func (p *Palette) Validate(fields []string) error {
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f] = true
		if _, ok := p.Get(f); !ok {
			return errors.New(errors.ErrCodeInvalidPalette, "missing color for slot %q", f)
		}
	}
	for _, slot := range p.Slots() {
		if !known[slot] {
			return errors.New(errors.ErrCodeInvalidPalette, "unknown slot %q", slot)
		}
	}
	return nil
}

// Map returns a copy of the slot/color mapping.
func (p *Palette) Map() map[string]string {
	m := make(map[string]string, p.Len())
	for _, slot := range p.Slots() {
		m[slot], _ = p.Get(slot)
	}
	return m
}

// Fingerprint returns a stable textual form of p, independent of slot order.
func (p *Palette) Fingerprint() string {
	slots := p.Slots()
	sort.Strings(slots)
	parts := make([]string, len(slots))
	for i, slot := range slots {
		hex, _ := p.Get(slot)
		parts[i] = slot + "=" + hex
	}
	return strings.Join(parts, ";")
}

// String implements fmt.Stringer.
func (p *Palette) String() string {
	parts := make([]string, 0, p.Len())
	for _, slot := range p.Slots() {
		hex, _ := p.Get(slot)
		parts = append(parts, slot+":"+hex)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// MarshalJSON encodes p as a JSON object, keeping slot order.
func (p *Palette) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, slot := range p.Slots() {
		if i > 0 {
			buf.WriteByte(',')
		}
		hex, _ := p.Get(slot)
		fmt.Fprintf(&buf, "%q:%q", slot, hex)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into p, keeping key order.
func (p *Palette) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New(errors.ErrCodeInvalidPalette, "palette must be a JSON object")
	}
	*p = Palette{colors: make(map[string]string)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		slot, _ := tok.(string)
		var hex string
		if err := dec.Decode(&hex); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPalette, err, "slot %q", slot)
		}
		if err := p.Set(slot, hex); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
