package color

import (
	"math"
	"testing"
)

func TestShiftPureBlendHasNoHSLShift(t *testing.T) {
	target := RGB{R: 1, G: 1, B: 1}
	ref1 := RGB{R: 0.2, G: 0.4, B: 0.6}
	given := RGB{R: 0.7, G: 0.1, B: 0.3}

	for _, d := range []float64{0.1, 0.3, 0.5, 0.85} {
		ref2 := Blend(target, ref1, d)

		if got := BlendFraction(ref1, ref2, target); math.Abs(got-d) > 1e-12 {
			t.Errorf("BlendFraction() = %v, want %v", got, d)
		}

		got := ShiftRGB(given, ref1, ref2, target)
		want := Blend(target, given, d)
		if !rgbClose(got, want, 1e-9) {
			t.Errorf("d=%v: ShiftRGB() = %+v, want plain blend %+v", d, got, want)
		}
	}
}

func TestShiftPureBlendHex(t *testing.T) {
	// ref2 is ref1 blended 80% toward white, on exact 8-bit values.
	got, err := Shift("#aa5500", "#37699b", "#d7e1eb", "#ffffff")
	if err != nil {
		t.Fatal(err)
	}
	if got != "#eeddcc" {
		t.Errorf("Shift() = %q, want #eeddcc", got)
	}
}

func TestShiftIdentityWhenRef2IsRef1(t *testing.T) {
	tests := []struct {
		given, ref1, target string
	}{
		{"#123456", "#0072b9", "#ffffff"},
		{"#ff8800", "#ffffff", "#000000"},
		{"#5a5a5a", "#202020", "#ffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.given, func(t *testing.T) {
			got, err := Shift(tt.given, tt.ref1, tt.ref1, tt.target)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.given {
				t.Errorf("Shift(%s, %s, %s, %s) = %s, want %s", tt.given, tt.ref1, tt.ref1, tt.target, got, tt.given)
			}
		})
	}
}

func TestShiftDegenerateTarget(t *testing.T) {
	// target == ref1 == ref2: no distance to measure, delta falls back to 0
	// and every color collapses onto the target.
	got, err := Shift("#123456", "#ffffff", "#ffffff", "#ffffff")
	if err != nil {
		t.Fatal(err)
	}
	if got != "#ffffff" {
		t.Errorf("Shift() = %q, want #ffffff", got)
	}

	if d := BlendFraction(RGB{1, 1, 1}, RGB{0, 0, 0}, RGB{1, 1, 1}); d != 0 {
		t.Errorf("BlendFraction() with zero denominator = %v, want 0", d)
	}
}

func TestShiftCarriesHSLDeviation(t *testing.T) {
	// ref2 is not a blend of ref1 toward white: its hue differs.
	ref1, ref2, target := "#0072b9", "#7a2b9e", "#ffffff"

	got, err := Shift("#0072b9", ref1, ref2, target)
	if err != nil {
		t.Fatal(err)
	}
	if got != ref2 {
		// Shifting the reference color onto itself reproduces ref2 up to rounding.
		want, _ := Parse(ref2)
		gotRGB, _ := Parse(got)
		if !rgbClose(gotRGB, want, 1.5/255) {
			t.Errorf("Shift(ref1) = %s, want close to %s", got, ref2)
		}
	}
}

func TestShiftResultAlwaysValid(t *testing.T) {
	colors := []string{"#000000", "#ffffff", "#ff0000", "#00ff00", "#0000ff", "#abcdef", "#fedcba", "#777"}
	for _, g := range colors {
		for _, r1 := range colors {
			for _, r2 := range colors {
				got, err := Shift(g, r1, r2, "#ffffff")
				if err != nil {
					t.Fatalf("Shift(%s, %s, %s) error: %v", g, r1, r2, err)
				}
				if !Valid(got) || len(got) != 7 {
					t.Fatalf("Shift(%s, %s, %s) = %q, not a 6-digit hex", g, r1, r2, got)
				}
			}
		}
	}
}

func TestShiftInvalidInput(t *testing.T) {
	args := [][4]string{
		{"bad", "#000", "#000", "#fff"},
		{"#000", "bad", "#000", "#fff"},
		{"#000", "#000", "bad", "#fff"},
		{"#000", "#000", "#000", "bad"},
	}
	for _, a := range args {
		if _, err := Shift(a[0], a[1], a[2], a[3]); err == nil {
			t.Errorf("Shift(%v) should fail", a)
		}
	}
}

func rgbClose(a, b RGB, tol float64) bool {
	return math.Abs(a.R-b.R) <= tol && math.Abs(a.G-b.G) <= tol && math.Abs(a.B-b.B) <= tol
}
