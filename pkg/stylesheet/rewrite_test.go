package stylesheet

import (
	"strings"
	"testing"

	"github.com/matzehuels/recolor/pkg/color"
	"github.com/matzehuels/recolor/pkg/palette"
)

func newPalette(t *testing.T, kv ...string) *palette.Palette {
	t.Helper()
	p := palette.New()
	for i := 0; i+1 < len(kv); i += 2 {
		if err := p.Set(kv[i], kv[i+1]); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func testOptions(t *testing.T) Options {
	return Options{
		Default: newPalette(t,
			"top", "#aabbcc",
			"base", "#0072b9",
			"link", "#027ac6",
			"text", "#494949",
		),
		Palette: newPalette(t,
			"top", "#112233",
			"base", "#9d408d",
			"link", "#e8503a",
			"text", "#301313",
		),
		BlendTarget: "#ffffff",
	}
}

func mustShift(t *testing.T, given, ref1, ref2 string) string {
	t.Helper()
	s, err := color.Shift(given, ref1, ref2, "#ffffff")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRewriteExactMatch(t *testing.T) {
	opts := testOptions(t)

	tests := []struct {
		name string
		css  string
		want string
	}{
		{"six digit", "body { background: #0072b9; }", "body { background: #9d408d; }"},
		{"upper case", "body { background: #0072B9; }", "body { background: #9d408d; }"},
		{"three digit", "h1 { background: #ABC; }", "h1 { background: #112233; }"},
		{"in color property", "p { color: #494949; }", "p { color: #301313; }"},
		{"in anchor rule", "\na:hover { color: #027ac6; }", "\na:hover { color: #e8503a; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats, err := Rewrite(tt.css, opts)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Rewrite() = %q, want %q", got, tt.want)
			}
			if stats.Exact != 1 || stats.Total() != 1 {
				t.Errorf("stats = %+v, want one exact replacement", stats)
			}
		})
	}
}

func TestRewriteShiftsByContext(t *testing.T) {
	opts := testOptions(t)

	tests := []struct {
		name string
		css  string
		slot string
	}{
		{"base", "div { border: 1px solid ", SlotBase},
		{"background-color stays base", "div { background-color: ", SlotBase},
		{"text", "p { color: ", SlotText},
		{"link", "\nul a:hover { border-bottom: 1px solid ", SlotLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats, err := Rewrite(tt.css+"#cce4f2; }", opts)
			if err != nil {
				t.Fatal(err)
			}
			given, _ := opts.Palette.Get(tt.slot)
			ref1, _ := opts.Default.Get(tt.slot)
			want := tt.css + mustShift(t, given, ref1, "#cce4f2") + "; }"
			if got != want {
				t.Errorf("Rewrite() = %q, want %q", got, want)
			}
			if stats.Shifted != 1 {
				t.Errorf("stats = %+v, want one shifted color", stats)
			}
		})
	}
}

func TestRewriteDontTouchSection(t *testing.T) {
	opts := testOptions(t)
	css := "body { background: #0072b9; }\n/* " + Delimiter + " */\n.fixed { background: #0072b9; color: #123456; }\n"

	got, stats, err := Rewrite(css, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := "body { background: #9d408d; }\n/* " + Delimiter + " */\n.fixed { background: #0072b9; color: #123456; }\n"
	if got != want {
		t.Errorf("Rewrite() = %q, want %q", got, want)
	}
	if stats.Total() != 1 {
		t.Errorf("stats = %+v, want only one color touched", stats)
	}
}

func TestRewritePrefersSixDigits(t *testing.T) {
	opts := testOptions(t)

	got, _, err := Rewrite("x { background: #0072b90; }", opts)
	if err != nil {
		t.Fatal(err)
	}
	if got != "x { background: #9d408d0; }" {
		t.Errorf("Rewrite() = %q", got)
	}
}

func TestRewriteKeepsWithoutBaseSlot(t *testing.T) {
	opts := Options{
		Default: newPalette(t, "top", "#aabbcc"),
		Palette: newPalette(t, "top", "#112233"),
	}

	got, stats, err := Rewrite("div { color: #CCE4F2; background: #abc; }", opts)
	if err != nil {
		t.Fatal(err)
	}
	if got != "div { color: #CCE4F2; background: #112233; }" {
		t.Errorf("Rewrite() = %q", got)
	}
	if stats.Kept != 1 || stats.Exact != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRewriteFallsBackToBase(t *testing.T) {
	opts := Options{
		Default: newPalette(t, "base", "#0072b9"),
		Palette: newPalette(t, "base", "#9d408d"),
	}

	got, _, err := Rewrite("p { color: #cce4f2; }", opts)
	if err != nil {
		t.Fatal(err)
	}
	want := "p { color: " + mustShift(t, "#9d408d", "#0072b9", "#cce4f2") + "; }"
	if got != want {
		t.Errorf("Rewrite() = %q, want %q", got, want)
	}
}

func TestRewriteIdentityPalette(t *testing.T) {
	opts := testOptions(t)
	opts.Palette = opts.Default.Clone()

	css := "a:hover { color: #027ac6; }\ndiv { border: 1px solid #CCE4F2; }"
	got, _, err := Rewrite(css, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := "a:hover { color: #027ac6; }\ndiv { border: 1px solid #cce4f2; }"
	if got != want {
		t.Errorf("Rewrite() with unchanged palette = %q, want %q", got, want)
	}
}

func TestRewritePaths(t *testing.T) {
	opts := testOptions(t)
	opts.PathMap = map[string]string{
		"../images/header.png": "header.png",
		"images/header.png":    "header.png",
		"logo.png":             "logo-1.png",
	}

	css := ".h { background: url(../images/header.png); }\n.l { background: url(logo.png); }"
	got, _, err := Rewrite(css, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := ".h { background: url(header.png); }\n.l { background: url(logo-1.png); }"
	if got != want {
		t.Errorf("Rewrite() = %q, want %q", got, want)
	}
}

func TestRewriteResolvesAgainstSourceDir(t *testing.T) {
	opts := testOptions(t)
	opts.SourceDir = "css"
	opts.BaseURL = "/themes/lagoon/"
	opts.PathMap = map[string]string{
		"images/header.png": "header.png",
	}

	tests := []struct {
		name string
		css  string
		want string
	}{
		{"mapped", `.h { background: url("../images/header.png"); }`, `.h { background: url("header.png"); }`},
		{"rebased", `.b { background: url('../images/bullet.gif'); }`, `.b { background: url('/themes/lagoon/images/bullet.gif'); }`},
		{"same dir", `.f { src: url(fonts/a.woff); }`, `.f { src: url(/themes/lagoon/css/fonts/a.woff); }`},
		{"absolute", `.a { background: url(/misc/a.png); }`, `.a { background: url(/misc/a.png); }`},
		{"remote", `.r { background: url(https://cdn.example.org/a.png); }`, `.r { background: url(https://cdn.example.org/a.png); }`},
		{"data uri", `.d { background: url(data:image/png;base64,AAAA); }`, `.d { background: url(data:image/png;base64,AAAA); }`},
		{"outside theme", `.o { background: url(../../x.png); }`, `.o { background: url(../../x.png); }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Rewrite(tt.css, opts)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Rewrite() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewriteNoColors(t *testing.T) {
	css := strings.Repeat("div { margin: 0; }\n", 10)
	got, stats, err := Rewrite(css, testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	if got != css || stats.Total() != 0 {
		t.Errorf("Rewrite() changed a stylesheet without colors")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		chunk string
		want  string
	}{
		{"body { background: ", SlotBase},
		{"p { color: ", SlotText},
		{"p { COLOR : ", SlotText},
		{"p { border-color: ", SlotBase},
		{"div { background-color: ", SlotBase},
		{"}\na { text-decoration: none; border: 1px solid ", SlotLink},
		{" a.active { color: ", SlotLink},
		{"\n.nav a:focus, .nav a:hover { color: ", SlotLink},
		{"\nfooter a { }\n.x { background: ", SlotBase},
		{"a { color: ", SlotText},
		{"", SlotBase},
	}

	for _, tt := range tests {
		t.Run(tt.chunk, func(t *testing.T) {
			if got := Classify(tt.chunk); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.chunk, got, tt.want)
			}
		})
	}
}
