package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/recolor/pkg/errors"
)

const lagoonTOML = `
name = "lagoon"
base_image = "color/base.png"
css = ["css/colors.css"]
copy = ["images/logo.png"]

[[fields]]
name = "top"
label = "Header background top"

[[fields]]
name = "bottom"
label = "Header background bottom"

[[fields]]
name = "base"
label = "Main background"

[[fields]]
name = "link"
label = "Link color"

[[fields]]
name = "text"
label = "Text color"

[[schemes]]
name = "default"
label = "Blue Lagoon"
colors = { top = "#055a8e", bottom = "#1d84c3", base = "#ffffff", link = "#0071b3", text = "#3b3b3b" }

[[schemes]]
name = "plum"
label = "Plum"
colors = { top = "#4c1c58", bottom = "#593662", base = "#fffdf7", link = "#9d408d", text = "#301313" }

[[fill]]
slot = "base"
rect = [0, 0, 40, 30]

[[gradients]]
dimension = [0, 0, 40, 10]
direction = "vertical"
colors = ["top", "bottom"]

[[slices]]
file = "images/header.png"
rect = [0, 0, 40, 10]

[[slices]]
file = "screenshot.png"
rect = [0, 0, 40, 30]
`

const lagoonYAML = `
name: lagoon
fields:
  - name: base
    label: Main background
  - name: link
    label: Link color
schemes:
  - name: default
    label: Blue Lagoon
    colors:
      base: "#ffffff"
      link: "#0071b3"
css:
  - css/colors.css
`

const lagoonJSON = `{
  "name": "lagoon",
  "fields": [{"name": "base", "label": "Main background"}],
  "schemes": [{"name": "default", "label": "Default", "colors": {"base": "#abc"}}],
  "blend_target": "#000"
}`

func writeTheme(t *testing.T, name, content string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "lagoon")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadTOML(t *testing.T) {
	dir := writeTheme(t, "theme.toml", lagoonTOML)

	info, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if info.Name != "lagoon" {
		t.Errorf("Name = %q, want lagoon", info.Name)
	}
	if info.Dir != dir {
		t.Errorf("Dir = %q, want %q", info.Dir, dir)
	}
	if got := info.FieldNames(); len(got) != 5 || got[0] != "top" || got[4] != "text" {
		t.Errorf("FieldNames() = %v", got)
	}
	if !info.HasImages() {
		t.Error("HasImages() = false, want true")
	}
	if info.Target() != DefaultBlendTarget {
		t.Errorf("Target() = %q, want %q", info.Target(), DefaultBlendTarget)
	}
	if info.ScreenshotSlice() != DefaultScreenshot {
		t.Errorf("ScreenshotSlice() = %q", info.ScreenshotSlice())
	}
	if info.Gradients[0].Direction != Vertical {
		t.Errorf("gradient direction = %q", info.Gradients[0].Direction)
	}

	def, err := info.DefaultPalette()
	if err != nil {
		t.Fatal(err)
	}
	if hex, _ := def.Get("link"); hex != "#0071b3" {
		t.Errorf("default link = %q", hex)
	}
	if slots := def.Slots(); slots[0] != "top" {
		t.Errorf("default palette should follow field order, got %v", slots)
	}

	schemes, err := info.PaletteSchemes()
	if err != nil {
		t.Fatal(err)
	}
	if len(schemes) != 2 || schemes[1].Name != "plum" {
		t.Errorf("PaletteSchemes() = %+v", schemes)
	}

	if got := info.Path("css/colors.css"); got != filepath.Join(dir, "css", "colors.css") {
		t.Errorf("Path() = %q", got)
	}
}

func TestScheme(t *testing.T) {
	info, err := Load(writeTheme(t, "theme.toml", lagoonTOML))
	if err != nil {
		t.Fatal(err)
	}

	plum, err := info.Scheme("plum")
	if err != nil {
		t.Fatalf("Scheme(plum) error: %v", err)
	}
	if hex, _ := plum.Get("top"); hex != "#4c1c58" {
		t.Errorf("plum top = %q", hex)
	}

	if _, err := info.Scheme("sunset"); !errors.Is(err, errors.ErrCodeInvalidPalette) {
		t.Errorf("Scheme(sunset) error = %v, want %s", err, errors.ErrCodeInvalidPalette)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := writeTheme(t, "theme.yaml", lagoonYAML)

	info, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(info.Fields) != 2 || len(info.CSS) != 1 {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.HasImages() {
		t.Error("HasImages() = true for a CSS-only theme")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := writeTheme(t, "theme.json", lagoonJSON)

	info, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if info.Target() != "#000000" {
		t.Errorf("Target() = %q, want #000000", info.Target())
	}
}

func TestLoadDefaultsNameToDir(t *testing.T) {
	dir := writeTheme(t, "theme.yml", `
fields: [{name: base}]
schemes: [{name: default, colors: {base: "#fff"}}]
`)
	info, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "lagoon" {
		t.Errorf("Name = %q, want lagoon", info.Name)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, errors.ErrCodeThemeNotFound) {
		t.Errorf("Load(empty dir) error = %v, want THEME_NOT_FOUND", err)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		ext  string
		data string
	}{
		{".toml", "name = \"x\"\nbogus = 1\n"},
		{".yaml", "name: x\nbogus: 1\n"},
		{".json", `{"name": "x", "bogus": 1}`},
		{".ini", "name=x"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data), tt.ext); err == nil {
				t.Errorf("Decode(%s) should fail", tt.ext)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Info {
		return &Info{
			Name:      "lagoon",
			Fields:    []Field{{Name: "base"}, {Name: "link"}},
			Schemes:   []SchemeSpec{{Name: "default", Colors: map[string]string{"base": "#fff", "link": "#00f"}}},
			CSS:       []string{"css/colors.css"},
			BaseImage: "color/base.png",
			Fill:      []Fill{{Slot: "base", Rect: []int{0, 0, 10, 10}}},
			Gradients: []Gradient{{Dimension: []int{0, 0, 10, 5}, Colors: []string{"base", "link"}}},
			Slices:    []Slice{{File: "images/a.png", Rect: []int{0, 0, 5, 5}}},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate() on valid info: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Info)
	}{
		{"bad name", func(i *Info) { i.Name = "Bad Name" }},
		{"no fields", func(i *Info) { i.Fields = nil }},
		{"duplicate field", func(i *Info) { i.Fields = append(i.Fields, Field{Name: "base"}) }},
		{"bad field name", func(i *Info) { i.Fields[0].Name = "Base" }},
		{"no schemes", func(i *Info) { i.Schemes = nil }},
		{"scheme missing slot", func(i *Info) { delete(i.Schemes[0].Colors, "link") }},
		{"scheme bad color", func(i *Info) { i.Schemes[0].Colors["base"] = "white" }},
		{"duplicate scheme", func(i *Info) { i.Schemes = append(i.Schemes, i.Schemes[0]) }},
		{"unnamed scheme", func(i *Info) { i.Schemes[0].Name = "" }},
		{"bad blend target", func(i *Info) { i.BlendTarget = "white" }},
		{"css traversal", func(i *Info) { i.CSS = []string{"../x.css"} }},
		{"copy absolute", func(i *Info) { i.Copy = []string{"/etc/passwd"} }},
		{"no base image", func(i *Info) { i.BaseImage = "" }},
		{"fill unknown slot", func(i *Info) { i.Fill[0].Slot = "nope" }},
		{"fill short rect", func(i *Info) { i.Fill[0].Rect = []int{0, 0, 1} }},
		{"gradient negative", func(i *Info) { i.Gradients[0].Dimension = []int{-1, 0, 1, 1} }},
		{"gradient direction", func(i *Info) { i.Gradients[0].Direction = "diagonal" }},
		{"gradient one color", func(i *Info) { i.Gradients[0].Colors = []string{"base"} }},
		{"gradient unknown slot", func(i *Info) { i.Gradients[0].Colors[1] = "nope" }},
		{"slice empty", func(i *Info) { i.Slices[0].Rect = []int{0, 0, 0, 5} }},
		{"slice duplicate", func(i *Info) { i.Slices = append(i.Slices, i.Slices[0]) }},
		{"slice path", func(i *Info) { i.Slices[0].File = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := valid()
			tt.mutate(info)
			err := info.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			code := errors.GetCode(err)
			if code != errors.ErrCodeInvalidTheme && code != errors.ErrCodeInvalidPath {
				t.Errorf("Validate() code = %v", code)
			}
		})
	}
}

func TestRect(t *testing.T) {
	r := Rect([]int{2, 3, 10, 5})
	if r.Min.X != 2 || r.Min.Y != 3 || r.Dx() != 10 || r.Dy() != 5 {
		t.Errorf("Rect() = %v", r)
	}
	if !Rect([]int{1, 2}).Empty() {
		t.Error("Rect() with short input should be empty")
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha"} {
		dir := filepath.Join(root, name)
		os.MkdirAll(dir, 0755)
		os.WriteFile(filepath.Join(dir, "theme.toml"), []byte("name = \""+name+"\""), 0644)
	}
	os.MkdirAll(filepath.Join(root, "plain"), 0755)

	names, err := Discover(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("Discover() = %v, want [alpha zeta]", names)
	}
}
