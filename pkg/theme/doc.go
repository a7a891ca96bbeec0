// Package theme loads and validates theme info descriptors.
//
// A descriptor sits at the root of a theme directory as theme.toml,
// theme.yaml, theme.yml or theme.json. It names the palette slots, the
// bundled color schemes and everything the recoloring engine touches:
//
//	name = "lagoon"
//	base_image = "color/base.png"
//	css = ["css/colors.css"]
//	copy = ["images/logo.png"]
//
//	[[fields]]
//	name = "base"
//	label = "Main background"
//
//	[[schemes]]
//	name = "default"
//	label = "Blue Lagoon"
//	colors = { base = "#0072b9" }
//
//	[[gradients]]
//	dimension = [0, 0, 760, 38]
//	direction = "vertical"
//	colors = ["top", "bottom"]
//
//	[[slices]]
//	file = "images/header.png"
//	rect = [0, 0, 760, 38]
//
// All paths are relative to the theme directory.
package theme
