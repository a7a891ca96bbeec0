// Package cli implements the recolor command-line interface.
//
// # Commands
//
//   - generate (alias apply): build and activate a recolored bundle for a theme
//   - reset: drop a theme's palette and return to its stock assets
//   - palette: show a theme's color slots and schemes, or pick one interactively
//   - shift: debug the color shift of a single literal
//   - cache: clear, locate or invalidate the bundle cache
//   - serve: run the HTTP API
//
// # Configuration
//
// Settings come from an optional recolor.yaml (or .toml) and RECOLOR_*
// environment variables; see [LoadConfig].
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli
