package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/recolor/pkg/bundle"
	"github.com/matzehuels/recolor/pkg/cache"
	"github.com/matzehuels/recolor/pkg/errors"
	"github.com/matzehuels/recolor/pkg/palette"
	"github.com/matzehuels/recolor/pkg/store"
	"github.com/matzehuels/recolor/pkg/theme"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// bundleNameRegex matches bundle directory names: <theme>-<8 hex digits>.
var bundleNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{0,127}-[0-9a-f]{8}$`)

// SchemeResponse describes one of a theme's predefined schemes.
type SchemeResponse struct {
	Name    string           `json:"name"`
	Label   string           `json:"label,omitempty"`
	Palette *palette.Palette `json:"palette"`
}

// ThemeResponse is the response for GET /themes/{theme}.
type ThemeResponse struct {
	Name           string             `json:"name"`
	Fields         []theme.Field      `json:"fields"`
	DefaultPalette *palette.Palette   `json:"default_palette"`
	Schemes        []SchemeResponse   `json:"schemes"`
	HasImages      bool               `json:"has_images"`
	Active         *store.ThemeConfig `json:"active"`
}

// PaletteRequest is the body of PUT /themes/{theme}/palette. Either
// Palette or Scheme is set.
type PaletteRequest struct {
	Palette  *palette.Palette `json:"palette,omitempty"`
	Scheme   string           `json:"scheme,omitempty"`
	Contexts []string         `json:"contexts,omitempty"`
	Refresh  bool             `json:"refresh,omitempty"`
}

// PaletteResponse is the response for PUT /themes/{theme}/palette.
type PaletteResponse struct {
	Bundle      *bundle.Bundle `json:"bundle"`
	Stylesheets []string       `json:"stylesheets,omitempty"`
	Screenshot  string         `json:"screenshot,omitempty"`
}

// InvalidateRequest is the optional body of POST /cache/invalidate.
type InvalidateRequest struct {
	Tags []string `json:"tags,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	names, err := theme.Discover(s.cfg.ThemesDir)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"themes": names})
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	info, err := s.loadTheme(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	schemes, err := info.PaletteSchemes()
	if err != nil {
		WriteError(w, r, err)
		return
	}
	def, err := info.DefaultPalette()
	if err != nil {
		WriteError(w, r, err)
		return
	}

	resp := ThemeResponse{
		Name:           info.Name,
		Fields:         info.Fields,
		DefaultPalette: def,
		Schemes:        make([]SchemeResponse, 0, len(schemes)),
		HasImages:      info.HasImages(),
	}
	for _, sc := range schemes {
		resp.Schemes = append(resp.Schemes, SchemeResponse{Name: sc.Name, Label: sc.Label, Palette: sc.Palette})
	}
	if s.store != nil {
		if resp.Active, err = s.store.Get(r.Context(), info.Name); err != nil {
			WriteError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "read theme config"))
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetPalette(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "theme")
	if err := errors.ValidateThemeName(name); err != nil {
		WriteError(w, r, err)
		return
	}

	var body PaletteRequest
	if err := decodeBody(w, r, &body); err != nil {
		WriteError(w, r, err)
		return
	}
	if body.Palette == nil && body.Scheme == "" {
		WriteError(w, r, errors.New(errors.ErrCodeInvalidInput, "request needs a palette or a scheme"))
		return
	}

	req := bundle.Request{
		ThemeDir: filepath.Join(s.cfg.ThemesDir, name),
		Palette:  body.Palette,
		Scheme:   body.Scheme,
		Contexts: body.Contexts,
		Refresh:  body.Refresh,
	}
	if s.cfg.ThemesURL != "" {
		req.BaseURL = strings.TrimSuffix(s.cfg.ThemesURL, "/") + "/" + name
	}

	b, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	resp := PaletteResponse{Bundle: b}
	if !b.Default {
		for _, css := range b.Stylesheets {
			resp.Stylesheets = append(resp.Stylesheets, assetURL(b, css))
		}
		if b.Screenshot != "" {
			resp.Screenshot = assetURL(b, b.Screenshot)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetPalette(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "theme")
	if err := errors.ValidateThemeName(name); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := s.gen.Reset(r.Context(), name); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	name, file := chi.URLParam(r, "bundle"), chi.URLParam(r, "file")
	if !bundleNameRegex.MatchString(name) {
		WriteError(w, r, errors.New(errors.ErrCodeInvalidPath, "invalid bundle name: %q", name))
		return
	}
	if err := errors.ValidateFilename(file); err != nil {
		WriteError(w, r, err)
		return
	}

	dir := filepath.Join(s.gen.AssetsDir, name)
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		WriteError(w, r, errors.New(errors.ErrCodeBundleNotFound, "bundle not found: %s", name))
		return
	}
	path := filepath.Join(dir, file)
	f, err := os.Open(path)
	if err != nil {
		WriteError(w, r, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", file))
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil || st.IsDir() {
		WriteError(w, r, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", file))
		return
	}

	// Bundle directories are content-addressed.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, file, st.ModTime(), f)
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	var body InvalidateRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &body); err != nil {
			WriteError(w, r, err)
			return
		}
	}
	if err := s.gen.Invalidate(r.Context(), body.Tags...); err != nil {
		WriteError(w, r, err)
		return
	}
	tags := body.Tags
	if len(tags) == 0 {
		tags = []string{cache.TagLibraryInfo}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"invalidated": tags})
}

func (s *Server) loadTheme(r *http.Request) (*theme.Info, error) {
	name := chi.URLParam(r, "theme")
	if err := errors.ValidateThemeName(name); err != nil {
		return nil, err
	}
	return theme.Load(filepath.Join(s.cfg.ThemesDir, name))
}

// assetURL returns the server path of a file in b.
func assetURL(b *bundle.Bundle, file string) string {
	return "/assets/" + b.Name() + "/" + file
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if code := errors.GetCode(err); code != "" {
			return err
		}
		if err == io.EOF {
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
