package theme

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/recolor/pkg/errors"
)

// descriptorNames lists the descriptor file names Load looks for, in order.
var descriptorNames = []string{"theme.toml", "theme.yaml", "theme.yml", "theme.json"}

// Load reads and validates the descriptor of the theme in dir.
// If the descriptor omits a name, the directory's base name is used.
func Load(dir string) (*Info, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// Find returns the path of the descriptor in dir.
func Find(dir string) (string, error) {
	for _, name := range descriptorNames {
		path := filepath.Join(dir, name)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, nil
		}
	}
	return "", errors.New(errors.ErrCodeThemeNotFound, "no theme descriptor in %s", dir)
}

// LoadFile reads and validates a descriptor file. The format is chosen by
// extension.
func LoadFile(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeThemeNotFound, err, "read descriptor")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read descriptor")
	}

	info, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "decode %s", filepath.Base(path))
	}

	info.Dir = filepath.Dir(path)
	if info.Name == "" {
		info.Name = filepath.Base(info.Dir)
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

// Decode parses descriptor data. ext selects the format: ".toml", ".yaml",
// ".yml" or ".json".
func Decode(data []byte, ext string) (*Info, error) {
	var info Info
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &info)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidTheme, "unknown key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&info); err != nil {
			return nil, err
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&info); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported descriptor format %q", ext)
	}
	return &info, nil
}

// Discover returns the names of the theme directories directly below root
// that contain a descriptor, sorted.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read themes root")
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := Find(filepath.Join(root, e.Name())); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
