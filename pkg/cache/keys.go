package cache

import (
	"sort"
	"strings"
	"time"
)

// TagLibraryInfo is the tag whose invalidation regenerates every bundle.
const TagLibraryInfo = "library_info"

// TTLBundle is how long a bundle manifest stays cached. An expired manifest
// only costs a regeneration.
const TTLBundle = 30 * 24 * time.Hour

// Keyer derives cache keys.
type Keyer interface {
	// BundleKey returns the key of a generated bundle manifest.
	BundleKey(theme string, opts BundleKeyOpts) string

	// TagKey returns the key holding the generation of a cache tag.
	TagKey(tag string) string
}

// BundleKeyOpts holds the inputs of a bundle key besides the theme name.
type BundleKeyOpts struct {
	// Palette is the palette fingerprint.
	Palette string

	// Contexts are cache-context values, such as the site's base URL.
	// Order does not matter.
	Contexts []string

	// Generation is the current generation of [TagLibraryInfo].
	Generation int64
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// BundleKey returns "bundle:" followed by a SHA-256 over the key inputs.
func (k *DefaultKeyer) BundleKey(theme string, opts BundleKeyOpts) string {
	contexts := append([]string(nil), opts.Contexts...)
	sort.Strings(contexts)
	return hashKey("bundle", theme, opts.Palette, contexts, opts.Generation)
}

// TagKey returns "tag:<tag>".
func (k *DefaultKeyer) TagKey(tag string) string {
	return "tag:" + tag
}

// Digest returns the hash part of a key produced by a [Keyer].
func Digest(key string) string {
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}
