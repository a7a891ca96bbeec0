package buildinfo

import "testing"

func TestShort(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	tests := []struct {
		version, commit, want string
	}{
		{"dev", "none", "dev"},
		{"v1.2.0", "0123456789abcdef", "v1.2.0+0123456"},
		{"v1.2.0", "abc", "v1.2.0+abc"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := Short(); got != tt.want {
			t.Errorf("Short() with %s/%s = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}
