package errors

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "style.css", false},
		{"nested", "css/colors.css", false},
		{"image", "images/header.png", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "css/../../secret", true},
		{"backslash", "css\\colors.css", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"png", "logo.png", false},
		{"css", "colors.css", false},

		{"empty", "", true},
		{"with path /", "css/colors.css", true},
		{"with path \\", "css\\colors.css", true},
		{"hidden", ".htaccess", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSlotName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"base", false},
		{"link", false},
		{"top-bar", false},
		{"header_2", false},

		{"", true},
		{"Base", true},
		{"2nd", true},
		{"with space", true},
		{strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateSlotName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSlotName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateThemeName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"bartik", false},
		{"olivero_sub", false},

		{"", true},
		{"Bartik", true},
		{"my-theme", true},
		{"../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateThemeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateThemeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
