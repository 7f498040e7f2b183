package errors

import (
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Door", false},
		{"valid with prefix", "BP_Door", false},
		{"valid with digits", "Enemy2", false},
		{"valid with underscore", "player_character", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path separator", "Doors/BP_Door", true},
		{"path traversal", "..", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAssetPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid game path", "/Game/Doors/BP_Door", false},
		{"valid script path", "/Script/Engine.Actor", false},
		{"valid object suffix", "/Game/Doors/BP_Door.BP_Door_C", false},

		{"empty", "", true},
		{"relative", "Game/Doors/BP_Door", true},
		{"traversal", "/Game/../Secrets", true},
		{"backslash", "/Game\\Doors", true},
		{"double slash", "/Game//Doors", true},
		{"null byte", "/Game/\x00", true},
		{"too long", "/" + string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssetPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Door.json", false},
		{"valid nested", "Doors/Door.md", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../outside", true},
		{"backslash", "dir\\file", true},
		{"null byte", "foo\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"json", "json", false},
		{"markdown", "markdown", false},
		{"dot", "dot", false},
		{"svg", "svg", false},
		{"png", "png", false},

		{"empty", "", true},
		{"unknown", "yaml", true},
		{"case sensitive", "JSON", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
