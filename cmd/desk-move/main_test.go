package main

import (
	"testing"

	"github.com/victor-hucklenbroich/desk-controller/internal/config"
)

func TestFindPreset(t *testing.T) {
	cfg := config.Config{
		Presets: []config.Preset{
			{Name: "sit", Height: 75},
			{Name: "stand", Height: 112},
		},
	}

	tests := []struct {
		name       string
		wantHeight int
		wantOK     bool
	}{
		{"sit", 75, true},
		{"stand", 112, true},
		{"missing", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run("preset "+tt.name, func(t *testing.T) {
			preset, ok := findPreset(cfg, tt.name)
			if ok != tt.wantOK {
				t.Fatalf("findPreset(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if ok && preset.Height != tt.wantHeight {
				t.Errorf("findPreset(%q) height = %d, want %d", tt.name, preset.Height, tt.wantHeight)
			}
		})
	}
}
