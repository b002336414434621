package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Field.MaxParticles != 80 {
		t.Errorf("expected max_particles 80, got %d", cfg.Field.MaxParticles)
	}
	if cfg.Field.DensityDivisor != 20 {
		t.Errorf("expected density_divisor 20, got %f", cfg.Field.DensityDivisor)
	}
	if cfg.Field.ProximityThreshold != 150 {
		t.Errorf("expected proximity_threshold 150, got %f", cfg.Field.ProximityThreshold)
	}
	if cfg.Style.TrailAlpha != 0.1 {
		t.Errorf("expected trail_alpha 0.1, got %f", cfg.Style.TrailAlpha)
	}
	if cfg.Style.LineWidth != 0.5 {
		t.Errorf("expected line_width 0.5, got %f", cfg.Style.LineWidth)
	}

	want := RGB{R: 0, G: 255, B: 213}
	if cfg.Derived.Accent != want {
		t.Errorf("expected accent %v, got %v", want, cfg.Derived.Accent)
	}
	wantBG := RGB{R: 10, G: 10, B: 15}
	if cfg.Derived.Background != wantBG {
		t.Errorf("expected background %v, got %v", wantBG, cfg.Derived.Background)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("field:\n  proximity_threshold: 90\nstyle:\n  accent: \"#ff0000\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Field.ProximityThreshold != 90 {
		t.Errorf("expected overridden threshold 90, got %f", cfg.Field.ProximityThreshold)
	}
	// Untouched fields keep their defaults
	if cfg.Field.MaxParticles != 80 {
		t.Errorf("expected default max_particles 80, got %d", cfg.Field.MaxParticles)
	}
	if cfg.Derived.Accent != (RGB{R: 255}) {
		t.Errorf("expected red accent, got %v", cfg.Derived.Accent)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero divisor", func(c *Config) { c.Field.DensityDivisor = 0 }},
		{"zero threshold", func(c *Config) { c.Field.ProximityThreshold = 0 }},
		{"inverted size", func(c *Config) { c.Field.MinSize, c.Field.MaxSize = 3, 1 }},
		{"opacity above one", func(c *Config) { c.Field.MaxOpacity = 1.5 }},
		{"zero opacity", func(c *Config) { c.Field.MinOpacity = 0 }},
		{"negative line width", func(c *Config) { c.Style.LineWidth = -1 }},
		{"bad accent", func(c *Config) { c.Style.Accent = "teal" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Refresh(); err == nil {
				t.Errorf("expected Refresh to reject %s", tt.name)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Field.MaxParticles = 42

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Field.MaxParticles != 42 {
		t.Errorf("expected 42 particles after reload, got %d", loaded.Field.MaxParticles)
	}
}
