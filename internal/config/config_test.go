package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.Redact.BlurRadius != 15 || cfg.Redact.FeatherRadius != 34 {
		t.Errorf("unexpected redact defaults: %+v", cfg.Redact)
	}
	if cfg.Detector.Backend != "pigo" || cfg.Detector.MinConfidence != 0.4 {
		t.Errorf("unexpected detector defaults: %+v", cfg.Detector)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero blur radius", func(c *Config) { c.Redact.BlurRadius = 0 }},
		{"negative feather radius", func(c *Config) { c.Redact.FeatherRadius = -1 }},
		{"unknown backend", func(c *Config) { c.Detector.Backend = "opencv" }},
		{"confidence above 1", func(c *Config) { c.Detector.MinConfidence = 1.5 }},
		{"negative confidence", func(c *Config) { c.Detector.MinConfidence = -0.1 }},
		{"missing cascade for pigo", func(c *Config) { c.Detector.CascadeFile = "" }},
		{"bad output format", func(c *Config) { c.Output.Format = "tiff" }},
		{"quality out of range", func(c *Config) { c.Output.Quality = 101 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateVisionBackendNeedsNoCascade(t *testing.T) {
	cfg := Default()
	cfg.Detector.Backend = "ollama"
	cfg.Detector.CascadeFile = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("ollama backend should not require a cascade file: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Redact.BlurRadius = 25
	cfg.Detector.Backend = "llamacpp"
	cfg.Detector.ServerURL = "http://localhost:8080"
	cfg.Output.Format = "webp"
	cfg.Output.Lossless = true

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Redact.BlurRadius != 25 {
		t.Errorf("blur radius = %d", loaded.Redact.BlurRadius)
	}
	if loaded.Detector.Backend != "llamacpp" || loaded.Detector.ServerURL != "http://localhost:8080" {
		t.Errorf("detector = %+v", loaded.Detector)
	}
	if loaded.Output.Format != "webp" || !loaded.Output.Lossless {
		t.Errorf("output = %+v", loaded.Output)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FACE_REDACTOR_BLUR_RADIUS", "30")
	t.Setenv("FACE_REDACTOR_FEATHER_RADIUS", "12")
	t.Setenv("FACE_REDACTOR_BACKEND", "ollama")
	t.Setenv("FACE_REDACTOR_MIN_CONFIDENCE", "0.6")
	t.Setenv("FACE_REDACTOR_MODEL", "llava")
	t.Setenv("FACE_REDACTOR_SERVER_URL", "http://gpu-box:11434")
	t.Setenv("FACE_REDACTOR_OUTPUT_FORMAT", "jpg")
	t.Setenv("FACE_REDACTOR_OUTPUT_DIR", "/tmp/redacted")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Redact.BlurRadius != 30 || cfg.Redact.FeatherRadius != 12 {
		t.Errorf("redact = %+v", cfg.Redact)
	}
	if cfg.Detector.Backend != "ollama" || cfg.Detector.MinConfidence != 0.6 {
		t.Errorf("detector = %+v", cfg.Detector)
	}
	if cfg.Detector.Model != "llava" || cfg.Detector.ServerURL != "http://gpu-box:11434" {
		t.Errorf("detector = %+v", cfg.Detector)
	}
	if cfg.Output.Format != "jpg" || cfg.Output.Dir != "/tmp/redacted" {
		t.Errorf("output = %+v", cfg.Output)
	}
}

func TestApplyEnvIgnoresUnparseable(t *testing.T) {
	t.Setenv("FACE_REDACTOR_BLUR_RADIUS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Redact.BlurRadius != 15 {
		t.Errorf("blur radius changed to %d on bad input", cfg.Redact.BlurRadius)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Fatal("empty config path")
	}
	if filepath.Base(path) != "config.json" {
		t.Errorf("config path = %q", path)
	}
}
