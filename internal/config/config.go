package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Redact   RedactConfig   `json:"redact"`
	Detector DetectorConfig `json:"detector"`
	Output   OutputConfig   `json:"output"`
}

// RedactConfig holds the pipeline radii
type RedactConfig struct {
	BlurRadius    int `json:"blur_radius"`
	FeatherRadius int `json:"feather_radius"`
}

// DetectorConfig holds configuration for face detection
type DetectorConfig struct {
	Backend       string  `json:"backend"` // pigo, ollama, or llamacpp
	MinConfidence float64 `json:"min_confidence"`
	CascadeFile   string  `json:"cascade_file"`
	Model         string  `json:"model"`
	ServerURL     string  `json:"server_url"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
	Dir      string `json:"dir"`
	Suffix   string `json:"suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Redact: RedactConfig{
			BlurRadius:    15,
			FeatherRadius: 34,
		},
		Detector: DetectorConfig{
			Backend:       "pigo",
			MinConfidence: 0.4,
			CascadeFile:   "./cascade/facefinder",
			Model:         "openbmb/minicpm-v4.5",
		},
		Output: OutputConfig{
			Format:  "png",
			Quality: 90,
			Dir:     "./out",
			Suffix:  "_redacted",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from FACE_REDACTOR_* environment variables,
// typically populated through a .env file
func (c *Config) ApplyEnv() {
	if v := os.Getenv("FACE_REDACTOR_BLUR_RADIUS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redact.BlurRadius = n
		}
	}
	if v := os.Getenv("FACE_REDACTOR_FEATHER_RADIUS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redact.FeatherRadius = n
		}
	}
	if v := os.Getenv("FACE_REDACTOR_BACKEND"); v != "" {
		c.Detector.Backend = v
	}
	if v := os.Getenv("FACE_REDACTOR_MIN_CONFIDENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Detector.MinConfidence = f
		}
	}
	if v := os.Getenv("FACE_REDACTOR_CASCADE_FILE"); v != "" {
		c.Detector.CascadeFile = v
	}
	if v := os.Getenv("FACE_REDACTOR_MODEL"); v != "" {
		c.Detector.Model = v
	}
	if v := os.Getenv("FACE_REDACTOR_SERVER_URL"); v != "" {
		c.Detector.ServerURL = v
	}
	if v := os.Getenv("FACE_REDACTOR_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("FACE_REDACTOR_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Redact.BlurRadius < 1 {
		return fmt.Errorf("redact.blur_radius must be positive")
	}

	if c.Redact.FeatherRadius < 1 {
		return fmt.Errorf("redact.feather_radius must be positive")
	}

	switch c.Detector.Backend {
	case "pigo", "ollama", "llamacpp":
	default:
		return fmt.Errorf("detector.backend must be pigo, ollama, or llamacpp")
	}

	if c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1 {
		return fmt.Errorf("detector.min_confidence must be between 0 and 1")
	}

	if c.Detector.Backend == "pigo" && c.Detector.CascadeFile == "" {
		return fmt.Errorf("detector.cascade_file is required for the pigo backend")
	}

	switch c.Output.Format {
	case "png", "jpg", "jpeg", "webp":
	default:
		return fmt.Errorf("output.format must be png, jpg, or webp")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "face-redactor", "config.json")
}
