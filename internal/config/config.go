// Package config loads the service configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/youruser/duelsim/internal/layout"
	"github.com/youruser/duelsim/internal/ocr"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	OCR     OCRConfig     `toml:"ocr"`
	Layout  LayoutConfig  `toml:"layout"`
	Storage StorageConfig `toml:"storage"`
}

type ServerConfig struct {
	Port         string  `toml:"port"`
	PublicURL    string  `toml:"public_url"`    // Base for replay share links
	AnalyzeRate  float64 `toml:"analyze_rate"`  // Analyze requests per second
	AnalyzeBurst int     `toml:"analyze_burst"` // Burst above the rate
}

type OCRConfig struct {
	Language      string  `toml:"language"`       // Default when a request names none
	Tessdata      string  `toml:"tessdata"`       // TESSDATA_PREFIX override
	MinConfidence float64 `toml:"min_confidence"` // 0 accepts any reading
}

type LayoutConfig struct {
	Profile      string `toml:"profile"`
	ProfilesFile string `toml:"profiles_file"` // Optional YAML with extra profiles
}

type StorageConfig struct {
	Path string `toml:"path"` // SQLite file for replays
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			PublicURL:    "http://localhost:8080",
			AnalyzeRate:  2,
			AnalyzeBurst: 4,
		},
		OCR: OCRConfig{
			Language: string(ocr.Japanese),
		},
		Layout: LayoutConfig{
			Profile: layout.Default,
		},
		Storage: StorageConfig{
			Path: "data/replays.db",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// PORT in the environment overrides the configured port.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := ocr.ParseLanguage(c.OCR.Language); err != nil {
		return fmt.Errorf("ocr.language: %w", err)
	}
	if c.Server.AnalyzeRate <= 0 || c.Server.AnalyzeBurst < 1 {
		return fmt.Errorf("server: analyze_rate and analyze_burst must be positive")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is empty")
	}
	return nil
}

// Save writes the configuration as TOML.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
