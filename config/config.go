package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Resolution is a named output resolution preset.
type Resolution struct {
	Label  string `json:"label" yaml:"label"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// Config holds all application configuration
type Config struct {
	Environment string `yaml:"environment"`
	ServerPort  int    `yaml:"server_port"`
	DBPath      string `yaml:"db_path"`

	// Storage paths
	StoragePath string `yaml:"storage_path"`
	UploadsPath string `yaml:"-"`
	OutputPath  string `yaml:"-"`
	LogsPath    string `yaml:"-"`
	TempPath    string `yaml:"-"`

	// Worker settings
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`

	// Choice lists offered to the dashboard. These mirror what the
	// manual configuration UI exposes.
	Fonts            []string     `yaml:"fonts"`
	Resolutions      []Resolution `yaml:"resolutions"`
	FPSOptions       []int        `yaml:"fps_options"`
	OutputFormats    []string     `yaml:"output_formats"`
	TransitionStyles []string     `yaml:"transition_styles"`
	AnimationStyles  []string     `yaml:"animation_styles"`

	// Sample body text pre-filled into new projects.
	SampleText string `yaml:"sample_text"`
}

// Defaults returns the built-in configuration used when no config file
// is present.
func Defaults() *Config {
	homeDir, _ := os.UserHomeDir()
	base := filepath.Join(homeDir, "lyricmotion")

	return &Config{
		Environment:         "development",
		ServerPort:          8080,
		DBPath:              filepath.Join(base, "data", "lyricmotion.db"),
		StoragePath:         filepath.Join(base, "storage"),
		PollIntervalSeconds: 5,
		Fonts:               []string{"Vazir", "Nazli", "Sahel", "Shabnam"},
		Resolutions: []Resolution{
			{Label: "720p", Width: 1280, Height: 720},
			{Label: "1080p", Width: 1920, Height: 1080},
			{Label: "4K", Width: 3840, Height: 2160},
		},
		FPSOptions:       []int{24, 30, 60},
		OutputFormats:    []string{"mp4", "gif"},
		TransitionStyles: []string{"fade", "slide", "typewriter", "scroll", "crossfade"},
		AnimationStyles:  []string{"typewriter", "fade", "scroll", "reveal"},
		SampleText:       "سلام! این یک متن آزمایشی برای ساخت موشن گرافیک فارسی است.",
	}
}

// LoadConfig loads configuration from an optional YAML file with
// environment variable overrides on top.
func LoadConfig() *Config {
	cfg := Defaults()

	path := os.Getenv("LYRICMOTION_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Printf("Warning: failed to parse config file %s: %v", path, err)
		} else {
			log.Printf("Loaded configuration from %s", path)
		}
	}

	if env := os.Getenv("LYRICMOTION_ENV"); env != "" {
		cfg.Environment = env
	}
	if port := os.Getenv("LYRICMOTION_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.ServerPort = p
		}
	}
	if db := os.Getenv("LYRICMOTION_DB"); db != "" {
		cfg.DBPath = db
	}
	if storage := os.Getenv("LYRICMOTION_STORAGE"); storage != "" {
		cfg.StoragePath = storage
	}

	// Derived storage paths
	cfg.UploadsPath = filepath.Join(cfg.StoragePath, "uploads")
	cfg.OutputPath = filepath.Join(cfg.StoragePath, "output")
	cfg.LogsPath = filepath.Join(cfg.StoragePath, "logs")
	cfg.TempPath = filepath.Join(cfg.StoragePath, "temp")

	fmt.Printf("Loaded configuration for environment: %s\n", cfg.Environment)
	return cfg
}

// ResolutionByLabel resolves a resolution preset; unknown labels fall
// back to 1080p.
func (c *Config) ResolutionByLabel(label string) Resolution {
	for _, res := range c.Resolutions {
		if res.Label == label {
			return res
		}
	}
	return Resolution{Label: "1080p", Width: 1920, Height: 1080}
}

// EnsureDirs creates all storage directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.StoragePath, c.UploadsPath, c.OutputPath, c.LogsPath, c.TempPath, filepath.Dir(c.DBPath)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
