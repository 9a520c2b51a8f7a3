package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultModel      = "gpt-4o"
	DefaultAddr       = ":8080"
	DefaultVolume     = 50
	DefaultErrorDelay = 2 * time.Second
)

type Config struct {
	ModelAPIKey  string
	ModelName    string
	ModelBaseURL string
	SearchAPIKey string

	Addr        string
	Volume      int
	ErrorDelay  time.Duration
	TrackLength time.Duration
	OpenBrowser bool
}

type fileConfig struct {
	Model        string `koanf:"model"`
	ModelBaseURL string `koanf:"model_base_url"`
	Addr         string `koanf:"addr"`
	Volume       *int   `koanf:"volume"`
	ErrorDelay   string `koanf:"error_delay"`
	TrackLength  string `koanf:"track_length"`
	OpenBrowser  bool   `koanf:"open_browser"`
}

func init() {
	_ = godotenv.Load()
}

// Load merges the optional TOML files with the environment. Credentials are
// only ever read from the environment.
func Load() Config {
	fc := loadFileConfig(configPaths())

	// Zero is a valid, muted start-up volume.
	volume := DefaultVolume
	if fc.Volume != nil && *fc.Volume >= 0 && *fc.Volume <= 100 {
		volume = *fc.Volume
	}

	return Config{
		ModelAPIKey:  firstNonEmpty(os.Getenv("MODEL_API_KEY"), os.Getenv("OPENAI_API_KEY")),
		ModelName:    firstNonEmpty(os.Getenv("MODEL_NAME"), fc.Model, DefaultModel),
		ModelBaseURL: firstNonEmpty(os.Getenv("MODEL_BASE_URL"), fc.ModelBaseURL),
		SearchAPIKey: firstNonEmpty(os.Getenv("SEARCH_API_KEY"), os.Getenv("YOUTUBE_API_KEY")),
		Addr:         firstNonEmpty(os.Getenv("MOODTUNES_ADDR"), fc.Addr, DefaultAddr),
		Volume:       volume,
		ErrorDelay:   parseDuration(fc.ErrorDelay, DefaultErrorDelay),
		TrackLength:  parseDuration(fc.TrackLength, 0),
		OpenBrowser:  fc.OpenBrowser,
	}
}

// HasModel reports whether live mood analysis is enabled.
func (c Config) HasModel() bool {
	return c.ModelAPIKey != ""
}

// HasSearch reports whether live video resolution is enabled.
func (c Config) HasSearch() bool {
	return c.SearchAPIKey != ""
}

func configPaths() []string {
	paths := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "moodtunes", "config.toml"))
	}
	// Local file has the highest priority.
	paths = append(paths, "moodtunes.toml")
	return paths
}

func loadFileConfig(paths []string) fileConfig {
	k := koanf.New(".")
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return fileConfig{}
		}
	}
	var fc fileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return fileConfig{}
	}
	return fc
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	// Bare numbers are seconds.
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
