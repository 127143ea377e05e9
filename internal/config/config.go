package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shapedtime/cuewords/internal/dialogue"
	"github.com/shapedtime/cuewords/internal/subtitle"
	"github.com/shapedtime/cuewords/internal/vocab"
)

// Translation modes.
const (
	TranslateRelay  = "relay"
	TranslateDirect = "direct"
)

// Environment variables that override secrets kept out of the config file.
const (
	EnvTranslateAppKey = "CUEWORDS_TRANSLATE_APP_KEY"
	EnvTranslateSecret = "CUEWORDS_TRANSLATE_SECRET"
	EnvDatabaseDSN     = "CUEWORDS_DATABASE_DSN"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Subtitles SubtitlesConfig `yaml:"subtitles"`
	Dialogue  DialogueConfig  `yaml:"dialogue"`
	Translate TranslateConfig `yaml:"translate"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	HTTPPort    int      `yaml:"http_port"`
	MetricsPort int      `yaml:"metrics_port"` // 0 disables the metrics server
	CORSOrigins []string `yaml:"cors_origins"`
}

type SubtitlesConfig struct {
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
	Charset   string `yaml:"charset"`
	BaseURL   string `yaml:"base_url"` // fetch over HTTP instead of reading Dir
}

type DialogueConfig struct {
	Strategy    string `yaml:"strategy"` // tag, positional or language
	ChineseFont string `yaml:"chinese_font"`
	EnglishFont string `yaml:"english_font"`
}

type TranslateConfig struct {
	Mode     string `yaml:"mode"`     // relay or direct
	Endpoint string `yaml:"endpoint"` // dictionary API, or relay server for mode relay
	AppKey   string `yaml:"app_key"`
	Secret   string `yaml:"secret"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	Path   string `yaml:"path"`   // sqlite file
	DSN    string `yaml:"dsn"`    // postgres URL
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // empty logs to stdout only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:    4444,
			MetricsPort: 9444,
		},
		Subtitles: SubtitlesConfig{
			Dir:       "./subtitles",
			Extension: "ass",
			Charset:   subtitle.DefaultCharset,
		},
		Dialogue: DialogueConfig{
			Strategy:    dialogue.StrategyTag,
			ChineseFont: dialogue.DefaultChineseFont,
			EnglishFont: dialogue.DefaultEnglishFont,
		},
		Translate: TranslateConfig{
			Mode:     TranslateDirect,
			Endpoint: "https://openapi.youdao.com/api",
			From:     "en",
			To:       "zh-CHS",
		},
		Database: DatabaseConfig{
			Driver: vocab.DriverSQLite,
			Path:   "./data/cuewords.db",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads configuration from a YAML file, then applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvTranslateAppKey); v != "" {
		c.Translate.AppKey = v
	}
	if v := os.Getenv(EnvTranslateSecret); v != "" {
		c.Translate.Secret = v
	}
	if v := os.Getenv(EnvDatabaseDSN); v != "" {
		c.Database.DSN = v
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort))
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		errs = append(errs, fmt.Errorf("server.metrics_port out of range: %d", c.Server.MetricsPort))
	}
	if c.Subtitles.Dir == "" && c.Subtitles.BaseURL == "" {
		errs = append(errs, errors.New("subtitles.dir or subtitles.base_url is required"))
	}
	if _, err := subtitle.LookupCharset(c.Subtitles.Charset); err != nil {
		errs = append(errs, fmt.Errorf("subtitles.charset: %w", err))
	}
	if _, err := dialogue.NewExtractor(c.Dialogue.Strategy, c.Dialogue.ChineseFont, c.Dialogue.EnglishFont); err != nil {
		errs = append(errs, fmt.Errorf("dialogue.strategy: %w", err))
	}

	switch strings.ToLower(c.Translate.Mode) {
	case TranslateDirect, "":
	case TranslateRelay:
		if c.Translate.Endpoint == "" {
			errs = append(errs, errors.New("translate.endpoint is required in relay mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("translate.mode must be %q or %q, got %q", TranslateDirect, TranslateRelay, c.Translate.Mode))
	}

	switch c.Database.Driver {
	case vocab.DriverSQLite, "":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case vocab.DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database.driver %q", c.Database.Driver))
	}

	return errors.Join(errs...)
}

// DatabaseSource returns the driver name and DSN to open.
func (c *Config) DatabaseSource() (string, string) {
	if c.Database.Driver == vocab.DriverPostgres {
		return vocab.DriverPostgres, c.Database.DSN
	}
	return vocab.DriverSQLite, c.Database.Path
}

// EnsureDirectories creates required directories
func (c *Config) EnsureDirectories() error {
	var dirs []string
	if c.Database.Driver != vocab.DriverPostgres && c.Database.Path != ":memory:" {
		dirs = append(dirs, filepath.Dir(c.Database.Path))
	}
	if c.Subtitles.BaseURL == "" && c.Subtitles.Dir != "" {
		dirs = append(dirs, c.Subtitles.Dir)
	}
	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}
