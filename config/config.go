// Package config loads the runtime settings of the server. The Config value is
// built once at start-up and handed to every component that needs it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultTMDBBaseURL    = "https://api.themoviedb.org/3"
	DefaultImageBaseURL   = "https://image.tmdb.org/t/p"
	DefaultLanguage       = "en-US"
	DefaultServerAddr     = ":8080"
	DefaultConfigFileName = "moviez"
)

type Config struct {
	TMDB       TMDBConfig       `mapstructure:"tmdb"`
	YouTube    YouTubeConfig    `mapstructure:"youtube"`
	Server     ServerConfig     `mapstructure:"server"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Template   TemplateConfig   `mapstructure:"template"`
	Log        LogConfig        `mapstructure:"log"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	ImageCache ImageCacheConfig `mapstructure:"image_cache"`
}

type TMDBConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	APIToken        string `mapstructure:"api_token"`
	ImageServiceURL string `mapstructure:"image_service_url"`
	Language        string `mapstructure:"language"`
}

type YouTubeConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type TemplateConfig struct {
	// Dir overrides embedded templates file by file when set.
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type RateLimitConfig struct {
	PerMinute int `mapstructure:"per_minute"`
}

type ImageCacheConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// ErrIncomplete is wrapped by Validate when required settings are missing.
var ErrIncomplete = errors.New("configuration incomplete")

var defaults = map[string]any{
	"tmdb.base_url":          DefaultTMDBBaseURL,
	"tmdb.api_token":         "",
	"tmdb.image_service_url": DefaultImageBaseURL,
	"tmdb.language":          DefaultLanguage,
	"youtube.api_key":        "",
	"server.addr":            DefaultServerAddr,
	"http.timeout":           15 * time.Second,
	"template.dir":           "",
	"log.file":               "",
	"log.max_size_mb":        50,
	"log.max_backups":        3,
	"log.max_age_days":       14,
	"rate_limit.per_minute":  120,
	"image_cache.size":       512,
	"image_cache.ttl":        6 * time.Hour,
}

// Load reads a local .env file when present, then resolves every setting
// from the environment, the optional config file and the defaults, in that
// order of precedence. Nested keys map to env vars with "." replaced by "_"
// (tmdb.api_token -> TMDB_API_TOKEN).
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(DefaultConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	c.TMDB.ImageServiceURL = strings.TrimRight(strings.TrimSpace(c.TMDB.ImageServiceURL), "/")
	c.TMDB.APIToken = strings.TrimSpace(c.TMDB.APIToken)
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = 15 * time.Second
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// MissingTMDB lists the env names of required TMDB settings that are empty.
func (c TMDBConfig) MissingTMDB() []string {
	var missing []string
	if strings.TrimSpace(c.BaseURL) == "" {
		missing = append(missing, "TMDB_BASE_URL")
	}
	if strings.TrimSpace(c.APIToken) == "" {
		missing = append(missing, "TMDB_API_TOKEN")
	}
	return missing
}

// Validate reports missing catalog settings. The server still starts with an
// incomplete configuration; affected views show a configuration message.
func (c *Config) Validate() error {
	if missing := c.TMDB.MissingTMDB(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}
