// Package config loads trailday settings from built-in defaults, an optional
// TOML file, an optional .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all user-facing configuration for trailday.
type Config struct {
	Data     DataConfig     `toml:"data"`
	Scrape   ScrapeConfig   `toml:"scrape"`
	LLM      LLMConfig      `toml:"llm"`
	Geocode  GeocodeConfig  `toml:"geocode"`
	Document DocumentConfig `toml:"document"`
	Log      LogConfig      `toml:"log"`
	Twitter  TwitterConfig  `toml:"twitter"`
}

type DataConfig struct {
	Dir string `toml:"dir"`
}

type ScrapeConfig struct {
	Browser        bool   `toml:"browser"`
	ChromeBin      string `toml:"chrome_bin"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxAttempts    int    `toml:"max_attempts"`
}

type LLMConfig struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

type GeocodeConfig struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	DelayMs        int    `toml:"delay_ms"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type DocumentConfig struct {
	Width        int `toml:"width"`
	LinesPerPage int `toml:"lines_per_page"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type TwitterConfig struct {
	APIKey       string `toml:"api_key"`
	APISecret    string `toml:"api_secret"`
	AccessToken  string `toml:"access_token"`
	AccessSecret string `toml:"access_secret"`
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Data:     DataConfig{Dir: "~/.local/share/trailday"},
		Scrape:   ScrapeConfig{TimeoutSeconds: 30, MaxAttempts: 5},
		LLM:      LLMConfig{BaseURL: "https://api.openai.com", Model: "gpt-3.5-turbo", MaxTokens: 1500, Temperature: 0.7, TimeoutSeconds: 120},
		Geocode:  GeocodeConfig{BaseURL: "https://nominatim.openstreetmap.org", UserAgent: "trailday/1.0", DelayMs: 100, TimeoutSeconds: 10},
		Document: DocumentConfig{Width: 80, LinesPerPage: 54},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads the TOML file at path and ./.env, then applies environment
// overrides. Neither file has to exist. An empty path skips the TOML file.
func Load(path string) (*Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Data.Dir, "TRAILDAY_DATA_DIR")
	setString(&cfg.Log.Level, "TRAILDAY_LOG_LEVEL")

	setString(&cfg.Scrape.ChromeBin, "TRAILDAY_CHROME_BIN")
	setBool(&cfg.Scrape.Browser, "TRAILDAY_BROWSER")

	setString(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	setString(&cfg.LLM.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.LLM.Model, "TRAILDAY_LLM_MODEL")
	setInt(&cfg.LLM.MaxTokens, "TRAILDAY_LLM_MAX_TOKENS")

	setString(&cfg.Geocode.UserAgent, "TRAILDAY_GEOCODE_USER_AGENT")
	setInt(&cfg.Geocode.DelayMs, "TRAILDAY_GEOCODE_DELAY_MS")

	setString(&cfg.Twitter.APIKey, "TWITTER_API_KEY")
	setString(&cfg.Twitter.APISecret, "TWITTER_API_SECRET")
	setString(&cfg.Twitter.AccessToken, "TWITTER_ACCESS_TOKEN")
	setString(&cfg.Twitter.AccessSecret, "TWITTER_ACCESS_SECRET")
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

// ScrapeTimeout is the per-request fetch timeout.
func (c *Config) ScrapeTimeout() time.Duration { return seconds(c.Scrape.TimeoutSeconds, 30) }

// LLMTimeout is the completion request timeout.
func (c *Config) LLMTimeout() time.Duration { return seconds(c.LLM.TimeoutSeconds, 120) }

// GeocodeTimeout is the per-lookup timeout.
func (c *Config) GeocodeTimeout() time.Duration { return seconds(c.Geocode.TimeoutSeconds, 10) }

// GeocodeDelay is the minimum spacing between geocoding requests.
func (c *Config) GeocodeDelay() time.Duration {
	if c.Geocode.DelayMs <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.Geocode.DelayMs) * time.Millisecond
}
