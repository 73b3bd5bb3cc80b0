package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv unsets the variables Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRAILDAY_DATA_DIR", "TRAILDAY_LOG_LEVEL", "TRAILDAY_CHROME_BIN", "TRAILDAY_BROWSER",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "TRAILDAY_LLM_MODEL", "TRAILDAY_LLM_MAX_TOKENS",
		"TRAILDAY_GEOCODE_USER_AGENT", "TRAILDAY_GEOCODE_DELAY_MS",
		"TWITTER_API_KEY", "TWITTER_API_SECRET", "TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_SECRET",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := load(filepath.Join(dir, "missing.toml"), filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	want := Defaults()
	if *cfg != *want {
		t.Errorf("load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_FileThenEnvThenEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	path := writeFile(t, dir, "trailday.toml", `
[data]
dir = "/srv/trailday"

[llm]
model = "gpt-4o-mini"
max_tokens = 900

[geocode]
delay_ms = 1000

[scrape]
browser = true
`)
	envFile := writeFile(t, dir, ".env", "OPENAI_API_KEY=sk-from-dotenv\nTRAILDAY_LLM_MODEL=gpt-from-dotenv\n")
	t.Setenv("TRAILDAY_LLM_MODEL", "gpt-from-env")

	cfg, err := load(path, envFile)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"data dir from file", cfg.Data.Dir, "/srv/trailday"},
		{"max tokens from file", cfg.LLM.MaxTokens, 900},
		{"browser from file", cfg.Scrape.Browser, true},
		{"api key from .env", cfg.LLM.APIKey, "sk-from-dotenv"},
		{"environment beats .env", cfg.LLM.Model, "gpt-from-env"},
		{"untouched default", cfg.Geocode.UserAgent, "trailday/1.0"},
		{"delay from file", cfg.GeocodeDelay(), time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.toml", "[llm\nmodel = ")

	if _, err := load(path, filepath.Join(dir, "missing.env")); err == nil {
		t.Error("load() error = nil, want parse error")
	}
}

func TestApplyEnv_IgnoresBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRAILDAY_LLM_MAX_TOKENS", "lots")
	t.Setenv("TRAILDAY_BROWSER", "maybe")

	cfg := Defaults()
	applyEnv(cfg)

	if cfg.LLM.MaxTokens != 1500 {
		t.Errorf("MaxTokens = %d, want default 1500", cfg.LLM.MaxTokens)
	}
	if cfg.Scrape.Browser {
		t.Error("Browser = true from unparsable value")
	}
}

func TestDurations(t *testing.T) {
	cfg := &Config{}

	if got := cfg.ScrapeTimeout(); got != 30*time.Second {
		t.Errorf("ScrapeTimeout() = %v", got)
	}
	if got := cfg.LLMTimeout(); got != 120*time.Second {
		t.Errorf("LLMTimeout() = %v", got)
	}
	if got := cfg.GeocodeTimeout(); got != 10*time.Second {
		t.Errorf("GeocodeTimeout() = %v", got)
	}
	if got := cfg.GeocodeDelay(); got != 100*time.Millisecond {
		t.Errorf("GeocodeDelay() = %v", got)
	}
}
