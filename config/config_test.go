package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"weather-lookup/models"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// newFlags declares the flags the root command exposes
func newFlags() *pflag.FlagSet {
	d := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("provider", d.Provider.Name, "")
	fs.String("key", "", "")
	fs.String("units", d.Provider.Units, "")
	fs.Duration("timeout", 0, "")
	fs.Bool("supersede", false, "")
	fs.Int("port", d.Server.Port, "")
	fs.String("log-level", d.Log.Level, "")
	fs.String("log-format", d.Log.Format, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	if *cfg != *want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeFile(t, "weather.yaml", `
provider:
  name: weatherapi
  key: file-key
  units: imperial
  timeout: 5s
ratelimit:
  enabled: true
  rps: 0.5
  burst: 2
location:
  source: static
  latitude: 48.85
  longitude: 2.35
server:
  port: 9090
`)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Provider.Name != "weatherapi" || cfg.Provider.Key != "file-key" || cfg.Units() != models.Imperial {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.Provider.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Provider.Timeout)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RPS != 0.5 || cfg.RateLimit.Burst != 2 {
		t.Errorf("ratelimit = %+v", cfg.RateLimit)
	}
	if cfg.Coordinates() != (models.Coordinates{Latitude: 48.85, Longitude: 2.35}) {
		t.Errorf("coordinates = %v", cfg.Coordinates())
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	// untouched keys keep their defaults
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadJSONAndEnvFiles(t *testing.T) {
	jsonPath := writeFile(t, "weather.json", `{"provider": {"key": "json-key"}, "log": {"format": "json"}}`)
	cfg, err := Load(jsonPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Key != "json-key" || cfg.Log.Format != "json" {
		t.Errorf("json config = %+v", cfg)
	}

	envPath := writeFile(t, "weather.env", "WEATHER_PROVIDER_KEY=dotenv-key\nWEATHER_SERVER_PORT=7070\n")
	cfg, err = Load(envPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Key != "dotenv-key" || cfg.Server.Port != 7070 {
		t.Errorf("dotenv config = %+v", cfg)
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	path := writeFile(t, "weather.ini", "key=value")
	if _, err := Load(path, nil); err == nil {
		t.Fatal("expected error for .ini")
	}
}

func TestPrecedence(t *testing.T) {
	path := writeFile(t, "weather.yaml", "provider:\n  key: file-key\n  units: imperial\nlog:\n  level: warn\n")
	t.Setenv("WEATHER_PROVIDER_KEY", "env-key")
	t.Setenv("WEATHER_LOG_LEVEL", "debug")

	fs := newFlags()
	if err := fs.Parse([]string{"--log-level", "error", "--supersede"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, fs)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Provider.Key != "env-key" {
		t.Errorf("env should override file: key = %q", cfg.Provider.Key)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("flag should override env: level = %q", cfg.Log.Level)
	}
	if cfg.Provider.Units != "imperial" {
		t.Errorf("unset flag must not override file: units = %q", cfg.Provider.Units)
	}
	if !cfg.Lookup.Supersede {
		t.Error("supersede flag ignored")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Provider.Key = "k"
		return c
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"provider", func(c *Config) { c.Provider.Name = "darksky" }, "provider.name"},
		{"key", func(c *Config) { c.Provider.Key = "" }, "provider.key"},
		{"units", func(c *Config) { c.Provider.Units = "kelvin" }, "provider.units"},
		{"timeout", func(c *Config) { c.Provider.Timeout = -time.Second }, "provider.timeout"},
		{"ratelimit", func(c *Config) { c.RateLimit.Enabled = true; c.RateLimit.RPS = 0 }, "ratelimit"},
		{"static location", func(c *Config) { c.Location.Source = LocationStatic; c.Location.Latitude = 95 }, "location"},
		{"location source", func(c *Config) { c.Location.Source = "gps" }, "location.source"},
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestProviderOptions(t *testing.T) {
	c := Default()
	c.Provider.Key = "k"
	c.Provider.URL = "http://localhost:1234"
	c.Provider.Units = "imperial"

	opts := c.ProviderOptions()
	if opts.APIKey != "k" || opts.BaseURL != "http://localhost:1234" || opts.Units != models.Imperial || opts.Timeout != 0 {
		t.Fatalf("opts = %+v", opts)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "WEATHER_TEST_DOTENV=loaded\n")
	t.Setenv("WEATHER_TEST_DOTENV", "")
	os.Unsetenv("WEATHER_TEST_DOTENV")

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("WEATHER_TEST_DOTENV"); got != "loaded" {
		t.Fatalf("WEATHER_TEST_DOTENV = %q", got)
	}
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
