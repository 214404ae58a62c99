// Package config loads settings from defaults, an optional file, WEATHER_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"weather-lookup/datasource"
	"weather-lookup/location"
	"weather-lookup/models"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is stripped from environment variables; WEATHER_PROVIDER_KEY
// becomes provider.key
const EnvPrefix = "WEATHER_"

// Location sources
const (
	LocationIP     = "ip"
	LocationStatic = "static"
)

type Config struct {
	Provider struct {
		Name    string        `koanf:"name"`
		Key     string        `koanf:"key"`
		URL     string        `koanf:"url"`
		Units   string        `koanf:"units"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"provider"`

	RateLimit struct {
		Enabled bool    `koanf:"enabled"`
		RPS     float64 `koanf:"rps"`
		Burst   int     `koanf:"burst"`
	} `koanf:"ratelimit"`

	Location struct {
		Source    string  `koanf:"source"`
		Latitude  float64 `koanf:"latitude"`
		Longitude float64 `koanf:"longitude"`
		URL       string  `koanf:"url"`
	} `koanf:"location"`

	Lookup struct {
		Supersede bool `koanf:"supersede"`
	} `koanf:"lookup"`

	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`

	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	c := &Config{}
	c.Provider.Name = datasource.OpenWeatherMap
	c.Provider.Units = string(models.Metric)
	c.RateLimit.RPS = 1
	c.RateLimit.Burst = 5
	c.Location.Source = LocationIP
	c.Location.URL = location.DefaultLookupURL
	c.Server.Port = 8080
	c.Log.Level = "info"
	c.Log.Format = "console"
	return c
}

// flagKeys maps flat flag names onto nested config keys
var flagKeys = map[string]string{
	"provider":   "provider.name",
	"key":        "provider.key",
	"units":      "provider.units",
	"timeout":    "provider.timeout",
	"supersede":  "lookup.supersede",
	"port":       "server.port",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// LoadDotEnv loads a .env file into the process environment if one exists.
// Variables already set are left alone.
func LoadDotEnv(paths ...string) error {
	var missing []string
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no .env loaded from %s", strings.Join(missing, ", "))
	}
	return nil
}

// Load layers the config file, environment and flags over Default.
// flags may be nil; only flags the user set override earlier layers.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if configFile != "" {
		parser, err := parserForFile(configFile)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, interface{}) {
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			return key, value
		}), nil); err != nil {
			return nil, fmt.Errorf("error loading flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

// envKey converts WEATHER_FOO_BAR to foo.bar
func envKey(s string) string {
	return strings.Replace(strings.ToLower(
		strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
}

func parserForFile(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".env":
		return dotenv.ParserEnv(EnvPrefix, ".", envKey), nil
	default:
		return nil, fmt.Errorf("unknown file extension: %s", ext)
	}
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Provider.Name) {
	case datasource.OpenWeatherMap, datasource.WeatherAPI:
	default:
		errs = append(errs, fmt.Errorf("provider.name: unknown provider %q", c.Provider.Name))
	}
	if c.Provider.Key == "" {
		errs = append(errs, errors.New("provider.key: API key is required"))
	}
	if _, err := models.ParseUnits(c.Provider.Units); err != nil {
		errs = append(errs, fmt.Errorf("provider.units: %w", err))
	}
	if c.Provider.Timeout < 0 {
		errs = append(errs, errors.New("provider.timeout: must not be negative"))
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("ratelimit: rps and burst must be positive"))
	}

	switch c.Location.Source {
	case LocationIP:
	case LocationStatic:
		if err := c.Coordinates().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("location: %w", err))
		}
	default:
		errs = append(errs, fmt.Errorf("location.source: unknown source %q", c.Location.Source))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d out of range", c.Server.Port))
	}

	return errors.Join(errs...)
}

// Units returns the parsed units; call Validate first
func (c *Config) Units() models.Units {
	u, err := models.ParseUnits(c.Provider.Units)
	if err != nil {
		return models.Metric
	}
	return u
}

// Coordinates returns the static location
func (c *Config) Coordinates() models.Coordinates {
	return models.Coordinates{Latitude: c.Location.Latitude, Longitude: c.Location.Longitude}
}

// ProviderOptions translates the provider section for datasource.NewProvider
func (c *Config) ProviderOptions() datasource.Options {
	return datasource.Options{
		APIKey:  c.Provider.Key,
		BaseURL: c.Provider.URL,
		Units:   c.Units(),
		Timeout: c.Provider.Timeout,
	}
}
