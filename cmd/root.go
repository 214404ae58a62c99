// Package cmd is the weather command line. The root command composes the
// subcommands and owns the global flags that feed config.Load.
package cmd

import (
	"fmt"
	"time"

	"weather-lookup/config"
	"weather-lookup/datasource"
	"weather-lookup/location"
	"weather-lookup/logging"
	"weather-lookup/lookup"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// A path to a yaml, json, toml or .env file to load configuration from
	cfgFile string
	// A .env file loaded into the environment before anything else
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "weather",
	Short: "Current weather by city name or location",
	Long: `Look up the current weather from OpenWeatherMap or WeatherAPI.

Settings come from defaults, an optional config file, WEATHER_* environment
variables and flags, each overriding the one before.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	defaults := config.Default()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json, toml or .env)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded into the environment")
	// defaults mirror config.Default so an unset flag never overrides a file or env value
	flags.String("provider", defaults.Provider.Name, "weather provider: openweathermap or weatherapi")
	flags.String("key", "", "provider API key")
	flags.String("units", defaults.Provider.Units, "metric or imperial")
	flags.Duration("timeout", defaults.Provider.Timeout, "HTTP timeout for provider requests (0 = transport default)")
	flags.Bool("supersede", defaults.Lookup.Supersede, "cancel an in-flight request when a new one starts")
	flags.String("log-level", defaults.Log.Level, "debug, info, warn or error")
	flags.String("log-format", defaults.Log.Format, "console or json")

	rootCmd.AddCommand(newCityCommand())
	rootCmd.AddCommand(newCoordsCommand())
	rootCmd.AddCommand(newHereCommand())
	rootCmd.AddCommand(newScreenCommand())
	rootCmd.AddCommand(newServeCommand())
}

// app is everything a subcommand needs, built from the loaded config
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	provider datasource.WeatherProvider
	fetcher  *datasource.Fetcher
	locator  location.Provider
}

func newApp(cmd *cobra.Command) (*app, error) {
	// a missing .env is normal
	envErr := config.LoadDotEnv(envFile)

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	if envErr != nil {
		logger.Debug("dotenv not loaded", zap.Error(envErr))
	}

	provider, err := datasource.NewProvider(cfg.Provider.Name, cfg.ProviderOptions())
	if err != nil {
		return nil, err
	}
	if cfg.RateLimit.Enabled {
		provider = datasource.NewRateLimitedProvider(provider, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		logger.Debug("applied rate limiting",
			zap.Float64("rps", cfg.RateLimit.RPS), zap.Int("burst", cfg.RateLimit.Burst))
	}

	var locator location.Provider
	switch cfg.Location.Source {
	case config.LocationStatic:
		locator = location.Static{Coordinates: cfg.Coordinates()}
	default:
		locator = location.NewIPLocator(cfg.Location.URL, locatorTimeout(cfg))
	}

	logger.Debug("configured",
		zap.String("provider", provider.Name()),
		zap.String("units", string(cfg.Units())),
		zap.String("location", cfg.Location.Source),
		zap.Bool("supersede", cfg.Lookup.Supersede))

	return &app{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		fetcher:  datasource.NewFetcher(provider),
		locator:  locator,
	}, nil
}

// locatorTimeout keeps the IP lookup from hanging when no provider timeout
// is configured
func locatorTimeout(cfg *config.Config) time.Duration {
	if cfg.Provider.Timeout > 0 {
		return cfg.Provider.Timeout
	}
	return 10 * time.Second
}

func (a *app) controllerOptions(extra ...lookup.Option) []lookup.Option {
	opts := []lookup.Option{
		lookup.WithLogger(a.logger),
		lookup.WithSupersede(a.cfg.Lookup.Supersede),
	}
	return append(opts, extra...)
}
