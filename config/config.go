// Package config loads propagator presets and logging configuration from
// a TOML file, the way the teacher's config.go loaded SPICE/ephemeris
// settings: a package-level singleton populated on first use from a
// directory named by the SMD_CONFIG environment variable.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"smd/errctrl"
	"smd/propagator"
)

var (
	cfgLoaded = false
	cached    Config
)

// Config holds everything a cmd/propagate-style entry point needs beyond
// the dynamics model itself: propagator presets per scenario name and the
// go-kit/log level to run at.
type Config struct {
	LogLevel   string
	Propagator map[string]propagator.Options
}

// tomlPropagatorOptions mirrors the [propagator.*] TOML tables; duration
// and error-controller fields need translation before becoming a
// propagator.Options, so viper unmarshals into this shape first.
type tomlPropagatorOptions struct {
	InitStep    string  `mapstructure:"init_step"`
	MinStep     string  `mapstructure:"min_step"`
	MaxStep     string  `mapstructure:"max_step"`
	Tolerance   float64 `mapstructure:"tolerance"`
	MaxAttempts int     `mapstructure:"max_attempts"`
	FixedStep   bool    `mapstructure:"fixed_step"`
	ErrCtrl     string  `mapstructure:"err_ctrl"` // "rss" or "rss_pv"
}

// Load reads conf.toml from the directory named by the SMD_CONFIG
// environment variable and returns the parsed Config. Grounded on the
// teacher's smdConfig()'s viper.SetConfigName/AddConfigPath/ReadInConfig
// sequence, narrowed to the [general], [propagator.*] tables this module
// actually uses.
func Load() (Config, error) {
	if cfgLoaded {
		return cached, nil
	}
	confPath := os.Getenv("SMD_CONFIG")
	if confPath == "" {
		return Config{}, fmt.Errorf("config: environment variable SMD_CONFIG is missing or empty")
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: %s/conf.toml not found: %w", confPath, err)
	}

	cfg := Config{
		LogLevel:   viper.GetString("general.log_level"),
		Propagator: make(map[string]propagator.Options),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	raw := make(map[string]tomlPropagatorOptions)
	if err := viper.UnmarshalKey("propagator", &raw); err != nil {
		return Config{}, fmt.Errorf("config: could not parse [propagator] tables: %w", err)
	}
	for name, t := range raw {
		opts, err := t.toOptions()
		if err != nil {
			return Config{}, fmt.Errorf("config: propagator.%s: %w", name, err)
		}
		cfg.Propagator[name] = opts
	}

	cached = cfg
	cfgLoaded = true
	return cfg, nil
}

func (t tomlPropagatorOptions) toOptions() (propagator.Options, error) {
	opts := propagator.Options{
		Tolerance:   t.Tolerance,
		MaxAttempts: t.MaxAttempts,
		FixedStep:   t.FixedStep,
	}
	var err error
	if opts.InitStep, err = time.ParseDuration(t.InitStep); err != nil {
		return opts, fmt.Errorf("init_step: %w", err)
	}
	if opts.MinStep, err = time.ParseDuration(t.MinStep); err != nil {
		return opts, fmt.Errorf("min_step: %w", err)
	}
	if opts.MaxStep, err = time.ParseDuration(t.MaxStep); err != nil {
		return opts, fmt.Errorf("max_step: %w", err)
	}
	switch t.ErrCtrl {
	case "", "rss_pv":
		opts.ErrCtrl = errctrl.RSSStepPV{}
	case "rss":
		opts.ErrCtrl = errctrl.RSSStep{}
	default:
		return opts, fmt.Errorf("unknown err_ctrl %q", t.ErrCtrl)
	}
	return opts, nil
}
