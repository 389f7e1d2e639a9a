// SPDX-License-Identifier: EPL-2.0

// Package config loads audmix settings from defaults, an optional config
// file, AUDMIX_* environment variables and command-line flags, in rising
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ik5/audmix"
)

const envPrefix = "AUDMIX"

// Config is the resolved configuration of one run.
type Config struct {
	LogLevel string `mapstructure:"loglevel"`
	LogFile  string `mapstructure:"logfile"`

	// Block is the number of frames mixed per render call.
	Block int `mapstructure:"block"`
	// Outputs is the output channel count; 0 derives it from the crosspoints
	// or falls back to a mono downmix.
	Outputs int `mapstructure:"outputs"`
	// Exclusive silences every crosspoint not listed.
	Exclusive bool `mapstructure:"exclusive"`
	// Crosspoints are "in:out=gain" entries.
	Crosspoints []string `mapstructure:"crosspoints"`
	// Rate resamples the input before mixing when non-zero.
	Rate int `mapstructure:"rate"`
	// Resampler is "cubic" or "sinc"; Quality (0-10) applies to sinc.
	Resampler string `mapstructure:"resampler"`
	Quality   int    `mapstructure:"quality"`
	BitDepth  int    `mapstructure:"bitdepth"`
}

const (
	ResamplerCubic = "cubic"
	ResamplerSinc  = "sinc"
)

var (
	ErrInvalidBlock      = errors.New("block must be positive")
	ErrInvalidOutputs    = errors.New("outputs must not be negative")
	ErrInvalidRate       = errors.New("rate must not be negative")
	ErrInvalidBitDepth   = errors.New("bitdepth must be 16, 24 or 32")
	ErrInvalidResampler  = errors.New("resampler must be cubic or sinc")
	ErrInvalidQuality    = errors.New("quality must be between 0 and 10")
	ErrInvalidCrosspoint = errors.New("invalid crosspoint")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("loglevel", "info")
	v.SetDefault("logfile", "")
	v.SetDefault("block", 1024)
	v.SetDefault("outputs", 0)
	v.SetDefault("exclusive", false)
	v.SetDefault("crosspoints", []string{})
	v.SetDefault("rate", 0)
	v.SetDefault("resampler", ResamplerSinc)
	v.SetDefault("quality", 10)
	v.SetDefault("bitdepth", 16)
}

// New returns a viper instance with the audmix defaults and environment
// binding in place.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	return v
}

// BindFlags lets every flag in fs whose name is a config key override it.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			errs = append(errs, err)
		}
	})

	return errors.Join(errs...)
}

// Load reads path, if given, into v and returns the merged configuration.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
			slog.Info("no config file found", "configFilePath", path)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return c, c.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Block <= 0 {
		errs = append(errs, ErrInvalidBlock)
	}
	if c.Outputs < 0 {
		errs = append(errs, ErrInvalidOutputs)
	}
	if c.Rate < 0 {
		errs = append(errs, ErrInvalidRate)
	}
	if c.Resampler != ResamplerCubic && c.Resampler != ResamplerSinc {
		errs = append(errs, ErrInvalidResampler)
	}
	if c.Quality < 0 || c.Quality > 10 {
		errs = append(errs, ErrInvalidQuality)
	}
	switch c.BitDepth {
	case 16, 24, 32:
	default:
		errs = append(errs, ErrInvalidBitDepth)
	}
	for _, s := range c.Crosspoints {
		cp, err := audmix.ParseCrosspoint(s)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidCrosspoint, err))
		case cp.In < 0 || cp.Out < 0:
			errs = append(errs, fmt.Errorf("%w: %q has a negative channel", ErrInvalidCrosspoint, s))
		}
	}

	return errors.Join(errs...)
}
