// Package config reads runtime options shared by the demo and the headless
// simulator.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// ErrParseEnv wraps a RAYCTL_* variable that could not be parsed.
var ErrParseEnv = errors.New("config: parse env")

// Options are read from the environment first; command line flags override
// them.
type Options struct {
	Level    string `env:"RAYCTL_LEVEL"     envDefault:"playground"`
	Tuning   string `env:"RAYCTL_TUNING"    envDefault:"player.yaml"`
	Script   string `env:"RAYCTL_SCRIPT"`
	Debug    bool   `env:"RAYCTL_DEBUG"`
	Steps    int    `env:"RAYCTL_STEPS"     envDefault:"300"`
	FPS      int    `env:"RAYCTL_FPS"       envDefault:"60"`
	LogLevel string `env:"RAYCTL_LOG_LEVEL" envDefault:"info"`
}

// Defaults mirrors the envDefault tags.
func Defaults() Options {
	return Options{
		Level:    "playground",
		Tuning:   "player.yaml",
		Steps:    300,
		FPS:      60,
		LogLevel: "info",
	}
}

// Load parses Options from the process environment.
func Load() (Options, error) {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrParseEnv, err)
	}
	return opts, opts.Validate()
}

// LoadFrom parses Options from an explicit variable map, ignoring the
// process environment.
func LoadFrom(vars map[string]string) (Options, error) {
	var opts Options
	if err := env.ParseWithOptions(&opts, env.Options{Environment: vars}); err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrParseEnv, err)
	}
	return opts, opts.Validate()
}

func (o Options) Validate() error {
	if strings.TrimSpace(o.Level) == "" {
		return fmt.Errorf("config: level must not be empty")
	}
	if o.Steps < 0 {
		return fmt.Errorf("config: steps must be >= 0, got %d", o.Steps)
	}
	if o.FPS <= 0 {
		return fmt.Errorf("config: fps must be > 0, got %d", o.FPS)
	}
	if _, err := log.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}
	return nil
}

// Delta is the fixed step length implied by FPS.
func (o Options) Delta() float64 {
	return 1 / float64(o.FPS)
}

// NewLogger builds a logger at the configured level. Debug forces debug
// logging regardless of LogLevel.
func (o Options) NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if o.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}
