// sim runs the character controller headless and prints a per-step trace.
//
// Usage:
//
//	sim run                          - run the default level with the player tuning
//	sim run --level box --script hop - drive the body with a tengo script
//	sim levels                       - list embedded levels
//
// Options are read from RAYCTL_* environment variables first; flags win.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/milk9111/raycontroller/config"
	"github.com/spf13/cobra"
)

var (
	opts config.Options
	// envErr holds a RAYCTL_* parse failure; flags cannot repair it.
	envErr error
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sim",
	Short: "Headless kinematic controller simulator",
	Long: `sim steps a kinematic body through a tile level with a fixed time step
and prints its position, velocity and contacts after every step.

Examples:
  sim run
  sim run --level box --script hop --steps 240
  sim run --caster boxes --fps 30`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return checkOptions(opts, envErr)
	},
}

func init() {
	loaded, err := config.Load()
	if errors.Is(err, config.ErrParseEnv) {
		envErr = err
		loaded = config.Defaults()
	}
	opts = loaded

	rootCmd.PersistentFlags().StringVar(&opts.Level, "level", opts.Level, "Level name")
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", opts.Debug, "Record debug rays and log at debug level")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(levelsCmd)
}

// checkOptions runs after flags are parsed, so a validation error from the
// environment may already be fixed by a flag. A parse error may not.
func checkOptions(o config.Options, envErr error) error {
	if envErr != nil {
		return envErr
	}
	return o.Validate()
}
