package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/milk9111/raycontroller/config"
	"github.com/milk9111/raycontroller/ecs"
	"github.com/milk9111/raycontroller/scene"
	"github.com/spf13/cobra"
)

var flagCaster string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a level and print a per-step trace",
	Long: `Run the simulation for a fixed number of steps.

Each row shows the body after the step:
  step x y vx vy below above left right

Contact changes are printed on their own line below the row of the step
that produced them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSim(cmd.OutOrStdout(), opts, flagCaster)
	},
}

func init() {
	runCmd.Flags().StringVar(&opts.Tuning, "tuning", opts.Tuning, "Tuning spec under prefabs/")
	runCmd.Flags().StringVar(&opts.Script, "script", opts.Script, "Input script under prefabs/scripts/ (default: the spec's script)")
	runCmd.Flags().IntVar(&opts.Steps, "steps", opts.Steps, "Number of steps to run")
	runCmd.Flags().IntVar(&opts.FPS, "fps", opts.FPS, "Steps per simulated second")
	runCmd.Flags().StringVar(&flagCaster, "caster", scene.CasterSpace, "Ray caster: space or boxes")
}

func runSim(out io.Writer, o config.Options, caster string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	logger := o.NewLogger(os.Stderr, "sim")

	s, err := scene.New(scene.Config{
		Level:  o.Level,
		Tuning: o.Tuning,
		Script: o.Script,
		Delta:  o.Delta(),
		Caster: caster,
		Debug:  o.Debug,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "step\tx\ty\tvx\tvy\tbelow\tabove\tleft\tright\t")

	landings := 0
	for i := 0; i < o.Steps; i++ {
		events, err := s.Step()
		if err != nil {
			return err
		}
		writeRow(tw, i, s)
		for _, evt := range events {
			if evt.Kind == ecs.ContactLanded {
				landings++
			}
			fmt.Fprintf(tw, "\t%s\t\t\t\t\t\t\t\t\n", evt.Kind)
		}
		if o.Debug {
			logger.Debug("rays", "step", i, "count", len(s.Body.Probe().Rays()))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	pos := s.Body.Position()
	logger.Info("simulation done", "steps", o.Steps, "x", pos.X, "y", pos.Y, "landings", landings)
	return nil
}

func writeRow(w io.Writer, step int, s *scene.Scene) {
	pos := s.Body.Position()
	vel := s.Body.Velocity()
	c := s.Body.Contacts()
	fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.3f\t%.3f\t%s\t%s\t%s\t%s\t\n",
		step, pos.X, pos.Y, vel.X, vel.Y,
		flag(c.Below), flag(c.Above), flag(c.Left), flag(c.Right))
}

func flag(b bool) string {
	if b {
		return "x"
	}
	return "-"
}
