package main

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/milk9111/raycontroller/levels"
	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List embedded levels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := fs.Glob(levels.LevelsFS, "*.json")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range names {
			lvl, err := levels.Load(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-12s %dx%d solids=%d\n",
				strings.TrimSuffix(name, ".json"), lvl.Width, lvl.Height, len(lvl.SolidRects()))
		}
		return nil
	},
}
