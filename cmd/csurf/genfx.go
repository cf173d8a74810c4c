package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-csurf/app"
	"go-csurf/zonefile"
)

var fxTrack, fxSlot int
var fxOutput string

var genfxCmd = &cobra.Command{
	Use:   "genfx",
	Short: "Write the zone generated from FXLayout for a session FX",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Build(cfg)
		if err != nil {
			return err
		}
		z, err := a.GenerateFX(fxTrack, fxSlot)
		if err != nil {
			return err
		}

		if fxOutput == "" {
			return zonefile.Write(os.Stdout, z)
		}
		f, err := os.Create(fxOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", fxOutput, err)
		}
		defer f.Close()
		return zonefile.Write(f, z)
	},
}

func init() {
	genfxCmd.Flags().IntVarP(&fxTrack, "track", "t", 1, "track number (1-based)")
	genfxCmd.Flags().IntVarP(&fxSlot, "slot", "s", 0, "FX slot (0-based)")
	genfxCmd.Flags().StringVarP(&fxOutput, "output", "o", "", "output file (default stdout)")
}
