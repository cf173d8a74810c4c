package main

import (
	"fmt"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"go-csurf/midi"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ins, outs, err := midi.Ports()
		if err != nil {
			return fmt.Errorf("%w (fix: sudo killall coreaudiod midiserver)", err)
		}

		out := []string{"Dir | # | Name"}
		for i, p := range ins {
			out = append(out, fmt.Sprintf("in | %d | %s", i, p.String()))
		}
		for i, p := range outs {
			out = append(out, fmt.Sprintf("out | %d | %s", i, p.String()))
		}
		fmt.Printf("%s\n", columnize.SimpleFormat(out))
		return nil
	},
}
