package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-csurf/app"
	"go-csurf/debug"
	"go-csurf/midi"
	"go-csurf/osc"
	"go-csurf/theme"
	"go-csurf/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the surface with the built-in session and the monitor",
	RunE: func(cmd *cobra.Command, args []string) error {
		console := tui.NewConsole(64)
		if !debugFlag {
			debug.SetOutput(console)
		}

		a, err := app.Build(cfg)
		if err != nil {
			return err
		}
		palette, err := midi.LoadPalette(cfg.MIDI.Palette)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var watcher *midi.Watcher
		if cfg.MIDI.Input != "" || cfg.MIDI.Output != "" {
			watcher = midi.NewWatcher(cfg.MIDI, cfg.Widgets)
			midi.Attach(a.Surface, cfg.Widgets, watcher.Send, palette)
			go watcher.Run(ctx)
		}

		var server *osc.Server
		if cfg.OSC.Listen != "" {
			if server, err = osc.NewServer(cfg.Widgets); err != nil {
				return err
			}
			if err := server.Listen(cfg.OSC.Listen); err != nil {
				return err
			}
			defer server.Close()
		}
		if cfg.OSC.Remote != "" {
			client, err := osc.NewClient(cfg.OSC.Remote)
			if err != nil {
				return err
			}
			osc.Attach(a.Surface, cfg.Widgets, client)
		}

		m := tui.NewModel(a, watcher, server, theme.New(nil), console)
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("monitor: %w", err)
		}

		if aliases := a.Surface.Aliases(); aliases != nil && aliases.Dirty() {
			return aliases.Save()
		}
		return nil
	},
}
