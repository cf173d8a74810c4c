package main

import (
	"fmt"
	"strings"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"go-csurf/app"
	"go-csurf/zonefile"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse the zone folder and report problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := zonefile.LoadIndex(cfg.ZoneFolder)
		if err != nil {
			return err
		}
		session, err := app.NewSession(cfg.Session)
		if err != nil {
			return err
		}

		out := []string{"Zone | Alias | Bindings | Includes | File"}
		for _, name := range ix.Names() {
			z, _ := ix.Lookup(name)
			out = append(out, fmt.Sprintf("%s | %s | %d | %s | %s:%d",
				z.Name, z.Alias, len(z.Bindings), strings.Join(z.Included, ","), z.Path, z.Line))
		}
		fmt.Printf("%s\n", columnize.SimpleFormat(out))

		errs := ix.Errors()
		problems := app.Check(ix, cfg.Widgets, cfg.Channels, app.Catalogue(session))
		for _, e := range errs {
			fmt.Printf("error: %v\n", e)
		}
		for _, p := range problems {
			fmt.Printf("warning: %v\n", p)
		}
		if _, ok := ix.Lookup("Home"); !ok {
			return fmt.Errorf("%s has no Home zone", cfg.ZoneFolder)
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d zone files failed to parse", len(errs))
		}
		return nil
	},
}
