package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-csurf/config"
	"go-csurf/debug"
)

var cfgFile string
var debugFlag bool
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "csurf",
	Short:        "Zone-driven control surface engine",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugFlag {
			if err := debug.Enable(""); err != nil {
				return err
			}
		}
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	dir, _ := config.ConfigDir()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default is %s/config.yaml)", dir))
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Write the debug log to ~/.config/csurf/debug.log")

	rootCmd.AddCommand(runCmd, checkCmd, portsCmd, genfxCmd)
}
