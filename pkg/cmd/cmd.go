// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	debug   bool

	rootCmd = &cobra.Command{
		Use:   "dropvault",
		Short: "A transient content-addressed file sharing service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose debug output")

	registerConfigsCommands()
	registerDBCommands()
	registerServeCommand()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
