// Package cmd implements the command-line interface for chronoclip.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	cmdextract "github.com/is0692vs/chronoclip/cmd/extract"
	cmdhttpd "github.com/is0692vs/chronoclip/cmd/httpd"
	cmdrules "github.com/is0692vs/chronoclip/cmd/rules"
)

// version is set at build time.
var version = "1.0.0"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "chronoclip",
		Short: "Extract calendar-event candidates from page text",
		Long: `chronoclip turns unstructured page text into structured
calendar-event candidates: title, description, resolved start/end
date-time, and a confidence score.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("chronoclip version %s\n", version)
		},
	})

	rootCmd.AddCommand(cmdextract.Command(&cfgFile, &debug))
	rootCmd.AddCommand(cmdrules.Command(&cfgFile, &debug))
	rootCmd.AddCommand(cmdhttpd.Command(&cfgFile, &debug))
}
