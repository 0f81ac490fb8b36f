// Package cmd implements the CLI of the application.
//
// serve - Connect to the game server and run the bot
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"teebot/internal/app"
)

var cfgFile string //nolint:gochecknoglobals

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "teebot",
	Short: "Teeworlds match commentator and voice channel wrangler",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	setupCLI()

	if errExecute := rootCmd.Execute(); errExecute != nil {
		os.Exit(1)
	}
}

func setupCLI() {
	if app.BuildVersion == "" {
		app.BuildVersion = "master"
	}

	rootCmd.Version = app.BuildVersion
	rootCmd.AddCommand(serveCmd())
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./teebot.yml)")
}
