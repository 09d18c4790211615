package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	feedsFile  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pinfeed",
	Short: "Turn Pinterest boards into RSS digest feeds",
	Long: `pinfeed scrapes configured Pinterest boards on a schedule and publishes
each one as an RSS digest feed.

A run logs in per user (session cookie or email/password), walks every
feed due today, extracts and verifies pins from the board page and
writes a JSON result per feed. The generate command renders those
results into the public RSS files and an index page.

Designed for cron: one invocation is one complete batch, with failures
contained per feed and recorded in the output.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .pinfeed.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&feedsFile, "feeds", "", "feeds file (default is ./feeds.json)")

	rootCmd.SetVersionTemplate(`pinfeed {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags builds the flag override map passed into config.Load
func globalFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if feedsFile != "" {
		flags["feeds"] = feedsFile
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}
