package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pinfeed/pkg/config"
	"pinfeed/pkg/feedgen"
	"pinfeed/pkg/logger"
	"pinfeed/pkg/models"
	"pinfeed/pkg/storage"
)

var (
	publicDir   string
	siteBaseURL string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the public site from persisted scrape results",
	Long: `Render the public site: one RSS digest file per feed under
public/feeds/<user>/<feed>.xml plus an index.html listing every feed.

Feeds whose last run failed render a visible error notice instead of
pins, so subscribers see a diagnosable message rather than a stale
feed. Feeds without any persisted result yet are listed on the index
but get no RSS file.`,
	Example: `  # Render with defaults (./data -> ./public)
  pinfeed generate

  # Render for a hosted site
  pinfeed generate --public-dir /srv/www/pinfeed --base-url https://feeds.example.org`,
	RunE: runGenerateCmd,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&publicDir, "public-dir", "p", "", "output directory for the rendered site (default: ./public)")
	generateCmd.Flags().StringVar(&siteBaseURL, "base-url", "", "public base URL used in feed self links")
	generateCmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "data directory with per-feed results (default: ./data)")
}

func runGenerateCmd(cmd *cobra.Command, args []string) error {
	flags := globalFlags()
	if publicDir != "" {
		flags["public-dir"] = publicDir
	}
	if siteBaseURL != "" {
		flags["base-url"] = siteBaseURL
	}
	if dataDir != "" {
		flags["data-dir"] = dataDir
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	users, err := config.LoadFeeds(cfg.Output.FeedsFile)
	if err != nil {
		return fmt.Errorf("failed to load feeds: %w", err)
	}

	return generateSite(cfg, users, logger.GetLogger())
}

func generateSite(cfg *config.Config, users []models.User, log logger.Logger) error {
	store, err := storage.NewManager(cfg.Output.DataDirectory)
	if err != nil {
		return fmt.Errorf("failed to open data directory: %w", err)
	}

	gen := feedgen.NewGenerator(cfg.Output.BaseURL)
	site := feedgen.NewSite(gen, store, cfg.Output.PublicDirectory, log)

	if err := site.Generate(users); err != nil {
		return fmt.Errorf("failed to generate site: %w", err)
	}

	fmt.Printf("Site generated in %s\n", cfg.Output.PublicDirectory)
	return nil
}
