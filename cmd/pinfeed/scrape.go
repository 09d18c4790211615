package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pinfeed/pkg/auth"
	"pinfeed/pkg/browser"
	"pinfeed/pkg/config"
	"pinfeed/pkg/extract"
	"pinfeed/pkg/logger"
	"pinfeed/pkg/models"
	"pinfeed/pkg/ratelimit"
	"pinfeed/pkg/schedule"
	"pinfeed/pkg/scraper"
	"pinfeed/pkg/storage"
)

var (
	// Scrape command flags
	dataDir      string
	maxPins      int
	timezone     string
	headless     bool
	onlyUser     string
	noStateCache bool
	runGenerate  bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one scrape batch over all configured feeds",
	Long: `Run one complete scrape batch.

For every user in the feeds file: resolve the session credential
(PINFEED_SESSION_<USER> env var, keychain, or encrypted store), log in,
and scrape each feed whose schedule includes today. Each feed gets a
fresh JSON result: a verified pin list, or an error record when the
feed failed. Feeds not scheduled today are left untouched.

Exit code is zero as long as the batch itself ran; per-feed failures
live in the output files.`,
	Example: `  # Run the daily batch
  pinfeed scrape

  # Scrape a single user's feeds into a custom data directory
  pinfeed scrape --user alice --data-dir /srv/pinfeed/data

  # Scrape and regenerate the public site in one go
  pinfeed scrape --generate`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "data directory for per-feed results (default: ./data)")
	scrapeCmd.Flags().IntVar(&maxPins, "max-pins", 0, "maximum pins per feed")
	scrapeCmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for schedule evaluation")
	scrapeCmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	scrapeCmd.Flags().StringVarP(&onlyUser, "user", "u", "", "scrape only this user's feeds")
	scrapeCmd.Flags().BoolVar(&noStateCache, "no-state-cache", false, "always log in fresh, ignore cached browser state")
	scrapeCmd.Flags().BoolVar(&runGenerate, "generate", false, "regenerate the public site after scraping")
}

func runScrape(cmd *cobra.Command, args []string) error {
	flags := globalFlags()
	if dataDir != "" {
		flags["data-dir"] = dataDir
	}
	if maxPins > 0 {
		flags["max-pins"] = maxPins
	}
	if timezone != "" {
		flags["timezone"] = timezone
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("pinfeed starting")

	users, err := config.LoadFeeds(cfg.Output.FeedsFile)
	if err != nil {
		return fmt.Errorf("failed to load feeds: %w", err)
	}
	users = filterUsers(users, onlyUser)
	if len(users) == 0 {
		return fmt.Errorf("no users to scrape")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gate, err := schedule.NewGate(cfg.Schedule.Timezone)
	if err != nil {
		return err
	}

	store, err := storage.NewManager(cfg.Output.DataDirectory)
	if err != nil {
		return fmt.Errorf("failed to prepare data directory: %w", err)
	}

	creds, err := auth.NewManager(cfg.Pinterest.SessionEnvPrefix)
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	b, err := browser.Launch(&cfg.Browser, log)
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer b.Close()

	var cache *browser.StateCache
	if !noStateCache {
		cache, err = browser.NewStateCache(filepath.Join(cfg.Output.DataDirectory, ".state"), 7*24*time.Hour)
		if err != nil {
			log.WithError(err).Warn("State cache unavailable, continuing without it")
		}
	}

	limiter := ratelimit.NewTokenBucket(cfg.Scrape.PagesPerMinute, time.Minute)
	sessions := scraper.NewRodSessionFactory(b, &cfg.Pinterest, &cfg.Scrape, cache)
	orchestrator := scraper.New(cfg, sessions, extract.New(log), store, creds, gate, limiter, log)

	summary, err := orchestrator.Run(ctx, users)
	if err != nil {
		return fmt.Errorf("run aborted: %w", err)
	}

	fmt.Printf("Scraped %d feeds (%d failed, %d skipped)\n",
		summary.FeedsScraped, summary.FeedsFailed, summary.FeedsSkipped)

	if runGenerate {
		return generateSite(cfg, users, log)
	}
	return nil
}

func filterUsers(users []models.User, only string) []models.User {
	if only == "" {
		return users
	}
	for _, user := range users {
		if user.ID == only {
			return []models.User{user}
		}
	}
	return nil
}
