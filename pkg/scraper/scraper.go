package scraper

import (
	"context"
	"fmt"
	"time"

	"pinfeed/pkg/auth"
	"pinfeed/pkg/config"
	pferrors "pinfeed/pkg/errors"
	"pinfeed/pkg/logger"
	"pinfeed/pkg/models"
	"pinfeed/pkg/normalize"
	"pinfeed/pkg/ratelimit"
)

// Orchestrator drives one full run across all configured users and
// feeds. Processing is strictly sequential; failures are contained at
// the feed boundary (scrape/unknown) or the user boundary (auth) and
// persisted as error records instead of aborting the run.
type Orchestrator struct {
	cfg      *config.Config
	sessions SessionFactory
	extract  Extractor
	store    ResultWriter
	creds    CredentialSource
	gate     Gate
	limiter  ratelimit.Limiter
	log      logger.Logger
	now      func() time.Time
}

// RunSummary reports per-feed outcomes of one run
type RunSummary struct {
	FeedsScraped int
	FeedsFailed  int
	FeedsSkipped int
	UsersFailed  int
}

// New creates an orchestrator
func New(cfg *config.Config, sessions SessionFactory, extract Extractor, store ResultWriter, creds CredentialSource, gate Gate, limiter ratelimit.Limiter, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		sessions: sessions,
		extract:  extract,
		store:    store,
		creds:    creds,
		gate:     gate,
		limiter:  limiter,
		log:      log,
		now:      time.Now,
	}
}

// Run processes every user in order. The returned error is nil unless
// the run could not start at all; per-feed failures live in the summary
// and in the persisted error records.
func (o *Orchestrator) Run(ctx context.Context, users []models.User) (*RunSummary, error) {
	summary := &RunSummary{}

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		o.runUser(ctx, user, summary)
	}

	o.log.InfoWithFields("Run complete", map[string]interface{}{
		"scraped": summary.FeedsScraped,
		"failed":  summary.FeedsFailed,
		"skipped": summary.FeedsSkipped,
	})
	return summary, nil
}

// runUser processes one user's feeds. Nothing that happens here may
// abort the run; sibling users must still be attempted.
func (o *Orchestrator) runUser(ctx context.Context, user models.User, summary *RunSummary) {
	log := o.log.WithField("user_id", user.ID)

	due := make([]models.Feed, 0, len(user.Feeds))
	for _, feed := range user.Feeds {
		if o.gate.Due(feed.Schedule) {
			due = append(due, feed)
		} else {
			// Not scheduled today: leave the previous run's artifact alone
			summary.FeedsSkipped++
			log.WithField("feed_id", feed.ID).Debug("Feed not scheduled today")
		}
	}
	if len(due) == 0 {
		log.Debug("No feeds due today")
		return
	}

	cred, err := o.creds.Retrieve(user.ID)
	if err != nil {
		log.WithError(err).Warn("No session credential")
		logger.LogSessionLookup(user.ID, auth.EnvVarName(o.cfg.Pinterest.SessionEnvPrefix, user.ID), false, 0)
		o.failUser(user.ID, due, "session credential not found", summary)
		return
	}
	logger.LogSessionLookup(user.ID, auth.EnvVarName(o.cfg.Pinterest.SessionEnvPrefix, user.ID), true, len(cred.Cookie))

	session, err := o.sessions.NewSession(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to open browser session")
		o.failUser(user.ID, due, fmt.Sprintf("failed to open browser session: %v", err), summary)
		return
	}
	defer session.Close()

	if !session.Login(ctx, cred) {
		log.Warn("Login failed, failing all due feeds")
		o.failUser(user.ID, due, "login failed", summary)
		return
	}

	for _, feed := range due {
		if err := ctx.Err(); err != nil {
			return
		}
		o.runFeed(ctx, session, user.ID, feed, summary)
	}
}

// failUser writes an auth error record for every due feed without
// attempting navigation
func (o *Orchestrator) failUser(userID string, due []models.Feed, message string, summary *RunSummary) {
	summary.UsersFailed++
	for _, feed := range due {
		result := models.ErrorResult(models.KindAuthError, message, o.now())
		o.writeResult(userID, feed.ID, result, summary)
	}
}

// runFeed processes one feed end to end and always persists an outcome.
// A panic inside the pipeline becomes an UNKNOWN_ERROR record for this
// feed only.
func (o *Orchestrator) runFeed(ctx context.Context, session Session, userID string, feed models.Feed, summary *RunSummary) {
	defer func() {
		if r := recover(); r != nil {
			o.log.WithFields(map[string]interface{}{
				"user_id": userID,
				"feed_id": feed.ID,
				"panic":   fmt.Sprint(r),
			}).Error("Feed processing panicked")
			result := models.ErrorResult(models.KindUnknownError, fmt.Sprintf("internal error: %v", r), o.now())
			o.writeResult(userID, feed.ID, result, summary)
		}
	}()

	pins, err := o.scrapeFeed(ctx, session, feed)
	if err != nil {
		result := models.ErrorResult(pferrors.RecordKind(err), err.Error(), o.now())
		o.writeResult(userID, feed.ID, result, summary)
		return
	}

	o.writeResult(userID, feed.ID, models.PinResult(pins), summary)
}

// scrapeFeed navigates, extracts and normalizes one feed. A nil error
// guarantees at least one verified pin.
func (o *Orchestrator) scrapeFeed(ctx context.Context, session Session, feed models.Feed) ([]models.Pin, error) {
	target, err := feed.Target(o.cfg.Pinterest.BaseURL)
	if err != nil {
		return nil, pferrors.Wrap(pferrors.KindScrape, "invalid board identity", err)
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return nil, pferrors.Wrap(pferrors.KindUnknown, "run cancelled", err)
	}

	html, err := session.FetchBoard(ctx, target)
	if err != nil {
		return nil, pferrors.Wrap(pferrors.KindScrape, "failed to load board", err)
	}

	candidates, err := o.extract.Extract(html)
	if err != nil {
		return nil, pferrors.Wrap(pferrors.KindScrape, "failed to extract pins", err)
	}

	verified := make([]models.Pin, 0, len(candidates))
	for _, pin := range candidates {
		pin.Image = normalize.RewriteImageURL(pin.Image)
		if pin.Image == "" || !session.VerifyImage(pin.Image) {
			continue
		}
		normalize.CleanPin(&pin, o.cfg.Scrape.TitleMaxLen, o.cfg.Scrape.DescMaxLen)
		verified = append(verified, pin)
	}

	pins := normalize.Truncate(normalize.Dedupe(verified), o.cfg.Scrape.MaxPins)
	if len(pins) == 0 {
		return nil, pferrors.New(pferrors.KindScrape, "no pins found on board")
	}
	return pins, nil
}

func (o *Orchestrator) writeResult(userID, feedID string, result *models.ScrapeResult, summary *RunSummary) {
	if err := o.store.WriteResult(userID, feedID, result); err != nil {
		o.log.WithError(err).WithFields(map[string]interface{}{
			"user_id": userID,
			"feed_id": feedID,
		}).Error("Failed to persist result")
		summary.FeedsFailed++
		return
	}

	if result.Failed() {
		summary.FeedsFailed++
		logger.LogFeedResult(userID, feedID, 0, result.Err.Kind)
	} else {
		summary.FeedsScraped++
		logger.LogFeedResult(userID, feedID, len(result.Pins), "")
	}
}
