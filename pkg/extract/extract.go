// Package extract pulls raw pin candidates out of a rendered board page.
// The page markup is unstable, so candidates are located by an ordered
// fallback chain of selector strategies; field extraction is deliberately
// coarse and cleanup happens in a later normalization step.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pinfeed/pkg/logger"
	"pinfeed/pkg/models"
)

var permalinkRe = regexp.MustCompile(`/pin/(\d+)`)

// fallbackCounter disambiguates generated ids within one process
var fallbackCounter atomic.Int64

// Extractor turns a rendered HTML document into raw pin candidates
type Extractor struct {
	strategies []Strategy
	log        logger.Logger
	now        func() time.Time
}

// New creates an extractor with the default strategy chain
func New(log logger.Logger) *Extractor {
	return &Extractor{
		strategies: Strategies(),
		log:        log,
		now:        time.Now,
	}
}

// Extract parses the page HTML and returns raw candidates from the first
// strategy that matches. Returns an empty slice when no strategy matches.
func (e *Extractor) Extract(html string) ([]models.Pin, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	for _, strategy := range e.strategies {
		candidates := strategy.Find(doc)
		if len(candidates) == 0 {
			continue
		}

		logger.LogStrategyHit(strategy.Name(), len(candidates))

		pins := make([]models.Pin, 0, len(candidates))
		for _, candidate := range candidates {
			if pin, ok := e.extractCandidate(candidate); ok {
				pins = append(pins, pin)
			}
		}
		return pins, nil
	}

	e.log.Debug("No selector strategy matched the page")
	return []models.Pin{}, nil
}

// extractCandidate pulls the raw fields from one container element.
// A candidate with neither image nor permalink is not a pin.
func (e *Extractor) extractCandidate(s *goquery.Selection) (models.Pin, bool) {
	pin := models.Pin{ScrapedAt: e.now()}

	if img := s.Find("img").First(); img.Length() > 0 {
		pin.Image, _ = img.Attr("src")
		pin.Title = strings.TrimSpace(img.AttrOr("alt", ""))
	}

	s.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if m := permalinkRe.FindStringSubmatch(href); m != nil {
			pin.URL = href
			pin.ID = m[1]
			return false
		}
		return true
	})

	if pin.Image == "" && pin.URL == "" {
		return models.Pin{}, false
	}

	if pin.ID == "" {
		pin.ID = e.fallbackID()
	}

	pin.Description = strings.TrimSpace(s.Text())

	return pin, true
}

// fallbackID generates an id for candidates without a permalink. Ids can
// still collide across runs; within a run the counter keeps them unique.
func (e *Extractor) fallbackID() string {
	return fmt.Sprintf("%d-%d", e.now().UnixMilli(), fallbackCounter.Add(1))
}
