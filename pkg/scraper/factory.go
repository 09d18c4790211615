package scraper

import (
	"context"

	"pinfeed/pkg/browser"
	"pinfeed/pkg/config"
)

// RodSessionFactory opens sessions backed by one shared headless browser
type RodSessionFactory struct {
	browser *browser.Browser
	pcfg    *config.PinterestConfig
	scfg    *config.ScrapeConfig
	cache   *browser.StateCache
}

// NewRodSessionFactory wires the browser into the orchestrator. The
// state cache may be nil to disable session reuse across runs.
func NewRodSessionFactory(b *browser.Browser, pcfg *config.PinterestConfig, scfg *config.ScrapeConfig, cache *browser.StateCache) *RodSessionFactory {
	return &RodSessionFactory{browser: b, pcfg: pcfg, scfg: scfg, cache: cache}
}

// NewSession opens a page for one user
func (f *RodSessionFactory) NewSession(ctx context.Context) (Session, error) {
	return f.browser.NewSession(ctx, f.pcfg, f.scfg, "", f.cache)
}
