package browser

import (
	"context"

	"github.com/go-rod/rod"

	"pinfeed/pkg/auth"
	"pinfeed/pkg/config"
)

// Session is one user's authenticated page plus the capabilities the
// pipeline drives through it
type Session struct {
	b     *Browser
	page  *rod.Page
	pcfg  *config.PinterestConfig
	scfg  *config.ScrapeConfig
	cache *StateCache
}

// NewSession opens a fresh page for one user. The state cache is
// optional; pass nil to always perform a full login.
func (b *Browser) NewSession(ctx context.Context, pcfg *config.PinterestConfig, scfg *config.ScrapeConfig, userAgent string, cache *StateCache) (*Session, error) {
	if userAgent == "" {
		userAgent = pcfg.UserAgent
	}
	page, err := b.NewPage(ctx, userAgent)
	if err != nil {
		return nil, err
	}
	return &Session{b: b, page: page, pcfg: pcfg, scfg: scfg, cache: cache}, nil
}

// Login authenticates the session. Cached browser state is tried first
// and re-validated against the logged-in marker; a stale cache falls
// back to the credential's own strategy. A fresh successful login
// refreshes the cache.
func (s *Session) Login(ctx context.Context, cred *auth.Session) bool {
	if s.cache != nil {
		if cookies, err := s.cache.Load(cred.UserID); err == nil {
			if err := s.b.RestoreCookies(s.page, cookies); err == nil {
				if err := s.page.Navigate(s.pcfg.BaseURL); err == nil {
					if err := s.page.WaitLoad(); err == nil && s.b.waitLoggedIn(s.page) {
						s.b.log.WithField("user_id", cred.UserID).Debug("Cached session still valid")
						return true
					}
				}
			}
			_ = s.cache.Clear(cred.UserID)
		}
	}

	if !s.b.EnsureLogin(ctx, s.page, cred, s.pcfg) {
		return false
	}

	if s.cache != nil {
		if cookies, err := s.b.Cookies(s.page); err == nil {
			if err := s.cache.Save(cred.UserID, cookies); err != nil {
				s.b.log.WithError(err).Debug("Failed to cache session state")
			}
		}
	}
	return true
}

// FetchBoard navigates to the board and returns the rendered HTML
func (s *Session) FetchBoard(ctx context.Context, url string) (string, error) {
	return s.b.FetchBoard(ctx, s.page, s.scfg, url)
}

// VerifyImage checks an image URL from the page's network context
func (s *Session) VerifyImage(url string) bool {
	return s.b.VerifyImage(s.page, url)
}

// Close closes the session's page
func (s *Session) Close() {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.b.log.WithError(err).Debug("Error closing page")
		}
	}
}
