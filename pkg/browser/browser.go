// Package browser wraps the headless Chrome session used for scraping.
// It owns launching, login (cookie injection or credential form) and the
// page-level capabilities the pipeline needs: navigate and settle a board
// page, trigger lazy loading, snapshot the rendered HTML and verify image
// URLs from inside the page's network context.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"pinfeed/pkg/auth"
	"pinfeed/pkg/config"
	"pinfeed/pkg/logger"
)

// Markers whose presence confirms a logged-in Pinterest session, tried
// in order
var loggedInMarkers = []string{
	`[data-test-id="header-profile"]`,
	`[aria-label="Profile"]`,
	`[data-test-id="homefeed-feed"]`,
}

// ErrBrowserNotFound means no Chrome or Chromium binary was found
var ErrBrowserNotFound = errors.New("browser executable not found")

// Browser is a launched headless Chrome instance
type Browser struct {
	cfg      *config.BrowserConfig
	log      logger.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// Launch starts a browser using the configured binary, or the first
// Chrome-like executable found on the system
func Launch(cfg *config.BrowserConfig, log logger.Logger) (*Browser, error) {
	bin := cfg.BinPath
	if bin == "" {
		found, ok := launcher.LookPath()
		if !ok {
			return nil, ErrBrowserNotFound
		}
		bin = found
	}

	l := launcher.New().Bin(bin).Headless(cfg.Headless)
	if cfg.NoSandbox {
		l = l.Set("no-sandbox")
	}
	l = l.Set("disable-blink-features", "AutomationControlled")

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	log.DebugWithFields("Browser launched", map[string]interface{}{
		"bin":      bin,
		"headless": cfg.Headless,
	})

	return &Browser{cfg: cfg, log: log, launcher: l, browser: b}, nil
}

// Close shuts down the browser and its launcher
func (b *Browser) Close() {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			b.log.WithError(err).Warn("Error closing browser")
		}
	}
	if b.launcher != nil {
		b.launcher.Cleanup()
	}
}

// NewPage opens a blank page with the configured viewport and user agent
func (b *Browser) NewPage(ctx context.Context, userAgent string) (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page = page.Context(ctx)

	if userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
			page.Close()
			return nil, fmt.Errorf("failed to set user agent: %w", err)
		}
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.cfg.Width,
		Height:            b.cfg.Height,
		DeviceScaleFactor: b.cfg.DeviceScaleFactor,
		Mobile:            false,
	}); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	return page, nil
}

// EnsureLogin produces an authenticated page for the session using cookie
// injection when a cookie is present, otherwise the credential form.
// Returns false on any failure; callers treat false as fatal for the
// whole user, never as retryable.
func (b *Browser) EnsureLogin(ctx context.Context, page *rod.Page, session *auth.Session, pcfg *config.PinterestConfig) bool {
	log := b.log.WithField("user_id", session.UserID)

	switch {
	case session.HasCookie():
		if err := b.loginWithCookie(page, session.Cookie, pcfg); err != nil {
			log.WithError(err).Warn("Cookie login failed")
			return false
		}
	case session.HasCredentials():
		if err := b.loginWithCredentials(page, session, pcfg); err != nil {
			log.WithError(err).Warn("Credential login failed")
			return false
		}
	default:
		log.Warn("Session has neither cookie nor credentials")
		return false
	}

	if !b.waitLoggedIn(page) {
		log.Warn("Logged-in marker not found")
		return false
	}

	log.Info("Login confirmed")
	return true
}

func (b *Browser) loginWithCookie(page *rod.Page, cookie string, pcfg *config.PinterestConfig) error {
	err := page.SetCookies([]*proto.NetworkCookieParam{{
		Name:     pcfg.SessionCookieName,
		Value:    cookie,
		Domain:   pcfg.CookieDomain,
		Path:     "/",
		Secure:   true,
		HTTPOnly: true,
	}})
	if err != nil {
		return fmt.Errorf("failed to set session cookie: %w", err)
	}

	if err := page.Navigate(pcfg.BaseURL); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed waiting for page load: %w", err)
	}
	return nil
}

func (b *Browser) loginWithCredentials(page *rod.Page, session *auth.Session, pcfg *config.PinterestConfig) error {
	if err := page.Navigate(pcfg.LoginURL); err != nil {
		return fmt.Errorf("failed to navigate to login page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed waiting for login page: %w", err)
	}

	email, err := page.Timeout(b.cfg.SelectorTimeout).Element("#email")
	if err != nil {
		return fmt.Errorf("email field not found: %w", err)
	}
	if err := email.Input(session.Email); err != nil {
		return fmt.Errorf("failed to fill email: %w", err)
	}

	password, err := page.Timeout(b.cfg.SelectorTimeout).Element("#password")
	if err != nil {
		return fmt.Errorf("password field not found: %w", err)
	}
	if err := password.Input(session.Password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}

	submit, err := page.Timeout(b.cfg.SelectorTimeout).Element(`button[type="submit"]`)
	if err != nil {
		return fmt.Errorf("submit button not found: %w", err)
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}

	return nil
}

// waitLoggedIn polls the known markers within the selector timeout
func (b *Browser) waitLoggedIn(page *rod.Page) bool {
	deadline := time.Now().Add(b.cfg.SelectorTimeout)
	for time.Now().Before(deadline) {
		for _, marker := range loggedInMarkers {
			if has, _, err := page.Has(marker); err == nil && has {
				return true
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

// Cookies returns the page's current cookies for the session state cache
func (b *Browser) Cookies(page *rod.Page) ([]*proto.NetworkCookie, error) {
	return page.Cookies(nil)
}

// RestoreCookies injects cached cookies into the page
func (b *Browser) RestoreCookies(page *rod.Page, cookies []*proto.NetworkCookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		})
	}
	return page.SetCookies(params)
}
