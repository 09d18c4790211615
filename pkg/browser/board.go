package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"pinfeed/pkg/config"
)

// verifyImageJS runs a HEAD request from inside the page so it inherits
// the session's cookies and referrer. A plain HTTP client would see the
// CDN's anonymous behavior instead.
const verifyImageJS = `async (url) => {
	try {
		const resp = await fetch(url, { method: "HEAD" });
		return resp.ok;
	} catch (e) {
		return false;
	}
}`

// FetchBoard navigates to a board and returns the rendered HTML after
// lazy loading has been driven as far as configured. The board grid is
// virtual-scrolled, so fixed settle waits stand in for a completion
// signal the page does not offer.
func (b *Browser) FetchBoard(ctx context.Context, page *rod.Page, scfg *config.ScrapeConfig, url string) (string, error) {
	if err := page.Timeout(b.cfg.NavigationTimeout).Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate to board: %w", err)
	}
	if err := page.Timeout(b.cfg.NavigationTimeout).WaitLoad(); err != nil {
		return "", fmt.Errorf("failed waiting for board load: %w", err)
	}

	if err := sleep(ctx, scfg.SettleWait); err != nil {
		return "", err
	}

	// At least one image must render before extraction is worth running
	if _, err := page.Timeout(b.cfg.SelectorTimeout).Element("img"); err != nil {
		return "", fmt.Errorf("no image rendered within timeout: %w", err)
	}

	for i := 0; i < scfg.ScrollCycles; i++ {
		if err := page.Mouse.Scroll(0, float64(b.cfg.Height), 5); err != nil {
			b.log.WithError(err).Debug("Scroll failed")
			break
		}
		if err := sleep(ctx, scfg.ScrollWait); err != nil {
			return "", err
		}
	}

	if scfg.LoadMore {
		b.clickLoadMore(page, scfg)
	}

	if err := sleep(ctx, scfg.ExtraSettleWait); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to snapshot page: %w", err)
	}
	return html, nil
}

// clickLoadMore triggers the "more ideas" control when present. Absence
// is normal on boards without a suggestion section.
func (b *Browser) clickLoadMore(page *rod.Page, scfg *config.ScrapeConfig) {
	el, err := page.Timeout(2 * time.Second).ElementR("button", "(?i)more ideas")
	if err != nil {
		b.log.Debug("No load-more control on this board")
		return
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		b.log.WithError(err).Debug("Load-more click failed")
		return
	}
	time.Sleep(scfg.ScrollWait)
}

// VerifyImage checks that an image URL resolves, from within the page's
// network context. Failures are expected and only shrink the output set.
func (b *Browser) VerifyImage(page *rod.Page, url string) bool {
	res, err := page.Eval(verifyImageJS, url)
	if err != nil {
		return false
	}
	return res.Value.Bool()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
