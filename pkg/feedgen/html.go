package feedgen

import (
	"fmt"
	"html"
	"strings"
	"time"

	"pinfeed/pkg/models"
)

// digestHTML renders the pin grid embedded in the digest item. Inline
// styles only, because RSS readers strip stylesheets.
func digestHTML(title string, pins []models.Pin, now time.Time) string {
	var b strings.Builder

	b.WriteString(`<div style="max-width: 800px; margin: 0 auto; padding: 20px; font-family: Georgia, serif;">`)
	b.WriteString(`<div style="text-align: center; margin-bottom: 40px;">`)
	fmt.Fprintf(&b, `<h1 style="font-size: 2em; color: #1a1a1a; margin: 0; font-weight: 300;">%s</h1>`, html.EscapeString(title))
	b.WriteString(`</div>`)

	b.WriteString(`<div style="display: flex; flex-wrap: wrap; gap: 20px; justify-content: center;">`)
	for _, pin := range pins {
		b.WriteString(`<div style="flex: 1 1 300px; max-width: 400px; background: white; box-shadow: 0 1px 3px rgba(0,0,0,0.1);">`)

		alt := pin.Title
		if alt == "" {
			alt = "Pin"
		}
		fmt.Fprintf(&b, `<img src="%s" alt="%s" style="width: 100%%; display: block;">`,
			html.EscapeString(pin.Image), html.EscapeString(alt))

		b.WriteString(`<div style="padding: 16px;">`)
		if pin.Title != "" {
			fmt.Fprintf(&b, `<h3 style="margin: 0 0 8px 0; font-size: 18px; color: #1a1a1a;">%s</h3>`, html.EscapeString(pin.Title))
		}
		if pin.Description != "" {
			fmt.Fprintf(&b, `<p style="margin: 0 0 12px 0; color: #666; font-size: 14px;">%s</p>`, html.EscapeString(pin.Description))
		}
		if pin.URL != "" {
			fmt.Fprintf(&b, `<a href="%s" style="color: #666; text-decoration: none; font-size: 14px;">View on Pinterest</a>`,
				html.EscapeString(absolutePinURL(pin.URL)))
		}
		if !pin.ScrapedAt.IsZero() {
			fmt.Fprintf(&b, `<p style="margin: 8px 0 0 0; color: #999; font-size: 12px;">%s</p>`,
				html.EscapeString(timeAgo(pin.ScrapedAt, now)))
		}
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</div></div>`)

	return b.String()
}

// errorHTML renders the failure notice for a feed whose run failed
func errorHTML(rec *models.ErrorRecord) string {
	var b strings.Builder

	b.WriteString(`<div style="max-width: 600px; margin: 0 auto; padding: 20px; font-family: Georgia, serif;">`)
	b.WriteString(`<div style="border: 1px solid #e0b4b4; background: #fff6f6; border-radius: 8px; padding: 20px;">`)
	fmt.Fprintf(&b, `<h2 style="margin: 0 0 8px 0; color: #9f3a38;">Feed update failed (%s)</h2>`, html.EscapeString(rec.Kind))
	fmt.Fprintf(&b, `<p style="margin: 0; color: #666;">%s</p>`, html.EscapeString(rec.Message))
	if !rec.Timestamp.IsZero() {
		fmt.Fprintf(&b, `<p style="margin: 8px 0 0 0; color: #999; font-size: 12px;">%s</p>`,
			html.EscapeString(rec.Timestamp.Format(time.RFC1123)))
	}
	b.WriteString(`</div></div>`)

	return b.String()
}

func absolutePinURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://www.pinterest.com" + u
}

// timeAgo renders a coarse human duration for digest display
func timeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		n := int(d.Minutes())
		if n == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", n)
	case d < 24*time.Hour:
		n := int(d.Hours())
		if n == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", n)
	default:
		n := int(d.Hours() / 24)
		if n == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", n)
	}
}
