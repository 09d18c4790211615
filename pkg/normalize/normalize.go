// Package normalize post-processes raw pin candidates: image URL
// canonicalization, text cleanup, de-duplication and output truncation.
package normalize

import (
	"regexp"
	"strings"

	"pinfeed/pkg/models"
)

var (
	// Size-constrained CDN path segment, e.g. /236x/ or /736x/
	sizedPathRe = regexp.MustCompile(`/\d+x/`)

	// fit/crop query string appended by the grid renderer
	fitQueryRe = regexp.MustCompile(`\?fit=.*$`)

	// CSS transition fragments that leak into scraped container text
	styleFragmentRe = regexp.MustCompile(`(?i)[a-z-]+\s*\d*\.?\d+s\s+(?:ease|linear|cubic-bezier\([^)]*\))[^;,]*[;,]?`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Auto-generated accessibility alt text, not a human title
const placeholderPrefix = "this may contain"

// Ellipsis appended when a text field is cut at its cap
const ellipsis = "…"

// RewriteImageURL upgrades a thumbnail URL to the originals variant.
// Best effort: the rewritten URL may not exist on the CDN, which is why
// candidates are verified afterwards.
func RewriteImageURL(u string) string {
	if u == "" {
		return ""
	}
	u = sizedPathRe.ReplaceAllString(u, "/originals/")
	u = fitQueryRe.ReplaceAllString(u, "")
	return u
}

// CleanTitle strips placeholder alt text and caps the length.
// Returns empty when the title carries no human-authored content.
func CleanTitle(title string, maxLen int) string {
	title = cleanText(title)
	if strings.HasPrefix(strings.ToLower(title), placeholderPrefix) {
		return ""
	}
	return capRunes(title, maxLen)
}

// CleanDescription collapses whitespace and caps the length
func CleanDescription(desc string, maxLen int) string {
	return capRunes(cleanText(desc), maxLen)
}

// CleanPin applies title and description cleanup to one pin in place
func CleanPin(pin *models.Pin, titleMax, descMax int) {
	pin.Title = CleanTitle(pin.Title, titleMax)
	pin.Description = CleanDescription(pin.Description, descMax)
}

// Dedupe collapses pins sharing an id, keeping the first occurrence.
// Order is preserved; the input slice is not modified.
func Dedupe(pins []models.Pin) []models.Pin {
	seen := make(map[string]struct{}, len(pins))
	out := make([]models.Pin, 0, len(pins))
	for _, pin := range pins {
		if _, ok := seen[pin.ID]; ok {
			continue
		}
		seen[pin.ID] = struct{}{}
		out = append(out, pin)
	}
	return out
}

// Truncate bounds the output to at most max pins. A non-positive max
// leaves the list unchanged.
func Truncate(pins []models.Pin, max int) []models.Pin {
	if max <= 0 || len(pins) <= max {
		return pins
	}
	return pins[:max]
}

func cleanText(s string) string {
	s = styleFragmentRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// capRunes cuts at maxLen runes and appends the ellipsis marker.
// A non-positive cap disables capping.
func capRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return strings.TrimSpace(string(runes[:maxLen])) + ellipsis
}
