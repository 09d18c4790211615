package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Pin is one scraped content item from a Pinterest board.
//
// The JSON shape matches what the feed renderer consumes: an id derived from
// the pin permalink (or a generated fallback when no permalink was found), the
// image URL rewritten to the originals CDN path, and the scrape timestamp.
type Pin struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	URL         string    `json:"url,omitempty"`
	ScrapedAt   time.Time `json:"timestamp"`
}

// Feed is one configured board-to-feed mapping. Exactly one of BoardID,
// BoardURL or ShareLink identifies the scrape target.
type Feed struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	BoardID     string   `yaml:"boardId,omitempty" json:"boardId,omitempty"`
	BoardURL    string   `yaml:"boardUrl,omitempty" json:"boardUrl,omitempty"`
	ShareLink   string   `yaml:"shareLink,omitempty" json:"shareLink,omitempty"`
	Schedule    []string `yaml:"schedule,omitempty" json:"schedule,omitempty"`
}

// Target resolves the feed's board identity to a navigable URL. Board URLs
// and share links are used as-is; a bare board id is treated as a path under
// the Pinterest base URL. Share links are short links that redirect to the
// board, which the browser follows on navigation.
func (f *Feed) Target(baseURL string) (string, error) {
	switch {
	case f.BoardURL != "":
		return f.BoardURL, nil
	case f.ShareLink != "":
		return f.ShareLink, nil
	case f.BoardID != "":
		return strings.TrimRight(baseURL, "/") + "/" + strings.Trim(f.BoardID, "/") + "/", nil
	}
	return "", fmt.Errorf("feed %q has no board identity", f.ID)
}

// User groups feeds under one tenant. The user id doubles as the output
// subdirectory name and as the suffix of the session env var.
type User struct {
	ID    string `yaml:"id" json:"id"`
	Feeds []Feed `yaml:"feeds" json:"feeds"`
}

// Error record kinds as persisted in per-feed result files.
const (
	KindAuthError    = "AUTH_ERROR"
	KindScrapeError  = "SCRAPE_ERROR"
	KindUnknownError = "UNKNOWN_ERROR"
)

// ErrorRecord is the persisted failure outcome for one feed.
type ErrorRecord struct {
	Kind      string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ScrapeResult is the per-feed outcome of one run: a verified pin list or an
// error record, never both. The renderer branches on the presence of Err.
type ScrapeResult struct {
	Pins []Pin
	Err  *ErrorRecord
}

// PinResult wraps a successful pin list.
func PinResult(pins []Pin) *ScrapeResult {
	return &ScrapeResult{Pins: pins}
}

// ErrorResult wraps a failure outcome.
func ErrorResult(kind, message string, at time.Time) *ScrapeResult {
	return &ScrapeResult{Err: &ErrorRecord{Kind: kind, Message: message, Timestamp: at}}
}

// Failed reports whether the result carries an error record.
func (r *ScrapeResult) Failed() bool {
	return r.Err != nil
}

// MarshalJSON writes either a pin array or an error object, preserving the
// pins-XOR-error file invariant.
func (r ScrapeResult) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(r.Err)
	}
	if r.Pins == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Pins)
}

// UnmarshalJSON accepts both persisted forms, sniffing the leading token.
func (r *ScrapeResult) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		r.Err = nil
		return json.Unmarshal(data, &r.Pins)
	}
	r.Pins = nil
	r.Err = &ErrorRecord{}
	return json.Unmarshal(data, r.Err)
}
