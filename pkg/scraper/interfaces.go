package scraper

import (
	"context"

	"pinfeed/pkg/auth"
	"pinfeed/pkg/models"
)

// Session is one user's authenticated browsing context
type Session interface {
	// Login authenticates with the given credential. False is fatal for
	// the user's whole batch; callers must not retry.
	Login(ctx context.Context, cred *auth.Session) bool

	// FetchBoard returns the rendered HTML of a board page
	FetchBoard(ctx context.Context, url string) (string, error)

	// VerifyImage reports whether an image URL resolves
	VerifyImage(url string) bool

	// Close releases the session's page
	Close()
}

// SessionFactory opens browser sessions, one per user
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// Extractor pulls raw pin candidates from rendered HTML
type Extractor interface {
	Extract(html string) ([]models.Pin, error)
}

// ResultWriter persists the outcome for one feed
type ResultWriter interface {
	WriteResult(userID, feedID string, result *models.ScrapeResult) error
}

// CredentialSource resolves a user's session credential
type CredentialSource interface {
	Retrieve(userID string) (*auth.Session, error)
}

// Gate decides whether a feed's schedule includes today
type Gate interface {
	Due(days []string) bool
}
