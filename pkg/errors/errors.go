package errors

import (
	"errors"
	"fmt"

	"pinfeed/pkg/models"
)

// Kind classifies where in the pipeline an error originated
type Kind string

const (
	KindAuth       Kind = "auth"
	KindNavigation Kind = "navigation"
	KindExtraction Kind = "extraction"
	KindScrape     Kind = "scrape"
	KindConfig     Kind = "config"
	KindUnknown    Kind = "unknown"
)

// Error carries pipeline kind information alongside the message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of a classified error, or KindUnknown for anything
// outside the taxonomy
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// RecordKind maps a pipeline error onto the persisted record taxonomy.
// Auth failures fan out per user; a scrape kind means extraction completed
// with zero verified pins; everything else is contained as unknown.
func RecordKind(err error) string {
	switch KindOf(err) {
	case KindAuth:
		return models.KindAuthError
	case KindScrape, KindNavigation, KindExtraction:
		return models.KindScrapeError
	default:
		return models.KindUnknownError
	}
}
