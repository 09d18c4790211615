package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"pinfeed/pkg/models"
)

func TestErrorString(t *testing.T) {
	plain := New(KindScrape, "no pins found on board")
	assert.Equal(t, "scrape error: no pins found on board", plain.Error())

	wrapped := Wrap(KindAuth, "login rejected", fmt.Errorf("status 403"))
	assert.Equal(t, "auth error: login rejected: status 403", wrapped.Error())
}

func TestUnwrapChain(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Wrap(KindNavigation, "failed to load board", cause)

	assert.True(t, stderrors.Is(err, cause))

	var classified *Error
	assert.True(t, stderrors.As(fmt.Errorf("feed home: %w", err), &classified))
	assert.Equal(t, KindNavigation, classified.Kind)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindAuth, KindOf(New(KindAuth, "no session")))
	assert.Equal(t, KindScrape, KindOf(fmt.Errorf("wrapped: %w", New(KindScrape, "empty"))))
	assert.Equal(t, KindUnknown, KindOf(stderrors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestRecordKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth", New(KindAuth, "no session"), models.KindAuthError},
		{"scrape", New(KindScrape, "no pins found on board"), models.KindScrapeError},
		{"navigation", Wrap(KindNavigation, "timeout", stderrors.New("deadline")), models.KindScrapeError},
		{"extraction", New(KindExtraction, "no strategy matched"), models.KindScrapeError},
		{"config", New(KindConfig, "bad feeds file"), models.KindUnknownError},
		{"plain error", stderrors.New("panic: nil deref"), models.KindUnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecordKind(tt.err))
		})
	}
}
