package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pinfeed/pkg/models"
)

func TestRewriteImageURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"sized path with fit query",
			"https://i.pinimg.com/236x/ab/cd/ef.jpg?fit=cover",
			"https://i.pinimg.com/originals/ab/cd/ef.jpg",
		},
		{
			"larger size token",
			"https://i.pinimg.com/736x/11/22/33.png",
			"https://i.pinimg.com/originals/11/22/33.png",
		},
		{
			"already originals",
			"https://i.pinimg.com/originals/ab/cd/ef.jpg",
			"https://i.pinimg.com/originals/ab/cd/ef.jpg",
		},
		{
			"fit query only",
			"https://i.pinimg.com/originals/ab/cd/ef.jpg?fit=crop&w=100",
			"https://i.pinimg.com/originals/ab/cd/ef.jpg",
		},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteImageURL(tt.input))
		})
	}
}

func TestCleanTitle(t *testing.T) {
	t.Run("placeholder alt text becomes empty", func(t *testing.T) {
		assert.Empty(t, CleanTitle("This may contain: a photo of a cat", 100))
		assert.Empty(t, CleanTitle("this may contain flowers and trees", 100))
	})

	t.Run("human title kept", func(t *testing.T) {
		assert.Equal(t, "Sourdough starter guide", CleanTitle("Sourdough starter guide", 100))
	})

	t.Run("whitespace collapsed", func(t *testing.T) {
		assert.Equal(t, "a b c", CleanTitle("  a\n\tb   c  ", 100))
	})

	t.Run("capped with ellipsis", func(t *testing.T) {
		got := CleanTitle(strings.Repeat("x", 120), 100)
		assert.Equal(t, 101, len([]rune(got)))
		assert.True(t, strings.HasSuffix(got, "…"))
	})
}

func TestCleanDescription(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "cozy reading nook", CleanDescription("cozy reading nook", 200))
	})

	t.Run("long text capped with ellipsis", func(t *testing.T) {
		got := CleanDescription(strings.Repeat("a", 500), 200)
		assert.Equal(t, 201, len([]rune(got)))
		assert.True(t, strings.HasSuffix(got, "…"))
	})

	t.Run("style fragments stripped", func(t *testing.T) {
		got := CleanDescription("nice pin opacity 0.2s ease-in-out; more text", 200)
		assert.NotContains(t, got, "ease")
		assert.Contains(t, got, "nice pin")
		assert.Contains(t, got, "more text")
	})

	t.Run("multibyte runes counted not bytes", func(t *testing.T) {
		got := CleanDescription(strings.Repeat("ä", 250), 200)
		assert.Equal(t, 201, len([]rune(got)))
	})
}

func TestDedupe(t *testing.T) {
	t.Run("keeps first occurrence", func(t *testing.T) {
		in := []models.Pin{
			{ID: "1", Title: "A"},
			{ID: "1", Title: "B"},
		}
		out := Dedupe(in)
		assert.Equal(t, []models.Pin{{ID: "1", Title: "A"}}, out)
	})

	t.Run("idempotent", func(t *testing.T) {
		in := []models.Pin{
			{ID: "1", Title: "A"},
			{ID: "2", Title: "B"},
			{ID: "3", Title: "C"},
		}
		once := Dedupe(in)
		twice := Dedupe(once)
		assert.Equal(t, once, twice)
	})

	t.Run("preserves order", func(t *testing.T) {
		in := []models.Pin{
			{ID: "3"}, {ID: "1"}, {ID: "3"}, {ID: "2"}, {ID: "1"},
		}
		out := Dedupe(in)
		assert.Equal(t, []string{"3", "1", "2"}, ids(out))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Dedupe(nil))
	})
}

func TestTruncate(t *testing.T) {
	pins := make([]models.Pin, 20)
	for i := range pins {
		pins[i] = models.Pin{ID: string(rune('a' + i))}
	}

	assert.Len(t, Truncate(pins, 15), 15)
	assert.Len(t, Truncate(pins[:10], 15), 10)
	assert.Len(t, Truncate(pins, 0), 20)
	assert.Equal(t, pins[:3], Truncate(pins, 3))
}

func ids(pins []models.Pin) []string {
	out := make([]string, len(pins))
	for i, p := range pins {
		out[i] = p.ID
	}
	return out
}
