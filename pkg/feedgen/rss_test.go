package feedgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinfeed/pkg/models"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
}

func newTestGenerator() *Generator {
	g := NewGenerator("https://example.org/pinfeed")
	g.now = fixedNow
	return g
}

func TestFeedXMLWithPins(t *testing.T) {
	feed := models.Feed{ID: "crafts", Title: "Craft Ideas", Description: "Weekly craft pins"}
	result := models.PinResult([]models.Pin{
		{
			ID:          "1",
			Title:       "Macrame wall hanging",
			Description: "Knotted cotton rope",
			Image:       "https://i.pinimg.com/originals/ab.jpg",
			URL:         "/pin/1/",
			ScrapedAt:   fixedNow().Add(-2 * time.Hour),
		},
	})

	doc := newTestGenerator().FeedXML(feed, result, "/feeds/default/crafts.xml")

	assert.Contains(t, doc, `<rss version="2.0"`)
	assert.Contains(t, doc, "<title>Craft Ideas</title>")
	assert.Contains(t, doc, "<description>Weekly craft pins</description>")
	assert.Contains(t, doc, `href="https://example.org/pinfeed/feeds/default/crafts.xml"`)
	assert.Contains(t, doc, "Craft Ideas: latest pins")
	assert.Contains(t, doc, "<content:encoded><![CDATA[")
	assert.Contains(t, doc, "https://i.pinimg.com/originals/ab.jpg")
	assert.Contains(t, doc, "Macrame wall hanging")
	assert.Contains(t, doc, "https://www.pinterest.com/pin/1/")
	assert.Contains(t, doc, "2 hours ago")
}

func TestFeedXMLWithError(t *testing.T) {
	feed := models.Feed{ID: "garden", Title: "Garden"}
	result := models.ErrorResult(models.KindAuthError, "session cookie rejected", fixedNow())

	doc := newTestGenerator().FeedXML(feed, result, "/feeds/default/garden.xml")

	assert.Contains(t, doc, "Garden: scrape failed")
	assert.Contains(t, doc, "AUTH_ERROR")
	assert.Contains(t, doc, "session cookie rejected")
	assert.NotContains(t, doc, "latest pins")
}

func TestFeedXMLEscaping(t *testing.T) {
	feed := models.Feed{ID: "x", Title: "Tips & <tricks>"}
	result := models.PinResult([]models.Pin{
		{ID: "1", Title: `"Quoted" & <bold>`, Image: "https://i.pinimg.com/originals/a.jpg"},
	})

	doc := newTestGenerator().FeedXML(feed, result, "/feeds/default/x.xml")

	assert.Contains(t, doc, "<title>Tips &amp; &lt;tricks&gt;</title>")
	// Inside CDATA, HTML escaping applies instead
	assert.Contains(t, doc, "&#34;Quoted&#34; &amp; &lt;bold&gt;")
	assert.NotContains(t, doc, "<bold>")
}

func TestFeedXMLFallsBackToFeedID(t *testing.T) {
	doc := newTestGenerator().FeedXML(models.Feed{ID: "untitled"}, models.PinResult(nil), "/feeds/default/untitled.xml")
	assert.Contains(t, doc, "<title>untitled</title>")
}

func TestFeedXMLGUIDStableForTimestamp(t *testing.T) {
	feed := models.Feed{ID: "crafts", Title: "Crafts"}
	result := models.ErrorResult(models.KindScrapeError, "no pins found", fixedNow())

	a := newTestGenerator().FeedXML(feed, result, "/feeds/default/crafts.xml")
	b := newTestGenerator().FeedXML(feed, result, "/feeds/default/crafts.xml")
	assert.Equal(t, a, b)

	guid := `<guid isPermaLink="false">crafts-`
	assert.Contains(t, a, guid)
}

func TestTimeAgo(t *testing.T) {
	now := fixedNow()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"one minute", now.Add(-90 * time.Second), "1 minute ago"},
		{"minutes", now.Add(-10 * time.Minute), "10 minutes ago"},
		{"one hour", now.Add(-time.Hour), "1 hour ago"},
		{"hours", now.Add(-5 * time.Hour), "5 hours ago"},
		{"one day", now.Add(-30 * time.Hour), "1 day ago"},
		{"days", now.Add(-8 * 24 * time.Hour), "8 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeAgo(tt.t, now))
		})
	}
}

func TestErrorHTML(t *testing.T) {
	rec := &models.ErrorRecord{Kind: models.KindScrapeError, Message: "no pins found on board", Timestamp: fixedNow()}
	out := errorHTML(rec)

	assert.Contains(t, out, "SCRAPE_ERROR")
	assert.Contains(t, out, "no pins found on board")
}

func TestDigestHTMLOmitsEmptyFields(t *testing.T) {
	out := digestHTML("Board", []models.Pin{{ID: "1", Image: "https://i.pinimg.com/originals/a.jpg"}}, fixedNow())

	assert.Contains(t, out, "https://i.pinimg.com/originals/a.jpg")
	assert.False(t, strings.Contains(out, "<h3"), "no title block without a title")
	assert.False(t, strings.Contains(out, "<a "), "no link without a permalink")
}

func TestFeedXMLNilResult(t *testing.T) {
	doc := newTestGenerator().FeedXML(models.Feed{ID: "new", Title: "New"}, nil, "/feeds/default/new.xml")
	require.NotContains(t, doc, "<item>")
	assert.Contains(t, doc, "<title>New</title>")
}
