// Package feedgen renders persisted scrape results into the published
// site: one RSS digest per feed plus an index page listing every feed.
// Failed feeds render a visible error notice instead of pins so
// subscribers see a diagnosable message, never a silently stale feed.
package feedgen

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"pinfeed/pkg/models"
)

// Generator renders RSS documents from scrape results
type Generator struct {
	baseURL string
	now     func() time.Time
}

// NewGenerator creates a generator. baseURL is the public site root used
// for self links; it may be empty.
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: baseURL, now: time.Now}
}

// FeedXML renders one feed's RSS document. The whole run becomes a
// single digest item; a failed result becomes a single error item.
func (g *Generator) FeedXML(feed models.Feed, result *models.ScrapeResult, feedPath string) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	title := feed.Title
	if title == "" {
		title = feed.ID
	}
	g.writeElement(&buf, "title", title, 4)
	g.writeElement(&buf, "link", "https://www.pinterest.com", 4)
	description := feed.Description
	if description == "" {
		description = fmt.Sprintf("Pinterest board digest for %s", title)
	}
	g.writeElement(&buf, "description", description, 4)

	if g.baseURL != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(g.baseURL+feedPath)))
	}

	g.writeElement(&buf, "lastBuildDate", g.now().Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", "pinfeed", 4)

	if result != nil {
		g.writeDigestItem(&buf, feed, result, title)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String()
}

func (g *Generator) writeDigestItem(buf *bytes.Buffer, feed models.Feed, result *models.ScrapeResult, title string) {
	buf.WriteString("    <item>\n")

	itemDate := g.now()
	if result.Failed() {
		if !result.Err.Timestamp.IsZero() {
			itemDate = result.Err.Timestamp
		}
		g.writeElement(buf, "title", fmt.Sprintf("%s: scrape failed", title), 6)
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(errorHTML(result.Err))
		buf.WriteString("]]></content:encoded>\n")
	} else {
		if len(result.Pins) > 0 && !result.Pins[0].ScrapedAt.IsZero() {
			itemDate = result.Pins[0].ScrapedAt
		}
		g.writeElement(buf, "title", fmt.Sprintf("%s: latest pins", title), 6)
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(digestHTML(title, result.Pins, g.now()))
		buf.WriteString("]]></content:encoded>\n")
	}

	buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"false\">%s-%d</guid>\n",
		html.EscapeString(feed.ID), itemDate.Unix()))
	g.writeElement(buf, "pubDate", itemDate.Format(time.RFC1123Z), 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
