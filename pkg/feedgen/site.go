package feedgen

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"pinfeed/pkg/logger"
	"pinfeed/pkg/models"
	"pinfeed/pkg/storage"
)

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>pinfeed</title>
    <style>
        body {
            font-family: system-ui, -apple-system, sans-serif;
            max-width: 800px;
            margin: 2rem auto;
            padding: 0 1rem;
            line-height: 1.5;
            color: #333;
        }
        .feed-card {
            border: 1px solid #eee;
            padding: 1.5rem;
            margin: 1rem 0;
            border-radius: 8px;
            background: white;
        }
        .feed-card.failed {
            border-color: #e0b4b4;
            background: #fff6f6;
        }
        h1, h2 { margin: 0 0 0.5rem 0; }
        p { margin: 0 0 1rem 0; color: #666; }
        footer { margin-top: 2rem; color: #666; }
    </style>
</head>
<body>
    <h1>pinfeed</h1>
    <p>Auto-generated Pinterest board digests</p>
{{range .Feeds}}
    <div class="feed-card{{if .Failed}} failed{{end}}">
        <h2>{{.Title}}</h2>
        {{if .Description}}<p>{{.Description}}</p>{{end}}
        {{if .Failed}}<p>Last update failed: {{.ErrorKind}}</p>{{end}}
        <a href="{{.Path}}">Subscribe to RSS feed</a>
    </div>
{{end}}
    <footer>
        <p>Last updated: {{.UpdatedAt}}</p>
    </footer>
</body>
</html>
`

type indexFeed struct {
	Title       string
	Description string
	Path        string
	Failed      bool
	ErrorKind   string
}

type indexData struct {
	Feeds     []indexFeed
	UpdatedAt string
}

// Site renders the public directory: per-feed RSS files plus the index
type Site struct {
	gen       *Generator
	store     *storage.Manager
	publicDir string
	log       logger.Logger
}

// NewSite creates a site renderer writing under publicDir
func NewSite(gen *Generator, store *storage.Manager, publicDir string, log logger.Logger) *Site {
	return &Site{gen: gen, store: store, publicDir: publicDir, log: log}
}

// Generate renders every feed with a persisted result and the index
// page. Feeds without a result yet are listed but get no RSS file.
func (s *Site) Generate(users []models.User) error {
	if err := os.MkdirAll(filepath.Join(s.publicDir, "feeds"), 0755); err != nil {
		return fmt.Errorf("failed to create public directory: %w", err)
	}

	var index []indexFeed
	for _, user := range users {
		for _, feed := range user.Feeds {
			entry := indexFeed{
				Title:       feed.Title,
				Description: feed.Description,
				Path:        feedPath(user.ID, feed.ID),
			}
			if entry.Title == "" {
				entry.Title = feed.ID
			}

			result, err := s.store.ReadResult(user.ID, feed.ID)
			if err != nil {
				if !os.IsNotExist(err) {
					s.log.WithError(err).WithFields(map[string]interface{}{
						"user_id": user.ID,
						"feed_id": feed.ID,
					}).Warn("Unreadable result, skipping feed")
				}
				index = append(index, entry)
				continue
			}

			if result.Failed() {
				entry.Failed = true
				entry.ErrorKind = result.Err.Kind
			}

			if err := s.writeFeedXML(user.ID, feed, result); err != nil {
				return err
			}
			index = append(index, entry)
		}
	}

	return s.writeIndex(index)
}

func (s *Site) writeFeedXML(userID string, feed models.Feed, result *models.ScrapeResult) error {
	path := filepath.Join(s.publicDir, "feeds", userID, feed.ID+".xml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create feed directory: %w", err)
	}

	doc := s.gen.FeedXML(feed, result, feedPath(userID, feed.ID))
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write feed %s/%s: %w", userID, feed.ID, err)
	}
	return nil
}

func (s *Site) writeIndex(feeds []indexFeed) error {
	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse index template: %w", err)
	}

	f, err := os.Create(filepath.Join(s.publicDir, "index.html"))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer f.Close()

	data := indexData{
		Feeds:     feeds,
		UpdatedAt: s.gen.now().Format("2 Jan 2006 15:04 MST"),
	}
	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}
	return nil
}

func feedPath(userID, feedID string) string {
	return "/feeds/" + userID + "/" + feedID + ".xml"
}
