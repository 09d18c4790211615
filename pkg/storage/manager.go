package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pinfeed/pkg/models"
)

// Manager persists per-feed scrape results under the data directory.
// Layout: <dataDir>/<userID>/<feedID>.json. Each run overwrites the
// previous file for that feed; no history is kept.
type Manager struct {
	dataDir string
}

// NewManager creates a storage manager rooted at dataDir
func NewManager(dataDir string) (*Manager, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Manager{dataDir: dataDir}, nil
}

// ResultPath returns the output path for one feed
func (m *Manager) ResultPath(userID, feedID string) string {
	return filepath.Join(m.dataDir, userID, feedID+".json")
}

// WriteResult atomically writes the result for one feed. The write goes
// to a temp file in the same directory, is synced, then renamed over the
// final path so readers never observe a partial file.
func (m *Manager) WriteResult(userID, feedID string, result *models.ScrapeResult) error {
	path := m.ResultPath(userID, feedID)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create user directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), feedID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write result: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize result: %w", err)
	}

	return nil
}

// ReadResult loads the persisted result for one feed
func (m *Manager) ReadResult(userID, feedID string) (*models.ScrapeResult, error) {
	data, err := os.ReadFile(m.ResultPath(userID, feedID))
	if err != nil {
		return nil, err
	}

	var result models.ScrapeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse result for %s/%s: %w", userID, feedID, err)
	}

	return &result, nil
}

// HasResult reports whether a persisted result exists for the feed
func (m *Manager) HasResult(userID, feedID string) bool {
	_, err := os.Stat(m.ResultPath(userID, feedID))
	return err == nil
}

// ListResults returns the feed ids with a persisted result for a user,
// in directory order
func (m *Manager) ListResults(userID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(m.dataDir, userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var feedIDs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		feedIDs = append(feedIDs, name[:len(name)-len(".json")])
	}
	return feedIDs, nil
}
