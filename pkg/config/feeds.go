package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pinfeed/pkg/models"
	"pinfeed/pkg/schedule"
)

// DefaultUserID is the tenant id used when a feeds file declares a flat
// single-tenant feed list instead of a users block.
const DefaultUserID = "default"

// feedsFile is the on-disk shape of the feeds config. Multi-tenant files
// declare users; single-tenant files declare a flat feeds list. YAML and
// JSON are both accepted (yaml.v3 parses either).
type feedsFile struct {
	Users []models.User `yaml:"users" json:"users"`
	Feeds []models.Feed `yaml:"feeds" json:"feeds"`
}

// LoadFeeds reads the feeds config once and returns an immutable user list.
// A flat feeds list is wrapped into the default user. The result is passed
// into the orchestrator by the entry point; pipeline components never read
// config files themselves.
func LoadFeeds(path string) ([]models.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %w", err)
	}

	var f feedsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file: %w", err)
	}

	users := f.Users
	if len(users) == 0 && len(f.Feeds) > 0 {
		users = []models.User{{ID: DefaultUserID, Feeds: f.Feeds}}
	}
	if len(users) == 0 {
		return nil, errors.New("feeds file declares no users or feeds")
	}

	if err := validateUsers(users); err != nil {
		return nil, err
	}

	return users, nil
}

func validateUsers(users []models.User) error {
	var errs []error

	seenUsers := make(map[string]bool)
	for _, user := range users {
		if user.ID == "" {
			errs = append(errs, errors.New("user with empty id"))
			continue
		}
		if seenUsers[user.ID] {
			errs = append(errs, fmt.Errorf("duplicate user id %q", user.ID))
		}
		seenUsers[user.ID] = true

		seenFeeds := make(map[string]bool)
		for _, feed := range user.Feeds {
			if feed.ID == "" {
				errs = append(errs, fmt.Errorf("user %q has a feed with empty id", user.ID))
				continue
			}
			if seenFeeds[feed.ID] {
				errs = append(errs, fmt.Errorf("user %q has duplicate feed id %q", user.ID, feed.ID))
			}
			seenFeeds[feed.ID] = true

			identities := 0
			if feed.BoardID != "" {
				identities++
			}
			if feed.BoardURL != "" {
				identities++
			}
			if feed.ShareLink != "" {
				identities++
			}
			if identities == 0 {
				errs = append(errs, fmt.Errorf("feed %q needs one of boardId, boardUrl or shareLink", feed.ID))
			}
			if identities > 1 {
				errs = append(errs, fmt.Errorf("feed %q declares more than one board identity", feed.ID))
			}

			if err := schedule.ValidateDays(feed.Schedule); err != nil {
				errs = append(errs, fmt.Errorf("feed %q: %w", feed.ID, err))
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
