// Package scraper orchestrates a full scrape run: per user, resolve the
// session credential and log in; per due feed, navigate the board,
// extract candidates, normalize and persist the outcome. Users and feeds
// are processed strictly in order, and every failure is converted into a
// persisted error record at the feed or user boundary rather than
// aborting the run.
package scraper
