// Package storage persists per-feed scrape results as JSON files. Writes
// are atomic so an external renderer reading the data directory never
// sees a half-written result.
package storage
