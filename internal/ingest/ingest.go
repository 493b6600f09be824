// Package ingest runs batch jobs that pull external metadata into existing
// catalog records.
package ingest

import (
	"time"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Run records one pass of the enrichment backfill.
type Run struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	Status        string     `json:"status"`
	ConfigMax     int        `json:"config_max"`
	BooksScanned  int        `json:"books_scanned"`
	BooksEnriched int        `json:"books_enriched"`
	BooksFailed   int        `json:"books_failed"`
	Error         string     `json:"error,omitempty"`
}
