package usecase

import (
	"context"
)

// IngestSummary reports what one ingestion pass did. Duplicates are an
// expected outcome of re-running a feed, not a failure.
type IngestSummary struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// IngestUsecase defines the interface for the feed ingestion pass
type IngestUsecase interface {
	// RunIngestPass fetches the configured feed and loads every record:
	// validate, normalize, resolve retailer and product, insert the deal.
	// Individual record failures are counted and do not stop the pass;
	// a feed that cannot be read at all aborts with an error.
	RunIngestPass(ctx context.Context) (*IngestSummary, error)
}
