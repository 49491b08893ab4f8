package repository

import (
	"context"
	"time"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
)

// PutOutcome reports what happened to a single deal insert.
type PutOutcome int

const (
	// PutInserted means the deal was new and is now stored.
	PutInserted PutOutcome = iota
	// PutDuplicate means a deal with the same (retailer, product, window
	// start) already exists. Duplicates are expected and are not errors.
	PutDuplicate
)

// String returns a log-friendly name for the outcome.
func (o PutOutcome) String() string {
	if o == PutDuplicate {
		return "duplicate"
	}

	return "inserted"
}

// DealRepository persists deals under the uniqueness invariant
// (retailer_id, product_id, start_date). The invariant must be enforced by
// the storage layer itself (a unique index or equivalent), never by a
// read-then-write check, so that overlapping ingestion runs stay safe.
type DealRepository interface {
	// PutDeal inserts the deal, returning PutDuplicate when the key tuple
	// already exists (first write wins; the stored row is untouched).
	PutDeal(ctx context.Context, deal *entity.Deal) (PutOutcome, error)

	// ListActiveDeals returns every deal whose window has not ended as of
	// the given date, joined with retailer and product, ordered by price
	// ascending. The ordering is a load-bearing contract: consumers filter
	// and truncate without re-sorting.
	ListActiveDeals(ctx context.Context, asOf time.Time) ([]entity.DealView, error)
}
