package service

import (
	"context"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
)

// DealFeed produces the normalized raw deal records for one ingestion pass.
// Implementations may read a scraper's JSON output from a blob store, a
// local file, or an API; the ingestion core does not care which.
type DealFeed interface {
	// FetchDeals returns the full batch for this pass. A feed-level failure
	// is systemic and aborts the pass; per-record problems surface later as
	// validation failures.
	FetchDeals(ctx context.Context) ([]entity.RawDeal, error)
}
