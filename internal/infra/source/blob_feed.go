// Package source reads deal feeds from blob storage. Feed files are JSON
// arrays of flat deal records, the shape the scraper uploads.
package source

import (
	"context"
	"encoding/json"

	"github.com/Chaitraputtabudhi/prox-deals-automation/config"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	domainerrors "github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/errors"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/service"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
)

// blobFeed implements service.DealFeed on top of a gocloud blob bucket. The
// bucket URL scheme picks the driver (file://, gs://, s3://); drivers are
// registered by blank imports at the composition root.
type blobFeed struct {
	bucketURL string
	object    string
}

// NewBlobFeed is the constructor for blobFeed.
func NewBlobFeed(cfg *config.FeedConfig) service.DealFeed {
	return &blobFeed{
		bucketURL: cfg.BucketURL,
		object:    cfg.Object,
	}
}

// FetchDeals opens the configured bucket, reads the feed object and decodes
// it. Records are returned as-is; validation and normalization happen in the
// ingest pass so one malformed record fails alone instead of failing the
// whole fetch.
func (f *blobFeed) FetchDeals(ctx context.Context) ([]entity.RawDeal, error) {
	bucket, err := blob.OpenBucket(ctx, f.bucketURL)
	if err != nil {
		return nil, domainerrors.ErrFeedUnavailable.Wrap(errors.Wrap(err, "failed to open feed bucket"))
	}
	defer bucket.Close()

	reader, err := bucket.NewReader(ctx, f.object, nil)
	if err != nil {
		return nil, domainerrors.ErrFeedUnavailable.Wrap(errors.Wrapf(err, "failed to open feed object %q", f.object))
	}
	defer reader.Close()

	var deals []entity.RawDeal
	if err := json.NewDecoder(reader).Decode(&deals); err != nil {
		return nil, domainerrors.ErrFeedUnavailable.Wrap(errors.Wrap(err, "failed to decode feed payload"))
	}

	return deals, nil
}
