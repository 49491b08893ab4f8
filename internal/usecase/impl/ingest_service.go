package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "github.com/Chaitraputtabudhi/prox-deals-automation/internal/delivery/context"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	domainerrors "github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/errors"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/repository"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/service"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/usecase"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type ingestService struct {
	feed        service.DealFeed
	classifier  service.CategoryClassifier
	catalogRepo repository.CatalogRepository
	dealRepo    repository.DealRepository
	publisher   service.EventPublisher
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewIngestService creates a new ingestion pass service instance
func NewIngestService(
	feed service.DealFeed,
	classifier service.CategoryClassifier,
	catalogRepo repository.CatalogRepository,
	dealRepo repository.DealRepository,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.IngestUsecase {
	return &ingestService{
		feed:        feed,
		classifier:  classifier,
		catalogRepo: catalogRepo,
		dealRepo:    dealRepo,
		publisher:   publisher,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

// RunIngestPass fetches the feed and loads every record. One record's
// failure only bumps the Failed counter; the pass keeps going. Re-running
// the same feed is a no-op that lands entirely in Duplicates.
func (s *ingestService) RunIngestPass(ctx context.Context) (*usecase.IngestSummary, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)
	startedAt := time.Now()

	rawDeals, err := s.feed.FetchDeals(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "ingest pass aborted")
	}

	summary := &usecase.IngestSummary{}
	for i, raw := range rawDeals {
		outcome, err := s.ingestOne(ctx, &raw)
		if err != nil {
			summary.Failed++
			logger.Warn("deal record rejected",
				slog.Int("record", i),
				slog.String("retailer", raw.Retailer),
				slog.String("product", raw.Product),
				slog.Any("error", err),
			)

			continue
		}

		switch outcome {
		case repository.PutInserted:
			summary.Inserted++
		case repository.PutDuplicate:
			summary.Duplicates++
		}
	}

	logger.Info("ingest pass finished",
		slog.Int("inserted", summary.Inserted),
		slog.Int("duplicates", summary.Duplicates),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", time.Since(startedAt)),
	)

	s.publishSummary(ctx, logger, summary, startedAt)

	return summary, nil
}

// ingestOne runs the per-record pipeline: validate, normalize, resolve
// retailer and product, insert the deal.
func (s *ingestService) ingestOne(ctx context.Context, raw *entity.RawDeal) (repository.PutOutcome, error) {
	if err := s.validate.Struct(raw); err != nil {
		return 0, domainerrors.ErrDealValidation.Wrap(err)
	}
	if raw.End.Before(raw.Start) {
		return 0, domainerrors.ErrDealValidation.Wrap(errors.New("deal window ends before it starts"))
	}

	product, size := normalizeProduct(raw.Product, raw.Size)
	if product == "" {
		return 0, domainerrors.ErrDealValidation.Wrap(errors.New("product name is empty after normalization"))
	}

	category := raw.Category
	if category == "" {
		category = s.classifier.Classify(product)
	}

	retailerID, err := s.catalogRepo.ResolveRetailer(ctx, raw.Retailer)
	if err != nil {
		return 0, domainerrors.ErrRetailerResolution.Wrap(err)
	}

	productID, err := s.catalogRepo.ResolveProduct(ctx, product, size, category)
	if err != nil {
		return 0, domainerrors.ErrProductResolution.Wrap(err)
	}

	deal := &entity.Deal{
		RetailerID: retailerID,
		ProductID:  productID,
		Price:      raw.Price,
		StartDate:  raw.Start,
		EndDate:    raw.End,
	}

	return s.dealRepo.PutDeal(ctx, deal)
}

// publishSummary emits the pass summary event. Publishing is best effort;
// a publish failure never fails the pass that already ran.
func (s *ingestService) publishSummary(ctx context.Context, logger *slog.Logger, summary *usecase.IngestSummary, startedAt time.Time) {
	event := &service.PassSummaryEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Pass:       service.PassIngest,
		Inserted:   summary.Inserted,
		Duplicates: summary.Duplicates,
		Failed:     summary.Failed,
		StartedAt:  startedAt,
		Duration:   util.FormatDuration(time.Since(startedAt)),
	}

	if err := s.publisher.PublishPassSummary(ctx, event); err != nil {
		logger.Warn("failed to publish ingest pass summary", slog.Any("error", err))
	}
}
