package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/Chaitraputtabudhi/prox-deals-automation/config"
	deliverycontext "github.com/Chaitraputtabudhi/prox-deals-automation/internal/delivery/context"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/repository"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/service"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/usecase"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/util"

	"github.com/pkg/errors"
)

type digestService struct {
	dealRepo      repository.DealRepository
	recipientRepo repository.RecipientRepository
	renderer      service.DigestRenderer
	mailer        service.DigestMailer
	publisher     service.EventPublisher
	maxItems      int
	logger        *slog.Logger
}

// NewDigestService creates a new send pass service instance
func NewDigestService(
	dealRepo repository.DealRepository,
	recipientRepo repository.RecipientRepository,
	renderer service.DigestRenderer,
	mailer service.DigestMailer,
	publisher service.EventPublisher,
	cfg *config.DigestConfig,
	logger *slog.Logger,
) usecase.DigestUsecase {
	return &digestService{
		dealRepo:      dealRepo,
		recipientRepo: recipientRepo,
		renderer:      renderer,
		mailer:        mailer,
		publisher:     publisher,
		maxItems:      cfg.MaxItems,
		logger:        logger,
	}
}

// RunSendPass takes a single active-deals snapshot and walks the recipient
// roster against it. Every recipient in the same pass sees the same
// snapshot; deals ingested mid-pass wait for the next run.
func (s *digestService) RunSendPass(ctx context.Context) (*usecase.SendSummary, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)
	startedAt := time.Now()
	now := time.Now()

	// Deal windows carry date precision, so the snapshot cutoff must too: a
	// deal is active through the whole of its last day, not until midnight.
	year, month, dayOfMonth := now.UTC().Date()
	today := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)

	activeDeals, err := s.dealRepo.ListActiveDeals(ctx, today)
	if err != nil {
		return nil, errors.Wrap(err, "send pass aborted: active deals snapshot failed")
	}

	recipients, err := s.recipientRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "send pass aborted: recipient listing failed")
	}

	summary := &usecase.SendSummary{}
	for _, recipient := range recipients {
		sent, err := s.sendOne(ctx, recipient, activeDeals, now)
		if err != nil {
			summary.Failed++
			logger.Warn("digest delivery failed",
				slog.String("email", recipient.Email),
				slog.Any("error", err),
			)

			continue
		}

		if sent {
			summary.Sent++
		} else {
			summary.SkippedEmpty++
			logger.Debug("no matching deals for recipient, skipping",
				slog.String("email", recipient.Email),
			)
		}
	}

	logger.Info("send pass finished",
		slog.Int("recipients", len(recipients)),
		slog.Int("sent", summary.Sent),
		slog.Int("skipped_empty", summary.SkippedEmpty),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", time.Since(startedAt)),
	)

	s.publishSummary(ctx, logger, summary, startedAt)

	return summary, nil
}

// sendOne builds and delivers one recipient's digest. It reports false with
// no error when the recipient's preferences matched nothing.
func (s *digestService) sendOne(ctx context.Context, recipient *entity.Recipient, activeDeals []entity.DealView, now time.Time) (bool, error) {
	filtered := entity.FilterDealsForRecipient(recipient, activeDeals)

	digest := entity.AssembleDigest(recipient, filtered, s.maxItems, now)
	if digest == nil {
		return false, nil
	}

	subject, body, err := s.renderer.Render(digest)
	if err != nil {
		return false, err
	}

	if err := s.mailer.Send(ctx, recipient.Email, subject, body); err != nil {
		return false, err
	}

	return true, nil
}

// publishSummary emits the pass summary event, best effort.
func (s *digestService) publishSummary(ctx context.Context, logger *slog.Logger, summary *usecase.SendSummary, startedAt time.Time) {
	event := &service.PassSummaryEvent{
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
		Pass:         service.PassSend,
		Sent:         summary.Sent,
		SkippedEmpty: summary.SkippedEmpty,
		Failed:       summary.Failed,
		StartedAt:    startedAt,
		Duration:     util.FormatDuration(time.Since(startedAt)),
	}

	if err := s.publisher.PublishPassSummary(ctx, event); err != nil {
		logger.Warn("failed to publish send pass summary", slog.Any("error", err))
	}
}
