package impl

import (
	"context"
	"testing"
	"time"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/service"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/persistence/memory"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawDeal(retailer, product, size string, price float64, start, end string) entity.RawDeal {
	return entity.RawDeal{
		Retailer: retailer,
		Product:  product,
		Size:     size,
		Price:    price,
		Start:    day(start),
		End:      day(end),
	}
}

func TestIngestService_RunIngestPass_LoadsFeed(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturePublisher{}
	feed := &fakeFeed{deals: []entity.RawDeal{
		rawDeal("Smart & Final", "Hass Avocados", "each", 0.99, "2026-08-19", "2026-08-25"),
		rawDeal("Smart & Final", "Chicken Breast", "per lb", 2.49, "2026-08-19", "2026-08-25"),
	}}

	ingest := NewIngestService(feed, &staticClassifier{category: entity.CategoryOther}, store, store, publisher, testLogger())

	summary, err := ingest.RunIngestPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 0, summary.Duplicates)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, store.DealCount())
}

func TestIngestService_RunIngestPass_RerunIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturePublisher{}
	feed := &fakeFeed{deals: []entity.RawDeal{
		rawDeal("Smart & Final", "Hass Avocados", "each", 0.99, "2026-08-19", "2026-08-25"),
		rawDeal("Smart & Final", "Chicken Breast", "per lb", 2.49, "2026-08-19", "2026-08-25"),
	}}

	ingest := NewIngestService(feed, &staticClassifier{category: entity.CategoryOther}, store, store, publisher, testLogger())

	_, err := ingest.RunIngestPass(context.Background())
	require.NoError(t, err)

	summary, err := ingest.RunIngestPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 2, summary.Duplicates)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, store.DealCount())
}

func TestIngestService_RunIngestPass_PriceChangeSameWindowIsDropped(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturePublisher{}

	ingest := NewIngestService(
		&fakeFeed{deals: []entity.RawDeal{
			rawDeal("Smart & Final", "Hass Avocados", "each", 0.99, "2026-08-19", "2026-08-25"),
			rawDeal("Smart & Final", "Hass Avocados", "each", 1.49, "2026-08-19", "2026-08-25"),
		}},
		&staticClassifier{category: entity.CategoryOther}, store, store, publisher, testLogger(),
	)

	summary, err := ingest.RunIngestPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Duplicates)

	views, err := store.ListActiveDeals(context.Background(), day("2026-08-19"))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.InDelta(t, 0.99, views[0].Price, 0.001)
}

func TestIngestService_RunIngestPass_BadRecordsFailAlone(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturePublisher{}
	feed := &fakeFeed{deals: []entity.RawDeal{
		rawDeal("Smart & Final", "Hass Avocados", "each", 0.99, "2026-08-19", "2026-08-25"),
		rawDeal("", "Nameless Retailer Deal", "each", 1.00, "2026-08-19", "2026-08-25"),
		rawDeal("Smart & Final", "Free Sample", "each", 0, "2026-08-19", "2026-08-25"),
		rawDeal("Smart & Final", "Backwards Window", "each", 1.00, "2026-08-25", "2026-08-19"),
		rawDeal("Smart & Final", "Whole Milk", "1 gal", 2.99, "2026-08-19", "2026-08-25"),
	}}

	ingest := NewIngestService(feed, &staticClassifier{category: entity.CategoryOther}, store, store, publisher, testLogger())

	summary, err := ingest.RunIngestPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 2, store.DealCount())
}

func TestIngestService_RunIngestPass_FeedFailureAborts(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturePublisher{}
	feed := &fakeFeed{err: errors.New("bucket unreachable")}

	ingest := NewIngestService(feed, &staticClassifier{category: entity.CategoryOther}, store, store, publisher, testLogger())

	_, err := ingest.RunIngestPass(context.Background())
	require.Error(t, err)
	assert.Empty(t, publisher.events)
}

func TestIngestService_RunIngestPass_NormalizationUnifiesProducts(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturePublisher{}

	// The embedded size token and messy spacing must resolve to the same
	// product as the clean record, making the second one a duplicate.
	feed := &fakeFeed{deals: []entity.RawDeal{
		rawDeal("Smart & Final", "Chicken Breast", "16 oz", 2.49, "2026-08-19", "2026-08-25"),
		rawDeal("Smart & Final", "Chicken  Breast 16 oz", "", 2.49, "2026-08-19", "2026-08-25"),
	}}

	ingest := NewIngestService(feed, &staticClassifier{category: entity.CategoryProtein}, store, store, publisher, testLogger())

	summary, err := ingest.RunIngestPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Duplicates)
}

func TestIngestService_RunIngestPass_ClassifierFillsMissingCategoryOnly(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturePublisher{}

	trusted := rawDeal("Smart & Final", "Mystery Box", "each", 5.00, "2026-08-19", "2026-08-25")
	trusted.Category = entity.CategoryPantry
	inferred := rawDeal("Smart & Final", "Unlabeled Item", "each", 3.00, "2026-08-19", "2026-08-25")

	ingest := NewIngestService(
		&fakeFeed{deals: []entity.RawDeal{trusted, inferred}},
		&staticClassifier{category: entity.CategorySnacks}, store, store, publisher, testLogger(),
	)

	_, err := ingest.RunIngestPass(context.Background())
	require.NoError(t, err)

	views, err := store.ListActiveDeals(context.Background(), day("2026-08-19"))
	require.NoError(t, err)
	require.Len(t, views, 2)

	categories := map[string]string{}
	for _, view := range views {
		categories[view.ProductName] = view.Category
	}
	assert.Equal(t, entity.CategoryPantry, categories["Mystery Box"])
	assert.Equal(t, entity.CategorySnacks, categories["Unlabeled Item"])
}

func TestIngestService_RunIngestPass_PublishesSummaryEvent(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturePublisher{}
	feed := &fakeFeed{deals: []entity.RawDeal{
		rawDeal("Smart & Final", "Hass Avocados", "each", 0.99, "2026-08-19", "2026-08-25"),
		rawDeal("", "Broken", "each", 1.00, "2026-08-19", "2026-08-25"),
	}}

	ingest := NewIngestService(feed, &staticClassifier{category: entity.CategoryOther}, store, store, publisher, testLogger())

	_, err := ingest.RunIngestPass(context.Background())
	require.NoError(t, err)

	event := publisher.last(t)
	assert.Equal(t, service.PassIngest, event.Pass)
	assert.Equal(t, 1, event.Inserted)
	assert.Equal(t, 1, event.Failed)
	assert.WithinDuration(t, time.Now(), event.StartedAt, time.Minute)
}
