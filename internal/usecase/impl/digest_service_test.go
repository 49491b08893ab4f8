package impl

import (
	"context"
	"testing"
	"time"

	"github.com/Chaitraputtabudhi/prox-deals-automation/config"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/service"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/persistence/memory"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digestConfig(maxItems int) *config.DigestConfig {
	return &config.DigestConfig{MaxItems: maxItems, SubjectPrefix: "Your weekly deals:"}
}

func seedRecipient(t *testing.T, store *memory.Store, name, email string, preferred []string) {
	t.Helper()
	require.NoError(t, store.Upsert(context.Background(), &entity.Recipient{
		Name:               name,
		Email:              email,
		PreferredRetailers: preferred,
	}))
}

func seedActiveWeek(t *testing.T, store *memory.Store) {
	t.Helper()

	start := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 6).Format("2006-01-02")

	seedDeal(t, store, "Smart & Final", "Avocados", "each", entity.CategoryProduce, 0.99, start, end)
	seedDeal(t, store, "Grocery Outlet", "Eggs", "dozen", entity.CategoryDairy, 1.99, start, end)
	seedDeal(t, store, "Smart & Final", "Chicken Breast", "per lb", entity.CategoryProtein, 2.49, start, end)
}

func TestDigestService_RunSendPass_DeliversPerPreference(t *testing.T) {
	store := memory.NewStore()
	seedActiveWeek(t, store)
	seedRecipient(t, store, "Ana", "ana@example.com", []string{"Smart & Final"})
	seedRecipient(t, store, "Mia", "mia@example.com", nil)

	renderer := &fakeRenderer{}
	mailer := &fakeMailer{}
	publisher := &capturePublisher{}

	digest := NewDigestService(store, store, renderer, mailer, publisher, digestConfig(6), testLogger())

	summary, err := digest.RunSendPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Sent)
	assert.Equal(t, 0, summary.SkippedEmpty)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, mailer.sent, 2)

	// Recipients are visited in email order.
	assert.Equal(t, "ana@example.com", mailer.sent[0].address)
	assert.Equal(t, "mia@example.com", mailer.sent[1].address)

	// Ana's digest holds only her preferred retailer's deals, cheapest first.
	require.Len(t, renderer.rendered, 2)
	anaDigest := renderer.rendered[0]
	require.Len(t, anaDigest.Items, 2)
	assert.Equal(t, "Avocados", anaDigest.Items[0].ProductName)
	assert.Equal(t, "Chicken Breast", anaDigest.Items[1].ProductName)

	// Mia has no preferences and sees everything.
	assert.Len(t, renderer.rendered[1].Items, 3)
}

func TestDigestService_RunSendPass_EmptyMatchIsSkippedNotFailed(t *testing.T) {
	store := memory.NewStore()
	seedActiveWeek(t, store)
	seedRecipient(t, store, "Ana", "ana@example.com", []string{"Costco"})

	renderer := &fakeRenderer{}
	mailer := &fakeMailer{}
	publisher := &capturePublisher{}

	digest := NewDigestService(store, store, renderer, mailer, publisher, digestConfig(6), testLogger())

	summary, err := digest.RunSendPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 1, summary.SkippedEmpty)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, mailer.sent)
}

func TestDigestService_RunSendPass_IncludesDealsOnTheirLastDay(t *testing.T) {
	store := memory.NewStore()
	start := time.Now().UTC().AddDate(0, 0, -6).Format("2006-01-02")
	end := time.Now().UTC().Format("2006-01-02")
	seedDeal(t, store, "Smart & Final", "Avocados", "each", entity.CategoryProduce, 0.99, start, end)
	seedRecipient(t, store, "Ana", "ana@example.com", nil)

	mailer := &fakeMailer{}
	digest := NewDigestService(store, store, &fakeRenderer{}, mailer, &capturePublisher{}, digestConfig(6), testLogger())

	summary, err := digest.RunSendPass(context.Background())
	require.NoError(t, err)

	// A deal whose window ends today is still active for today's pass.
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 0, summary.SkippedEmpty)
	require.Len(t, mailer.sent, 1)
}

func TestDigestService_RunSendPass_NoActiveDealsSkipsEveryone(t *testing.T) {
	store := memory.NewStore()
	seedRecipient(t, store, "Ana", "ana@example.com", nil)
	seedRecipient(t, store, "Mia", "mia@example.com", nil)

	digest := NewDigestService(store, store, &fakeRenderer{}, &fakeMailer{}, &capturePublisher{}, digestConfig(6), testLogger())

	summary, err := digest.RunSendPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 2, summary.SkippedEmpty)
}

func TestDigestService_RunSendPass_CapsItemsAtConfiguredMax(t *testing.T) {
	store := memory.NewStore()
	start := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 6).Format("2006-01-02")
	products := []string{"Apples", "Bananas", "Carrots", "Dates", "Eggs", "Flour", "Grapes", "Honey"}
	for i, product := range products {
		seedDeal(t, store, "Smart & Final", product, "each", entity.CategoryOther, float64(i)+1, start, end)
	}
	seedRecipient(t, store, "Ana", "ana@example.com", nil)

	renderer := &fakeRenderer{}

	digest := NewDigestService(store, store, renderer, &fakeMailer{}, &capturePublisher{}, digestConfig(6), testLogger())

	_, err := digest.RunSendPass(context.Background())
	require.NoError(t, err)

	require.Len(t, renderer.rendered, 1)
	items := renderer.rendered[0].Items
	require.Len(t, items, 6)

	// The cheapest six survive the cut, still price ascending.
	assert.Equal(t, "Apples", items[0].ProductName)
	assert.Equal(t, "Flour", items[5].ProductName)
}

func TestDigestService_RunSendPass_DeliveryFailureIsIsolated(t *testing.T) {
	store := memory.NewStore()
	seedActiveWeek(t, store)
	seedRecipient(t, store, "Ana", "ana@example.com", nil)
	seedRecipient(t, store, "Mia", "mia@example.com", nil)

	mailer := &fakeMailer{failFor: map[string]error{
		"ana@example.com": errors.New("smtp: mailbox unavailable"),
	}}
	publisher := &capturePublisher{}

	digest := NewDigestService(store, store, &fakeRenderer{}, mailer, publisher, digestConfig(6), testLogger())

	summary, err := digest.RunSendPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "mia@example.com", mailer.sent[0].address)
}

func TestDigestService_RunSendPass_PublishesSummaryEvent(t *testing.T) {
	store := memory.NewStore()
	seedActiveWeek(t, store)
	seedRecipient(t, store, "Ana", "ana@example.com", nil)
	seedRecipient(t, store, "Zoe", "zoe@example.com", []string{"Costco"})

	publisher := &capturePublisher{}

	digest := NewDigestService(store, store, &fakeRenderer{}, &fakeMailer{}, publisher, digestConfig(6), testLogger())

	_, err := digest.RunSendPass(context.Background())
	require.NoError(t, err)

	event := publisher.last(t)
	assert.Equal(t, service.PassSend, event.Pass)
	assert.Equal(t, 1, event.Sent)
	assert.Equal(t, 1, event.SkippedEmpty)
	assert.Equal(t, 0, event.Failed)
}
