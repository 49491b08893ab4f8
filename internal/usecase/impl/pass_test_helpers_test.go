package impl

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/service"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/infra/persistence/memory"
)

// Hand-written fakes for the collaborator interfaces. The persistence side
// uses the real in-memory store so pass tests exercise the same dedup and
// ordering semantics the repositories guarantee.

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}

	return t
}

type fakeFeed struct {
	deals []entity.RawDeal
	err   error
}

func (f *fakeFeed) FetchDeals(_ context.Context) ([]entity.RawDeal, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.deals, nil
}

type staticClassifier struct {
	category string
}

func (c *staticClassifier) Classify(string) string {
	return c.category
}

type capturePublisher struct {
	mu     sync.Mutex
	events []*service.PassSummaryEvent
}

func (p *capturePublisher) PublishPassSummary(_ context.Context, event *service.PassSummaryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *capturePublisher) Close() error {
	return nil
}

func (p *capturePublisher) last(t *testing.T) *service.PassSummaryEvent {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		t.Fatal("no pass summary event published")
	}

	return p.events[len(p.events)-1]
}

type fakeRenderer struct {
	err      error
	rendered []*entity.Digest
}

func (r *fakeRenderer) Render(digest *entity.Digest) (string, string, error) {
	if r.err != nil {
		return "", "", r.err
	}
	r.rendered = append(r.rendered, digest)

	return "subject", "body", nil
}

type sentMail struct {
	address string
	subject string
	body    string
}

type fakeMailer struct {
	failFor map[string]error
	sent    []sentMail
}

func (m *fakeMailer) Send(_ context.Context, address, subject, body string) error {
	if err, ok := m.failFor[address]; ok {
		return err
	}
	m.sent = append(m.sent, sentMail{address: address, subject: subject, body: body})

	return nil
}

func seedDeal(t *testing.T, store *memory.Store, retailer, product, size, category string, price float64, start, end string) {
	t.Helper()
	ctx := context.Background()

	retailerID, err := store.ResolveRetailer(ctx, retailer)
	if err != nil {
		t.Fatal(err)
	}
	productID, err := store.ResolveProduct(ctx, product, size, category)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.PutDeal(ctx, &entity.Deal{
		RetailerID: retailerID,
		ProductID:  productID,
		Price:      price,
		StartDate:  day(start),
		EndDate:    day(end),
	}); err != nil {
		t.Fatal(err)
	}
}
