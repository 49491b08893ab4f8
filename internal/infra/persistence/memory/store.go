// Package memory provides an in-memory implementation of the persistence
// interfaces. It mirrors the semantics the PostgreSQL adapter guarantees
// (atomic create-if-absent, constraint-backed deal dedup, price-ordered
// active reads) and backs unit tests and local dry runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/repository"

	"github.com/google/uuid"
)

type productKey struct {
	name string
	size string
}

type dealKey struct {
	retailerID uuid.UUID
	productID  uuid.UUID
	startDate  string // date precision, YYYY-MM-DD
}

// Store is an in-memory implementation of CatalogRepository, DealRepository
// and RecipientRepository. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	retailersByName map[string]*entity.Retailer
	retailersByID   map[uuid.UUID]*entity.Retailer
	productsByKey   map[productKey]*entity.Product
	productsByID    map[uuid.UUID]*entity.Product
	dealKeys        map[dealKey]struct{}
	deals           []*entity.Deal // insertion order, for stable price sorting
	recipients      map[string]*entity.Recipient
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		retailersByName: make(map[string]*entity.Retailer),
		retailersByID:   make(map[uuid.UUID]*entity.Retailer),
		productsByKey:   make(map[productKey]*entity.Product),
		productsByID:    make(map[uuid.UUID]*entity.Product),
		dealKeys:        make(map[dealKey]struct{}),
		recipients:      make(map[string]*entity.Recipient),
	}
}

var (
	_ repository.CatalogRepository   = (*Store)(nil)
	_ repository.DealRepository      = (*Store)(nil)
	_ repository.RecipientRepository = (*Store)(nil)
)

// ResolveRetailer returns the id for the named retailer, creating it on
// first sight. The whole lookup-or-create runs under one lock, giving the
// same at-most-one-row guarantee the database constraint provides.
func (s *Store) ResolveRetailer(_ context.Context, name string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if retailer, ok := s.retailersByName[name]; ok {
		return retailer.ID, nil
	}

	retailer := &entity.Retailer{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	s.retailersByName[name] = retailer
	s.retailersByID[retailer.ID] = retailer

	return retailer.ID, nil
}

// ResolveProduct returns the id for the (name, size) natural key, creating
// the product with the supplied category on first sight. An existing
// product's category is not rewritten.
func (s *Store) ResolveProduct(_ context.Context, name, size, category string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := productKey{name: name, size: size}
	if product, ok := s.productsByKey[key]; ok {
		return product.ID, nil
	}

	product := &entity.Product{
		ID:        uuid.New(),
		Name:      name,
		Size:      size,
		Category:  category,
		CreatedAt: time.Now(),
	}
	s.productsByKey[key] = product
	s.productsByID[product.ID] = product

	return product.ID, nil
}

// PutDeal inserts the deal unless its (retailer, product, start) key tuple
// already exists, in which case the stored row is untouched and the caller
// gets PutDuplicate (first write wins).
func (s *Store) PutDeal(_ context.Context, deal *entity.Deal) (repository.PutOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dealKey{
		retailerID: deal.RetailerID,
		productID:  deal.ProductID,
		startDate:  deal.StartDate.Format("2006-01-02"),
	}
	if _, ok := s.dealKeys[key]; ok {
		return repository.PutDuplicate, nil
	}

	stored := *deal
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.CreatedAt = time.Now()
	s.dealKeys[key] = struct{}{}
	s.deals = append(s.deals, &stored)

	deal.ID = stored.ID
	deal.CreatedAt = stored.CreatedAt

	return repository.PutInserted, nil
}

// ListActiveDeals returns every deal whose window has not ended as of the
// given date, joined with retailer and product, price ascending. The sort
// is stable over insertion order, matching the database contract.
func (s *Store) ListActiveDeals(_ context.Context, asOf time.Time) ([]entity.DealView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]entity.DealView, 0, len(s.deals))
	for _, deal := range s.deals {
		if deal.EndDate.Before(asOf) {
			continue
		}

		retailer := s.retailersByID[deal.RetailerID]
		product := s.productsByID[deal.ProductID]
		if retailer == nil || product == nil {
			continue
		}

		views = append(views, entity.DealView{
			RetailerName: retailer.Name,
			ProductName:  product.Name,
			Size:         product.Size,
			Category:     product.Category,
			Price:        deal.Price,
			StartDate:    deal.StartDate,
			EndDate:      deal.EndDate,
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Price < views[j].Price
	})

	return views, nil
}

// Upsert creates the recipient or overwrites name and preferences for an
// existing email (last write wins).
func (s *Store) Upsert(_ context.Context, recipient *entity.Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.recipients[recipient.Email]; ok {
		existing.Name = recipient.Name
		existing.PreferredRetailers = cloneStrings(recipient.PreferredRetailers)
		existing.UpdatedAt = now

		recipient.ID = existing.ID
		recipient.CreatedAt = existing.CreatedAt
		recipient.UpdatedAt = now

		return nil
	}

	if recipient.ID == uuid.Nil {
		recipient.ID = uuid.New()
	}
	recipient.CreatedAt = now
	recipient.UpdatedAt = now

	stored := *recipient
	stored.PreferredRetailers = cloneStrings(recipient.PreferredRetailers)
	s.recipients[recipient.Email] = &stored

	return nil
}

// FindByEmail retrieves a single recipient by their email address.
func (s *Store) FindByEmail(_ context.Context, email string) (*entity.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipient, ok := s.recipients[email]
	if !ok {
		return nil, repository.ErrRecipientNotFound
	}

	return cloneRecipient(recipient), nil
}

// ListAll returns every recipient ordered by email.
func (s *Store) ListAll(_ context.Context) ([]*entity.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipients := make([]*entity.Recipient, 0, len(s.recipients))
	for _, recipient := range s.recipients {
		recipients = append(recipients, cloneRecipient(recipient))
	}

	sort.Slice(recipients, func(i, j int) bool {
		return recipients[i].Email < recipients[j].Email
	})

	return recipients, nil
}

// DealCount reports the number of stored deals. Test helper.
func (s *Store) DealCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.deals)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)

	return out
}

func cloneRecipient(in *entity.Recipient) *entity.Recipient {
	out := *in
	out.PreferredRetailers = cloneStrings(in.PreferredRetailers)

	return &out
}
