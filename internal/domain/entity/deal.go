package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Deal represents one retailer's offer for one product over one validity
// window. Deals are created once at ingestion and never updated in place:
// a re-ingested deal with the same (retailer, product, window start) is a
// no-op, and a changed price for the same window is silently dropped
// (first write wins).
type Deal struct {
	ID         uuid.UUID // The stable surrogate identifier.
	RetailerID uuid.UUID // The retailer offering the deal.
	ProductID  uuid.UUID // The product on offer.
	Price      float64   // The advertised price. Never negative.
	StartDate  time.Time // First day of the validity window (date precision).
	EndDate    time.Time // Last day of the validity window. Never before StartDate.
	CreatedAt  time.Time // Timestamp of ingestion.
}

// DealView is a deal joined with its retailer and product, denormalized so
// that downstream consumers (filtering, rendering, delivery) never need to
// re-join against the catalog.
type DealView struct {
	RetailerName string    `json:"retailer"`
	ProductName  string    `json:"product"`
	Size         string    `json:"size"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	StartDate    time.Time `json:"start"`
	EndDate      time.Time `json:"end"`
}

// RawDeal is one record as produced by a deal feed (scraper output, file or
// API), before entity resolution. Validation tags describe the minimum the
// ingestion pass accepts; category is trusted when supplied and inferred
// otherwise.
type RawDeal struct {
	Retailer string    `json:"retailer" validate:"required"`
	Product  string    `json:"product" validate:"required"`
	Size     string    `json:"size"`
	Price    float64   `json:"price" validate:"gt=0"`
	Start    time.Time `json:"start" validate:"required"`
	End      time.Time `json:"end" validate:"required"`
	Category string    `json:"category"`
}

// feedDateLayout is the date-only window format scraper feeds emit.
const feedDateLayout = "2006-01-02"

// UnmarshalJSON accepts both the feed's date-only window format
// ("2026-08-19") and full RFC 3339 timestamps.
func (r *RawDeal) UnmarshalJSON(data []byte) error {
	var raw struct {
		Retailer string  `json:"retailer"`
		Product  string  `json:"product"`
		Size     string  `json:"size"`
		Price    float64 `json:"price"`
		Start    string  `json:"start"`
		End      string  `json:"end"`
		Category string  `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	start, err := parseFeedDate(raw.Start)
	if err != nil {
		return err
	}
	end, err := parseFeedDate(raw.End)
	if err != nil {
		return err
	}

	r.Retailer = raw.Retailer
	r.Product = raw.Product
	r.Size = raw.Size
	r.Price = raw.Price
	r.Start = start
	r.End = end
	r.Category = raw.Category

	return nil
}

// parseFeedDate leaves a missing date as the zero time; record validation
// rejects it later with the rest of the record's problems.
func parseFeedDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(feedDateLayout, value); err == nil {
		return parsed, nil
	}

	return time.Parse(time.RFC3339, value)
}
