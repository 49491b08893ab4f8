package entity

import (
	"time"
)

// Digest is the capped, grouped, price-ordered set of deals prepared for one
// recipient. It is ephemeral: assembled for rendering and delivery, never
// persisted.
type Digest struct {
	Recipient   *Recipient      // The addressee.
	Items       []DealView      // Retained deals, price ascending.
	Groups      []RetailerGroup // The same deals grouped by retailer for presentation.
	GeneratedAt time.Time       // When this digest was assembled.
}

// RetailerGroup is one retailer's slice of a digest, in first-seen retailer
// order with within-retailer price order preserved.
type RetailerGroup struct {
	Retailer string
	Items    []DealView
}

// FilterDealsForRecipient selects the subset of activeDeals matching the
// recipient's declared retailer interests. An empty preference list passes
// the input through unchanged. The filter is stable: relative order of the
// input (price ascending, per the deal store contract) is preserved and
// never re-sorted.
func FilterDealsForRecipient(recipient *Recipient, activeDeals []DealView) []DealView {
	if len(recipient.PreferredRetailers) == 0 {
		return activeDeals
	}

	filtered := make([]DealView, 0, len(activeDeals))
	for _, deal := range activeDeals {
		if recipient.WantsRetailer(deal.RetailerName) {
			filtered = append(filtered, deal)
		}
	}

	return filtered
}

// AssembleDigest builds a digest from already-filtered, already price-sorted
// deals. It keeps the first maxItems entries (stable truncation: equal
// prices retain the incoming order) and groups them by retailer, preserving
// first-seen retailer order. It returns nil when nothing remains; callers
// treat a nil digest as "skip this recipient", not as a failure.
func AssembleDigest(recipient *Recipient, filtered []DealView, maxItems int, now time.Time) *Digest {
	if maxItems > 0 && len(filtered) > maxItems {
		filtered = filtered[:maxItems]
	}
	if len(filtered) == 0 {
		return nil
	}

	groupIndex := make(map[string]int, len(filtered))
	groups := make([]RetailerGroup, 0, len(filtered))
	for _, deal := range filtered {
		idx, ok := groupIndex[deal.RetailerName]
		if !ok {
			groups = append(groups, RetailerGroup{Retailer: deal.RetailerName})
			idx = len(groups) - 1
			groupIndex[deal.RetailerName] = idx
		}
		groups[idx].Items = append(groups[idx].Items, deal)
	}

	return &Digest{
		Recipient:   recipient,
		Items:       filtered,
		Groups:      groups,
		GeneratedAt: now,
	}
}
