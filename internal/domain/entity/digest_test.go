package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func view(retailer, product string, price float64) DealView {
	return DealView{RetailerName: retailer, ProductName: product, Price: price}
}

func TestFilterDealsForRecipient_EmptyPreferencesPassThrough(t *testing.T) {
	deals := []DealView{
		view("Smart & Final", "Avocados", 0.99),
		view("Grocery Outlet", "Eggs", 1.99),
	}
	recipient := &Recipient{Email: "ana@example.com"}

	filtered := FilterDealsForRecipient(recipient, deals)

	assert.Equal(t, deals, filtered)
}

func TestFilterDealsForRecipient_KeepsPreferredInOrder(t *testing.T) {
	deals := []DealView{
		view("Smart & Final", "Avocados", 0.99),
		view("Grocery Outlet", "Eggs", 1.99),
		view("Smart & Final", "Chicken Breast", 2.49),
		view("Costco", "Olive Oil", 8.99),
	}
	recipient := &Recipient{
		Email:              "ana@example.com",
		PreferredRetailers: []string{"Smart & Final", "Costco"},
	}

	filtered := FilterDealsForRecipient(recipient, deals)

	require.Len(t, filtered, 3)
	assert.Equal(t, "Avocados", filtered[0].ProductName)
	assert.Equal(t, "Chicken Breast", filtered[1].ProductName)
	assert.Equal(t, "Olive Oil", filtered[2].ProductName)
}

func TestFilterDealsForRecipient_NoMatchYieldsEmpty(t *testing.T) {
	deals := []DealView{view("Smart & Final", "Avocados", 0.99)}
	recipient := &Recipient{
		Email:              "ana@example.com",
		PreferredRetailers: []string{"Costco"},
	}

	assert.Empty(t, FilterDealsForRecipient(recipient, deals))
}

func TestAssembleDigest_TruncatesAndGroups(t *testing.T) {
	recipient := &Recipient{Name: "Ana", Email: "ana@example.com"}
	deals := []DealView{
		view("Smart & Final", "Avocados", 0.99),
		view("Grocery Outlet", "Eggs", 1.99),
		view("Smart & Final", "Chicken Breast", 2.49),
		view("Grocery Outlet", "Milk", 2.99),
		view("Smart & Final", "Cereal", 3.49),
		view("Costco", "Olive Oil", 8.99),
		view("Costco", "Salmon", 12.99),
	}
	now := time.Now()

	digest := AssembleDigest(recipient, deals, 6, now)
	require.NotNil(t, digest)

	// Only the first six price-sorted items survive; Salmon is cut.
	require.Len(t, digest.Items, 6)
	assert.Equal(t, "Olive Oil", digest.Items[5].ProductName)

	// Groups in first-seen retailer order, items in incoming order.
	require.Len(t, digest.Groups, 3)
	assert.Equal(t, "Smart & Final", digest.Groups[0].Retailer)
	assert.Equal(t, []string{"Avocados", "Chicken Breast", "Cereal"}, productNames(digest.Groups[0].Items))
	assert.Equal(t, "Grocery Outlet", digest.Groups[1].Retailer)
	assert.Equal(t, "Costco", digest.Groups[2].Retailer)
	assert.Equal(t, now, digest.GeneratedAt)
	assert.Same(t, recipient, digest.Recipient)
}

func TestAssembleDigest_StableTruncationOnEqualPrices(t *testing.T) {
	recipient := &Recipient{Email: "ana@example.com"}
	deals := []DealView{
		view("A", "First", 1.00),
		view("B", "Second", 1.00),
		view("C", "Third", 1.00),
	}

	digest := AssembleDigest(recipient, deals, 2, time.Now())
	require.NotNil(t, digest)
	assert.Equal(t, []string{"First", "Second"}, productNames(digest.Items))
}

func TestAssembleDigest_EmptyInputIsNil(t *testing.T) {
	recipient := &Recipient{Email: "ana@example.com"}

	assert.Nil(t, AssembleDigest(recipient, nil, 6, time.Now()))
	assert.Nil(t, AssembleDigest(recipient, []DealView{}, 6, time.Now()))
}

func TestAssembleDigest_ZeroMaxItemsMeansNoCap(t *testing.T) {
	recipient := &Recipient{Email: "ana@example.com"}
	deals := make([]DealView, 10)
	for i := range deals {
		deals[i] = view("A", "Product", float64(i))
	}

	digest := AssembleDigest(recipient, deals, 0, time.Now())
	require.NotNil(t, digest)
	assert.Len(t, digest.Items, 10)
}

func productNames(views []DealView) []string {
	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.ProductName)
	}

	return names
}
