package category

import (
	"testing"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	classifier := NewKeywordClassifier()

	testCases := []struct {
		name     string
		product  string
		expected string
	}{
		{name: "protein", product: "Boneless Chicken Breast", expected: entity.CategoryProtein},
		{name: "produce", product: "Hass Avocados", expected: entity.CategoryProduce},
		{name: "dairy", product: "Whole Milk", expected: entity.CategoryDairy},
		{name: "household", product: "Tide Laundry Detergent", expected: entity.CategoryHousehold},
		{name: "pantry", product: "Penne Pasta", expected: entity.CategoryPantry},
		{name: "snacks", product: "Kettle Chips", expected: entity.CategorySnacks},
		{name: "beverages", product: "Cold Brew Coffee", expected: entity.CategoryBeverages},
		{name: "unmatched falls through to other", product: "Gift Card", expected: entity.CategoryOther},
		{name: "case insensitive", product: "GROUND BEEF", expected: entity.CategoryProtein},
		{name: "protein outranks pantry", product: "Chicken Noodle Soup", expected: entity.CategoryProtein},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, classifier.Classify(testCase.product))
		})
	}
}
