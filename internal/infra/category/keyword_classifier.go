// Package category infers a product category from the product's display
// name. Feeds rarely carry a category of their own, so classification is a
// keyword scan over a fixed taxonomy.
package category

import (
	"strings"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/service"
)

// categoryKeywords is scanned in order; the first bucket with a matching
// keyword wins. "chicken soup" is therefore protein, not pantry.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{
		category: entity.CategoryProtein,
		keywords: []string{
			"chicken", "beef", "pork", "fish", "salmon", "turkey", "meat",
			"steak", "sausage", "bacon", "ham", "ribs", "ground beef", "tuna",
		},
	},
	{
		category: entity.CategoryProduce,
		keywords: []string{
			"apple", "banana", "grape", "orange", "avocado", "berry", "lettuce",
			"tomato", "onion", "potato", "carrot", "celery", "pepper", "fruit",
			"vegetable", "produce", "organic", "broccoli", "cauliflower",
		},
	},
	{
		category: entity.CategoryDairy,
		keywords: []string{
			"milk", "cheese", "yogurt", "butter", "cream", "egg", "dairy",
			"cheddar", "mozzarella", "sour cream", "whipped cream",
		},
	},
	{
		category: entity.CategoryHousehold,
		keywords: []string{
			"soap", "detergent", "cleaner", "paper", "tissue", "towel",
			"tide", "dawn", "bleach", "wipes", "trash bag", "toilet paper",
		},
	},
	{
		category: entity.CategoryPantry,
		keywords: []string{
			"bread", "pasta", "rice", "cereal", "beans", "flour", "sugar",
			"oil", "can", "canned", "sauce", "grain", "soup",
		},
	},
	{
		category: entity.CategorySnacks,
		keywords: []string{
			"chip", "cookie", "cracker", "candy", "snack", "popcorn",
			"pretzel", "nut", "granola", "bar",
		},
	},
	{
		category: entity.CategoryBeverages,
		keywords: []string{
			"soda", "juice", "water", "coffee", "tea", "beer", "wine",
			"drink", "beverage", "cola", "pepsi", "coke",
		},
	},
}

// keywordClassifier implements service.CategoryClassifier.
type keywordClassifier struct{}

// NewKeywordClassifier is the constructor for keywordClassifier.
func NewKeywordClassifier() service.CategoryClassifier {
	return &keywordClassifier{}
}

// Classify returns the category bucket for the given product text, or
// CategoryOther when no keyword matches.
func (c *keywordClassifier) Classify(productText string) string {
	lower := strings.ToLower(productText)

	for _, bucket := range categoryKeywords {
		for _, keyword := range bucket.keywords {
			if strings.Contains(lower, keyword) {
				return bucket.category
			}
		}
	}

	return entity.CategoryOther
}
