package impl

import (
	"regexp"
	"strings"
)

// Feed records arrive messy: size tokens embedded in the product name,
// stray punctuation, runs of whitespace. These helpers normalize a record
// before entity resolution so that "Chicken Breast 16 oz" and
// "chicken breast  16oz." do not mint distinct products.

var (
	sizeTokenRe  = regexp.MustCompile(`(?i)\b(\d+\.?\d*\s*(?:oz|lb|lbs|g|kg|ml|l|liter|gallon|gal|ct|count|pk|pack))\b`)
	perUnitRe    = regexp.MustCompile(`(?i)\b(per\s+lb|per\s+pound)\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

const defaultSize = "each"

// extractSize pulls a size token out of the product text. It returns the
// token and the text with the token removed, or empty size when nothing
// matches.
func extractSize(text string) (string, string) {
	for _, re := range []*regexp.Regexp{sizeTokenRe, perUnitRe} {
		if match := re.FindString(text); match != "" {
			return strings.TrimSpace(match), strings.Replace(text, match, " ", 1)
		}
	}

	return "", text
}

// cleanProductName collapses whitespace and strips leading and trailing
// separators left behind by size extraction.
func cleanProductName(product string) string {
	product = whitespaceRe.ReplaceAllString(product, " ")

	return strings.Trim(product, " -,.")
}

// normalizeProduct returns the cleaned product name and its size. A size
// supplied by the feed wins; otherwise a size token embedded in the product
// name is extracted; otherwise the size defaults to "each".
func normalizeProduct(product, size string) (string, string) {
	size = strings.TrimSpace(size)
	if size == "" {
		size, product = extractSize(product)
	}
	if size == "" {
		size = defaultSize
	}

	return cleanProductName(product), size
}
