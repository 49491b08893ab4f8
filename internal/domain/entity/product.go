package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product categories as inferred at ingestion time. The set mirrors the
// taxonomy used by the upstream circular feed.
const (
	CategoryProtein   = "protein"
	CategoryProduce   = "produce"
	CategoryDairy     = "dairy"
	CategoryHousehold = "household"
	CategoryPantry    = "pantry"
	CategorySnacks    = "snacks"
	CategoryBeverages = "beverages"
	CategoryOther     = "other"
)

// Product represents one purchasable item as advertised in a circular.
// The natural key is (Name, Size): the same name in a different size is a
// distinct product. Category is stored at ingestion time, not recomputed
// on read.
type Product struct {
	ID        uuid.UUID // The stable surrogate identifier assigned on first sight.
	Name      string    // The cleaned product name, e.g. "Organic Avocados".
	Size      string    // The unit or pack size, e.g. "per lb", "16 oz", "each".
	Category  string    // One of the Category* constants above.
	CreatedAt time.Time // Timestamp of when this product was first resolved.
}
