package catalogue

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoCode is the sentinel for catalogue rows without a CMS product code.
const NoCode = "NO_CODE"

type Product struct {
	Code          string          `json:"cms_code"`
	Name          string          `json:"cms_name"`
	RetailIncVAT  decimal.Decimal `json:"retail_price_inc_vat"`
	RetailExcVAT  decimal.Decimal `json:"retail_price_exc_vat"`
	Wholesale     decimal.Decimal `json:"wholesale_price"`
	EffectiveDate time.Time       `json:"effective_date"`
}

// HistoryEntry is an immutable audit record appended on every price change.
type HistoryEntry struct {
	Code      string          `json:"code"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	ChangedAt time.Time       `json:"changed_at"`
}
