package match

import "github.com/shopspring/decimal"

// SpecialHandling marks candidates that downstream sales processors must
// treat differently from a plain catalogue match.
type SpecialHandling string

const (
	HandlingNone           SpecialHandling = ""
	HandlingBundleMultiply SpecialHandling = "bundle_multiply"
	HandlingManualCost     SpecialHandling = "manual_cost_override"
	HandlingAssorted       SpecialHandling = "flawlessly_u_aggregation"
	HandlingProductSet     SpecialHandling = "product_set"
	HandlingManualReview   SpecialHandling = "needs_manual_review"
)

// AssortedCode is the synthetic CMS code for Flawlessly U aggregation rows.
const AssortedCode = "ASSORTED_COSMETICS"

// Candidate is one ranked match. Produced fresh per call, never mutated.
type Candidate struct {
	Code       string          `json:"cms_code"`
	Name       string          `json:"cms_name"`
	Confidence float64         `json:"confidence"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Handling   SpecialHandling `json:"special_handling,omitempty"`
	BundleQty  int             `json:"bundle_quantity,omitempty"`
}

// Normalized is the ephemeral feature view of a listing title or catalogue
// name. Recomputed per match call, never persisted.
type Normalized struct {
	Cleaned   string
	Brand     string
	Type      string
	Size      string
	PackQty   int
	Multipack bool
}

// Suggestion is a below-threshold aid for manual review of unmatched rows.
type Suggestion struct {
	Code  string  `json:"cms_code"`
	Name  string  `json:"cms_name"`
	Score float64 `json:"score"`
}
