package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"marketplace-recon/internal/match"
)

// Line is one costed transaction row: the marketplace sale joined to its
// catalogue match with fees, shipping, and net profit worked out.
type Line struct {
	RecordID     string                `json:"record_id"`
	OrderID      string                `json:"order_id,omitempty"`
	Date         time.Time             `json:"date"`
	Month        string                `json:"month"`
	ItemSold     string                `json:"item_sold"`
	ListingTitle string                `json:"listing_title"`
	Code         string                `json:"cms_code"`
	Qty          float64               `json:"quantity"`
	SoldFor      decimal.Decimal       `json:"sold_for"`
	Postage      decimal.Decimal       `json:"postage"`
	Promoted     bool                  `json:"promoted,omitempty"`
	Fees         decimal.Decimal       `json:"fees"`
	CostPrice    decimal.Decimal       `json:"cost_price"`
	CostExcVAT   decimal.Decimal       `json:"cost_exc_vat"`
	NetProfit    decimal.Decimal       `json:"net_profit"`
	Confidence   float64               `json:"confidence"`
	Handling     match.SpecialHandling `json:"special_handling,omitempty"`
	Suggestion   string                `json:"suggestion,omitempty"`
}

// NoMatchCode marks rows the matcher could not resolve.
const NoMatchCode = "NO_MATCH"

type Totals struct {
	Qty        float64         `json:"quantity"`
	SoldFor    decimal.Decimal `json:"sold_for"`
	Postage    decimal.Decimal `json:"postage"`
	Fees       decimal.Decimal `json:"fees"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	CostExcVAT decimal.Decimal `json:"cost_exc_vat"`
	NetProfit  decimal.Decimal `json:"net_profit"`
}

// MonthSummary is one accounting month for one channel: the sales lines,
// the channel subscription fee, and totals with the fee folded in.
type MonthSummary struct {
	Name            string          `json:"month"`
	Channel         string          `json:"channel"`
	SubscriptionFee decimal.Decimal `json:"subscription_fee"`
	Lines           []Line          `json:"lines"`
	Totals          Totals          `json:"totals"`
}
