package sales

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"marketplace-recon/internal/fileio"
	"marketplace-recon/internal/match"
)

// EbayHeaderKeyword locates the real header row inside an eBay orders
// report, which carries preamble lines above it.
const EbayHeaderKeyword = "Sales record number"

// EbayProcessor turns eBay order-report rows into costed monthly summaries.
type EbayProcessor struct {
	matcher *match.Matcher
	log     zerolog.Logger
}

func NewEbay(matcher *match.Matcher, logger zerolog.Logger) *EbayProcessor {
	return &EbayProcessor{matcher: matcher, log: logger}
}

// Process matches and costs every sales row, then groups them into monthly
// summaries with the eBay subscription fee applied.
func (p *EbayProcessor) Process(rows []map[string]string) []MonthSummary {
	var lines []Line
	for _, rec := range rows {
		title := strings.TrimSpace(rec["Item title"])
		if title == "" {
			// parent order rows carry no item title
			continue
		}
		lines = append(lines, p.processRow(rec, title)...)
	}
	return buildSummaries(lines, "ebay", EbayMonthlyFee)
}

func (p *EbayProcessor) processRow(rec map[string]string, title string) []Line {
	date := parseDate(rec["Sale date"])
	soldFor := fileio.MoneyOrZero(rec["Sold for"])
	qty := qtyOrOne(rec["Quantity"])
	promoted := strings.EqualFold(strings.TrimSpace(rec["Sold via Promoted listings"]), "yes")

	fees := EbayFees(soldFor, promoted)
	postage := PostageCost(rec["Delivery service"], strings.TrimSpace(rec["Tracking number"]))

	base := Line{
		RecordID:     strings.TrimSpace(rec["Sales record number"]),
		OrderID:      strings.TrimSpace(rec["Order number"]),
		Date:         date,
		Month:        monthName(date),
		ListingTitle: title,
		SoldFor:      soldFor,
		Postage:      postage,
		Promoted:     promoted,
		Fees:         fees.Total,
	}

	matches := p.matcher.Match(title)
	if len(matches) == 0 {
		p.log.Warn().Str("title", title).Msg("no match")
		return []Line{p.unmatched(base, qty)}
	}

	// product sets split the quantity across the set members
	if len(matches) > 1 && allProductSet(matches) {
		qtyPer := qty / float64(len(matches))
		out := make([]Line, 0, len(matches))
		for i, m := range matches {
			ln := costed(base, m, qtyPer)
			if i > 0 {
				// sale money is attributed once, to the first member
				ln.SoldFor = decimal.Zero
				ln.Fees = decimal.Zero
				ln.Postage = decimal.Zero
				ln.NetProfit = ln.CostPrice.Neg()
			}
			out = append(out, ln)
		}
		return out
	}

	m := matches[0]
	if m.Handling == match.HandlingBundleMultiply && m.BundleQty > 0 {
		qty *= float64(m.BundleQty)
	}
	return []Line{costed(base, m, qty)}
}

func (p *EbayProcessor) unmatched(base Line, qty float64) Line {
	base.ItemSold = "UNMATCHED: " + base.ListingTitle
	base.Code = NoMatchCode
	base.Qty = qty
	base.NetProfit = base.SoldFor.Sub(base.Fees).Sub(base.Postage)
	base.Handling = match.HandlingManualReview
	if s, ok := p.matcher.Suggest(base.ListingTitle); ok {
		base.Suggestion = s.Name
	}
	return base
}

// costed fills the product and money columns of a line from a match.
func costed(base Line, m match.Candidate, qty float64) Line {
	base.ItemSold = m.Name
	base.Code = m.Code
	base.Qty = qty
	base.Confidence = m.Confidence
	base.Handling = m.Handling

	base.CostPrice = m.UnitPrice.Mul(decimal.NewFromFloat(qty))
	base.CostExcVAT = base.CostPrice.Div(vatMult)
	base.NetProfit = base.SoldFor.Sub(base.Fees).Sub(base.Postage).Sub(base.CostPrice)
	return base
}

func allProductSet(matches []match.Candidate) bool {
	for _, m := range matches {
		if m.Handling != match.HandlingProductSet {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"Jan 2, 2006 3:04:05 PM MST",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func monthName(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("January 2006")
}

func qtyOrOne(s string) float64 {
	d, ok := fileio.ParseMoney(s)
	if !ok || d.IsZero() {
		return 1
	}
	f, _ := d.Float64()
	return f
}
