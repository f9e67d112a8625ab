package sales

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"marketplace-recon/internal/fileio"
	"marketplace-recon/internal/match"
)

// AmazonHeaderKeyword locates the header row inside an Amazon transaction
// report (seven-odd preamble lines above it).
const AmazonHeaderKeyword = "date/time"

// Amazon sellers describe multi-unit listings in the title itself.
var (
	rePackOf   = regexp.MustCompile(`(?i)(\d+)\s*Pack\s+of\s+`)
	reLotOf    = regexp.MustCompile(`(?i)Lot\s+of\s+(\d+)\s+`)
	reBundleOf = regexp.MustCompile(`(?i)Bundle\s+of\s+(\d+)\s*`)
)

// ParseBundleQuantity extracts the unit count from "3 Pack of ...",
// "Lot of 6 ...", "Bundle of 2 ..." titles and returns the count with the
// cleaned title. Titles without a bundle prefix return (1, title).
func ParseBundleQuantity(title string) (int, string) {
	for _, re := range []*regexp.Regexp{rePackOf, reLotOf, reBundleOf} {
		if m := re.FindStringSubmatch(title); m != nil {
			qty, _ := strconv.Atoi(m[1])
			if qty < 1 {
				qty = 1
			}
			return qty, strings.TrimSpace(re.ReplaceAllString(title, ""))
		}
	}
	return 1, title
}

// AmazonProcessor turns Amazon transaction-report rows into costed monthly
// summaries.
type AmazonProcessor struct {
	matcher      *match.Matcher
	shippingRate decimal.Decimal
	log          zerolog.Logger
}

func NewAmazon(matcher *match.Matcher, logger zerolog.Logger) *AmazonProcessor {
	return &AmazonProcessor{
		matcher:      matcher,
		shippingRate: decimal.NewFromFloat(3.21),
		log:          logger,
	}
}

// SetShippingRate overrides the flat per-order shipping cost.
func (p *AmazonProcessor) SetShippingRate(rate decimal.Decimal) { p.shippingRate = rate }

// Process filters the transaction report down to actual sales, matches and
// costs each, and groups them into monthly summaries with the Amazon
// subscription fee applied.
func (p *AmazonProcessor) Process(rows []map[string]string) []MonthSummary {
	var lines []Line
	for _, rec := range rows {
		if skipAmazonRow(rec) {
			continue
		}
		title := strings.TrimSpace(rec["description"])
		if title == "" {
			continue
		}
		lines = append(lines, p.processRow(rec, title))
	}
	return buildSummaries(lines, "amazon", AmazonMonthlyFee)
}

// skipAmazonRow drops subscription fees, debt entries, and anything that is
// not an order-backed sale.
func skipAmazonRow(rec map[string]string) bool {
	typ := strings.TrimSpace(rec["type"])
	desc := strings.TrimSpace(rec["description"])
	if typ == "Service Fee" && desc == "Subscription" {
		return true
	}
	if typ == "Debt" {
		return true
	}
	return strings.TrimSpace(rec["order id"]) == ""
}

func (p *AmazonProcessor) processRow(rec map[string]string, title string) Line {
	date := parseDate(rec["date/time"])
	amount := fileio.MoneyOrZero(rec["total"])

	bundleQty, cleanTitle := ParseBundleQuantity(title)
	qty := qtyOrOne(rec["quantity"]) * float64(bundleQty)

	fees := AmazonFees(amount)

	base := Line{
		RecordID:     strings.TrimSpace(rec["Transaction ID"]),
		OrderID:      strings.TrimSpace(rec["order id"]),
		Date:         date,
		Month:        monthName(date),
		ListingTitle: title,
		SoldFor:      amount,
		Postage:      p.shippingRate,
		Fees:         fees.Total,
	}

	matches := p.matcher.Match(cleanTitle)
	if len(matches) == 0 {
		p.log.Warn().Str("title", cleanTitle).Msg("no match")
		base.ItemSold = "UNMATCHED: " + title
		base.Code = NoMatchCode
		base.Qty = qty
		base.Postage = decimal.Zero
		base.NetProfit = base.SoldFor.Sub(base.Fees)
		base.Handling = match.HandlingManualReview
		if s, ok := p.matcher.Suggest(cleanTitle); ok {
			base.Suggestion = s.Name
		}
		return base
	}

	m := matches[0]
	if m.Handling == match.HandlingBundleMultiply && m.BundleQty > 0 {
		qty *= float64(m.BundleQty)
	}
	return costed(base, m, qty)
}
