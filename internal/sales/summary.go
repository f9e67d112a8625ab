package sales

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// buildSummaries groups lines by sale month, in chronological order, and
// folds the channel subscription fee into each month's totals.
func buildSummaries(lines []Line, channel string, subscription decimal.Decimal) []MonthSummary {
	byMonth := make(map[string][]Line)
	var order []string
	for _, ln := range lines {
		if _, seen := byMonth[ln.Month]; !seen {
			order = append(order, ln.Month)
		}
		byMonth[ln.Month] = append(byMonth[ln.Month], ln)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return firstDate(byMonth[order[i]]).Before(firstDate(byMonth[order[j]]))
	})

	out := make([]MonthSummary, 0, len(order))
	for _, name := range order {
		ms := MonthSummary{
			Name:            name,
			Channel:         channel,
			SubscriptionFee: subscription,
			Lines:           byMonth[name],
		}
		ms.Totals = totalsFor(ms.Lines, subscription)
		out = append(out, ms)
	}
	return out
}

func firstDate(lines []Line) time.Time {
	if len(lines) == 0 {
		return time.Time{}
	}
	min := lines[0].Date
	for _, ln := range lines[1:] {
		if !ln.Date.IsZero() && (min.IsZero() || ln.Date.Before(min)) {
			min = ln.Date
		}
	}
	return min
}

func totalsFor(lines []Line, subscription decimal.Decimal) Totals {
	var t Totals
	for _, ln := range lines {
		t.Qty += ln.Qty
		t.SoldFor = t.SoldFor.Add(ln.SoldFor)
		t.Postage = t.Postage.Add(ln.Postage)
		t.Fees = t.Fees.Add(ln.Fees)
		t.CostPrice = t.CostPrice.Add(ln.CostPrice)
		t.CostExcVAT = t.CostExcVAT.Add(ln.CostExcVAT)
		t.NetProfit = t.NetProfit.Add(ln.NetProfit)
	}
	// the subscription is a cost of the month even with zero sales
	t.Fees = t.Fees.Add(subscription)
	t.NetProfit = t.NetProfit.Sub(subscription)
	return t
}
