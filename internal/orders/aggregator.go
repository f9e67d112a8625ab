package orders

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"marketplace-recon/internal/catalogue"
	"marketplace-recon/internal/match"
	"marketplace-recon/internal/sales"
)

// highValueThreshold flags order lines worth double-checking before the
// purchase order goes out.
var highValueThreshold = decimal.NewFromInt(50)

// AggregateRow is the per-product roll-up across every month and channel.
type AggregateRow struct {
	Code     string          `json:"cms_code"`
	Name     string          `json:"cms_name"`
	Qty      float64         `json:"quantity"`
	SoldFor  decimal.Decimal `json:"sold_for"`
	Cost     decimal.Decimal `json:"cost_price"`
	Profit   decimal.Decimal `json:"net_profit"`
	Months   []string        `json:"months"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// OrderLine is one row of the CMS purchase order: quantities rounded up to
// whole units with the order value priced at unit cost.
type OrderLine struct {
	Code       string          `json:"cms_code"`
	Name       string          `json:"cms_name"`
	Qty        float64         `json:"quantity_sold"`
	OrderQty   int             `json:"order_quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	OrderValue decimal.Decimal `json:"order_value"`
	Notes      string          `json:"notes,omitempty"`
}

type OrderTotals struct {
	Qty        float64         `json:"quantity_sold"`
	OrderQty   int             `json:"order_quantity"`
	Cost       decimal.Decimal `json:"cost_price"`
	OrderValue decimal.Decimal `json:"order_value"`
	Items      int             `json:"items"`
}

// Aggregate rolls monthly summaries from any mix of channels up into one
// row per CMS product, sorted by quantity descending. Assorted-cosmetics
// lines collapse into a single synthetic row.
func Aggregate(months []sales.MonthSummary) []AggregateRow {
	type acc struct {
		row    AggregateRow
		months map[string]struct{}
		order  int
	}
	accs := make(map[string]*acc)
	n := 0

	for _, ms := range months {
		for _, ln := range ms.Lines {
			key := ln.Code + "\x00" + ln.ItemSold
			a, ok := accs[key]
			if !ok {
				a = &acc{
					row:    AggregateRow{Code: ln.Code, Name: ln.ItemSold},
					months: make(map[string]struct{}),
					order:  n,
				}
				n++
				accs[key] = a
			}
			a.row.Qty += ln.Qty
			a.row.SoldFor = a.row.SoldFor.Add(ln.SoldFor)
			a.row.Cost = a.row.Cost.Add(ln.CostPrice)
			a.row.Profit = a.row.Profit.Add(ln.NetProfit)
			a.months[ms.Name] = struct{}{}
		}
	}

	rows := make([]*acc, 0, len(accs))
	for _, a := range accs {
		rows = append(rows, a)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].order < rows[j].order })

	out := make([]AggregateRow, 0, len(rows))
	var assorted *AggregateRow
	for _, a := range rows {
		r := a.row
		for m := range a.months {
			r.Months = append(r.Months, m)
		}
		sort.Strings(r.Months)
		if r.Qty > 0 {
			r.UnitCost = r.Cost.Div(decimal.NewFromFloat(r.Qty))
		}

		if r.Code == match.AssortedCode {
			if assorted == nil {
				c := r
				c.Name = "Assorted Cosmetics (Flawlessly U)"
				assorted = &c
			} else {
				assorted.Qty += r.Qty
				assorted.SoldFor = assorted.SoldFor.Add(r.SoldFor)
				assorted.Cost = assorted.Cost.Add(r.Cost)
				assorted.Profit = assorted.Profit.Add(r.Profit)
				assorted.Months = mergeMonths(assorted.Months, r.Months)
			}
			continue
		}
		out = append(out, r)
	}
	if assorted != nil {
		if assorted.Qty > 0 {
			assorted.UnitCost = assorted.Cost.Div(decimal.NewFromFloat(assorted.Qty))
		}
		out = append(out, *assorted)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Qty > out[j].Qty })
	return out
}

// OrderList builds the CMS-ready purchase order from an aggregation:
// unmatched and codeless rows drop out, quantities round up to whole units.
func OrderList(rows []AggregateRow) ([]OrderLine, OrderTotals) {
	var out []OrderLine
	var totals OrderTotals

	for _, r := range rows {
		if !orderable(r) {
			continue
		}
		orderQty := int(math.Ceil(r.Qty))
		line := OrderLine{
			Code:       r.Code,
			Name:       r.Name,
			Qty:        r.Qty,
			OrderQty:   orderQty,
			UnitCost:   r.UnitCost,
			OrderValue: r.UnitCost.Mul(decimal.NewFromInt(int64(orderQty))),
		}
		if line.OrderValue.GreaterThan(highValueThreshold) {
			line.Notes = "High value - verify before ordering"
		}
		out = append(out, line)

		totals.Qty += line.Qty
		totals.OrderQty += line.OrderQty
		totals.Cost = totals.Cost.Add(r.Cost)
		totals.OrderValue = totals.OrderValue.Add(line.OrderValue)
	}
	totals.Items = len(out)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderValue.GreaterThan(out[j].OrderValue)
	})
	return out, totals
}

// NeedsReview filters the aggregation down to rows a human must resolve
// before they can carry cost.
func NeedsReview(rows []AggregateRow) []AggregateRow {
	var out []AggregateRow
	for _, r := range rows {
		if r.Code == catalogue.NoCode || r.Code == sales.NoMatchCode ||
			strings.HasPrefix(r.Name, "UNMATCHED:") {
			out = append(out, r)
		}
	}
	return out
}

// orderable drops only codeless and unmatched rows. The assorted roll-up
// keeps its synthetic code and goes on the order list like any product.
func orderable(r AggregateRow) bool {
	return r.Code != "" &&
		r.Code != catalogue.NoCode &&
		r.Code != sales.NoMatchCode &&
		!strings.HasPrefix(r.Name, "UNMATCHED:")
}

// mergeMonths unions two month lists, sorted.
func mergeMonths(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, m := range list {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}
