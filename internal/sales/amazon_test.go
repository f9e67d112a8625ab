package sales

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-recon/internal/match"
)

func TestParseBundleQuantity(t *testing.T) {
	tests := []struct {
		in    string
		qty   int
		clean string
	}{
		{"3 Pack of Likas Papaya Soap", 3, "Likas Papaya Soap"},
		{"Lot of 6 Silka Lotion 300ml", 6, "Silka Lotion 300ml"},
		{"Bundle of 2 Kojie San Soap", 2, "Kojie San Soap"},
		{"Likas Papaya Soap", 1, "Likas Papaya Soap"},
		{"0 Pack of Soap", 1, "Soap"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			qty, clean := ParseBundleQuantity(tt.in)
			assert.Equal(t, tt.qty, qty)
			assert.Equal(t, tt.clean, clean)
		})
	}
}

func amazonRow(overrides map[string]string) map[string]string {
	row := map[string]string{
		"date/time":      "2026-01-05 10:30:00",
		"type":           "Order",
		"order id":       "202-1234567-1234567",
		"Transaction ID": "TX-1",
		"description":    "Likas Papaya Herbal Soap 135g",
		"quantity":       "1",
		"total":          "£6.50",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestAmazonProcess(t *testing.T) {
	p := NewAmazon(testMatcher(t), zerolog.Nop())

	t.Run("matched row is fully costed", func(t *testing.T) {
		months := p.Process([]map[string]string{amazonRow(nil)})
		require.Len(t, months, 1)
		m := months[0]
		assert.Equal(t, "January 2026", m.Name)
		assert.Equal(t, "amazon", m.Channel)
		require.Len(t, m.Lines, 1)

		ln := m.Lines[0]
		assert.Equal(t, "LK-135", ln.Code)
		assert.True(t, ln.Fees.Equal(AmazonFees(d("6.5")).Total), "fees %s", ln.Fees)
		assert.True(t, ln.Postage.Equal(d("3.21")), "postage %s", ln.Postage)
		assert.True(t, ln.CostPrice.Equal(d("1.2")), "cost %s", ln.CostPrice)
	})

	t.Run("bundle title multiplies the quantity", func(t *testing.T) {
		months := p.Process([]map[string]string{
			amazonRow(map[string]string{
				"description": "3 Pack of Likas Papaya Herbal Soap 135g",
				"quantity":    "2",
			}),
		})
		require.Len(t, months, 1)
		ln := months[0].Lines[0]
		assert.Equal(t, "LK-135", ln.Code)
		assert.Equal(t, 6.0, ln.Qty)
		assert.True(t, ln.CostPrice.Equal(d("7.2")), "cost %s", ln.CostPrice)
	})

	t.Run("non-sale rows are skipped", func(t *testing.T) {
		months := p.Process([]map[string]string{
			amazonRow(map[string]string{"type": "Service Fee", "description": "Subscription"}),
			amazonRow(map[string]string{"type": "Debt"}),
			amazonRow(map[string]string{"order id": ""}),
			amazonRow(map[string]string{"description": ""}),
			amazonRow(nil),
		})
		require.Len(t, months, 1)
		assert.Len(t, months[0].Lines, 1)
	})

	t.Run("unmatched row has no postage", func(t *testing.T) {
		months := p.Process([]map[string]string{
			amazonRow(map[string]string{"description": "Completely Unrelated Widget 9000"}),
		})
		ln := months[0].Lines[0]
		assert.Equal(t, NoMatchCode, ln.Code)
		assert.Equal(t, match.HandlingManualReview, ln.Handling)
		assert.True(t, ln.Postage.IsZero())
		assert.True(t, ln.NetProfit.Equal(ln.SoldFor.Sub(ln.Fees)))
	})

	t.Run("custom shipping rate", func(t *testing.T) {
		p := NewAmazon(testMatcher(t), zerolog.Nop())
		p.SetShippingRate(d("2.75"))
		months := p.Process([]map[string]string{amazonRow(nil)})
		assert.True(t, months[0].Lines[0].Postage.Equal(d("2.75")))
	})

	t.Run("subscription folds into totals", func(t *testing.T) {
		months := p.Process([]map[string]string{amazonRow(nil)})
		m := months[0]
		assert.True(t, m.SubscriptionFee.Equal(AmazonMonthlyFee))
		assert.True(t, m.Totals.Fees.Equal(m.Lines[0].Fees.Add(AmazonMonthlyFee)))
	})
}
