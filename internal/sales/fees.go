package sales

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Fee and shipping arithmetic. All rates are inc-VAT unless named otherwise.

var (
	vatMult = decimal.NewFromFloat(1.2)

	ebayFinalValueRate = decimal.NewFromFloat(0.109)
	ebayRegulatoryRate = decimal.NewFromFloat(0.0035)
	ebayTopRatedDisc   = decimal.NewFromFloat(0.1)
	ebayPerOrderFee    = decimal.NewFromFloat(0.30)
	ebayPromotedRate   = decimal.NewFromFloat(0.02)

	amazonReferralRate = decimal.NewFromFloat(0.15)

	// monthly channel subscriptions, inc VAT
	EbayMonthlyFee   = decimal.NewFromFloat(32.40)
	AmazonMonthlyFee = decimal.NewFromFloat(30.00)
)

type FeeBreakdown struct {
	Base        decimal.Decimal
	Promoted    decimal.Decimal
	Total       decimal.Decimal
	TotalExcVAT decimal.Decimal
}

// EbayFees: final value fee + regulatory fee - top-rated discount + per-order
// fee, VAT on top, plus the 2% promoted-listing fee when applicable.
func EbayFees(soldFor decimal.Decimal, promoted bool) FeeBreakdown {
	base := soldFor.Mul(ebayFinalValueRate).
		Add(soldFor.Mul(ebayRegulatoryRate)).
		Sub(soldFor.Mul(ebayFinalValueRate).Mul(ebayTopRatedDisc)).
		Add(ebayPerOrderFee).
		Mul(vatMult)

	promotedFee := decimal.Zero
	if promoted {
		promotedFee = soldFor.Mul(ebayPromotedRate).Mul(vatMult)
	}

	total := base.Add(promotedFee)
	return FeeBreakdown{
		Base:        base,
		Promoted:    promotedFee,
		Total:       total,
		TotalExcVAT: total.Div(vatMult),
	}
}

// AmazonFees: flat 15% referral fee plus VAT.
func AmazonFees(amount decimal.Decimal) FeeBreakdown {
	referral := amount.Mul(amazonReferralRate)
	total := referral.Mul(vatMult)
	return FeeBreakdown{
		Base:        total,
		Total:       total,
		TotalExcVAT: referral,
	}
}

// Royal Mail / DPD postage. Base rates carry a green surcharge and an 8%
// fuel surcharge before VAT.
var (
	rmGreenSurcharge = decimal.NewFromFloat(0.04)
	rmFuelMult       = decimal.NewFromFloat(1.08)

	tracked48LetterBase = decimal.NewFromFloat(1.90)
	tracked48ParcelBase = decimal.NewFromFloat(2.60)
	tracked24Base       = decimal.NewFromFloat(3.20)
	dpdRate             = decimal.NewFromFloat(5.32)
	defaultPostage      = decimal.NewFromFloat(3.42)
)

// PostageCost derives the postage from the delivery service and tracking
// number. A QM-prefixed Tracked 48 tracking number is the letter rate; a
// tracking number starting with a digit means DPD.
func PostageCost(delivery, tracking string) decimal.Decimal {
	d := strings.ToLower(delivery)

	withSurcharges := func(base decimal.Decimal) decimal.Decimal {
		return base.Add(rmGreenSurcharge).Mul(rmFuelMult).Mul(vatMult)
	}

	switch {
	case strings.Contains(d, "royal mail tracked 48"):
		if strings.HasPrefix(tracking, "QM") {
			return withSurcharges(tracked48LetterBase)
		}
		return withSurcharges(tracked48ParcelBase)
	case strings.Contains(d, "royal mail tracked 24"):
		return withSurcharges(tracked24Base)
	case tracking != "" && tracking[0] >= '0' && tracking[0] <= '9':
		return dpdRate.Mul(vatMult)
	default:
		return defaultPostage
	}
}
