// Package derive computes SGD-denominated spot prices and vendor
// comparison metrics from the reconciled market values.
package derive

import (
	"github.com/shopspring/decimal"

	"github.com/BBJcaptain/keju2/pkg/sources"
)

// gramsPerTroyOunce is the fixed troy ounce to gram conversion.
var gramsPerTroyOunce = decimal.RequireFromString("31.1035")

var (
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
)

// BarMetrics compares one vendor bar against the spot-derived fair price
// for the same weight.
type BarMetrics struct {
	Kind            string
	PremiumAbsolute decimal.Decimal
	PremiumPercent  decimal.Decimal
	SpreadAbsolute  decimal.Decimal
	SpreadPercent   decimal.Decimal
	HasSpread       bool
}

// Metrics holds everything derivable from the reconciled spot price and
// forex rate. Built only when both inputs are present; callers must not
// substitute zeros to force a computation.
type Metrics struct {
	SpotPerGram decimal.Decimal // SGD per gram
	SpotPerKg   decimal.Decimal // SGD per kilogram
	Bars        []BarMetrics
}

// Compute derives metrics from a spot price (USD per troy ounce), a forex
// rate (SGD per USD) and the vendor bars. No rounding happens here;
// values stay at full precision until persistence.
func Compute(spot, rate decimal.Decimal, bars []sources.BarPrice) *Metrics {
	perGram := spot.Mul(rate).Div(gramsPerTroyOunce)
	perKg := perGram.Mul(thousand)

	m := &Metrics{
		SpotPerGram: perGram,
		SpotPerKg:   perKg,
	}

	for _, bar := range bars {
		if !bar.HasBuy() {
			continue
		}

		// Fair value of this bar's weight at spot.
		fair := perGram.Mul(bar.WeightGrams)

		premium := bar.Buy.Sub(fair)
		bm := BarMetrics{
			Kind:            bar.Kind,
			PremiumAbsolute: premium,
			PremiumPercent:  premium.Div(fair).Mul(hundred),
		}

		if bar.HasSell() {
			spread := bar.Buy.Sub(bar.Sell)
			bm.SpreadAbsolute = spread
			bm.SpreadPercent = spread.Div(bar.Buy).Mul(hundred)
			bm.HasSpread = true
		}

		m.Bars = append(m.Bars, bm)
	}

	return m
}
