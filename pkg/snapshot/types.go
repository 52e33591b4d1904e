// Package snapshot assembles and persists the per-run result record.
package snapshot

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/BBJcaptain/keju2/pkg/sources"
)

// NoData is the sentinel written for any field whose source produced no
// usable value. It is distinct from zero: zero is never a valid price.
const NoData = "No Data"

const (
	currencyPlaces = 2
	ratePlaces     = 4
)

// Amount is a number that may be absent. Present amounts marshal as JSON
// numbers rounded to their configured precision; absent amounts marshal
// as the NoData sentinel. Rounding happens only here, at persistence
// time, never during computation.
type Amount struct {
	value  decimal.Decimal
	places int32
	valid  bool
}

// Currency wraps a currency amount (2 decimal places).
func Currency(v decimal.Decimal) Amount {
	return Amount{value: v, places: currencyPlaces, valid: true}
}

// Rate wraps an exchange rate (4 decimal places).
func Rate(v decimal.Decimal) Amount {
	return Amount{value: v, places: ratePlaces, valid: true}
}

// Absent returns the no-data amount.
func Absent() Amount {
	return Amount{}
}

// Valid reports whether the amount carries a value.
func (a Amount) Valid() bool {
	return a.valid
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.valid {
		return json.Marshal(NoData)
	}
	// Round(n).String() is already a valid JSON number literal.
	return []byte(a.value.Round(a.places).String()), nil
}

// VendorPrices is the vendor bar price block: a mapping of bar-kind keys
// to buy/sell numbers, or the NoData sentinel when the vendor fetch
// failed entirely.
type VendorPrices struct {
	Bars []sources.BarPrice
	OK   bool
}

// MarshalJSON implements json.Marshaler.
func (v VendorPrices) MarshalJSON() ([]byte, error) {
	if !v.OK {
		return json.Marshal(NoData)
	}
	prices := make(map[string]Amount, len(v.Bars)*2)
	for _, bar := range v.Bars {
		if bar.HasBuy() {
			prices[bar.Kind+"_buy"] = Currency(bar.Buy)
		}
		if bar.HasSell() {
			prices[bar.Kind+"_sell"] = Currency(bar.Sell)
		}
	}
	return json.Marshal(prices)
}

// RoleBlock reports one reconciled role: the aggregate, every attempted
// source's own value (NoData for failures), and the validation outcome.
type RoleBlock struct {
	Average        Amount            `json:"average"`
	Sources        map[string]Amount `json:"sources"`
	SourceCount    int               `json:"source_count"`
	CrossValidated bool              `json:"cross_validated"`
}

// Status summarizes the run for quick machine checks.
type Status struct {
	UOBSuccess          bool `json:"uob_success"`
	GoldSpotSources     int  `json:"gold_spot_sources"`
	ForexSources        int  `json:"forex_sources"`
	GoldCrossValidated  bool `json:"gold_cross_validated"`
	ForexCrossValidated bool `json:"forex_cross_validated"`
}

// BarCalc holds the persisted comparison metrics for one vendor bar.
type BarCalc struct {
	KeyPrefix      string // e.g. "uob_1kg"
	Premium        Amount
	PremiumPercent Amount
	Spread         Amount
	SpreadPercent  Amount
	HasSpread      bool
}

// Calculated is the derived-metrics block, present only when both the
// spot price and the forex rate were reconciled.
type Calculated struct {
	SpotPerGram Amount
	SpotPerKg   Amount
	Bars        []BarCalc
}

// MarshalJSON implements json.Marshaler. Keys are flat, matching the
// consumer's existing field names.
func (c Calculated) MarshalJSON() ([]byte, error) {
	fields := map[string]Amount{
		"spot_price_sgd_per_gram": c.SpotPerGram,
		"spot_price_sgd_per_kg":   c.SpotPerKg,
	}
	for _, bar := range c.Bars {
		fields[bar.KeyPrefix+"_premium_sgd"] = bar.Premium
		fields[bar.KeyPrefix+"_premium_percent"] = bar.PremiumPercent
		if bar.HasSpread {
			fields[bar.KeyPrefix+"_spread_sgd"] = bar.Spread
			fields[bar.KeyPrefix+"_spread_percent"] = bar.SpreadPercent
		}
	}
	return json.Marshal(fields)
}

// Snapshot is the complete result record for one run. It has no identity
// across runs; the writer replaces the previous file wholesale.
type Snapshot struct {
	LastUpdated  string            `json:"last_updated"`
	VendorPrices VendorPrices      `json:"uob_prices_sgd"`
	GoldSpot     RoleBlock         `json:"gold_spot_usd_per_oz"`
	ForexRate    RoleBlock         `json:"usd_sgd_rate"`
	Status       Status            `json:"status"`
	Errors       map[string]string `json:"errors"`
	Calculated   *Calculated       `json:"calculated,omitempty"`
}

// CriticalFailure reports whether the run is missing data it cannot do
// without: vendor bars, or every source of a required market role.
func (s *Snapshot) CriticalFailure() bool {
	return !s.Status.UOBSuccess || s.Status.GoldSpotSources == 0 || s.Status.ForexSources == 0
}
