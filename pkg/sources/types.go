// Package sources provides price source interfaces and implementations.
package sources

import (
	"context"

	"github.com/shopspring/decimal"
)

// Role represents the semantic role a source fills in the snapshot.
type Role string

const (
	// RoleVendorBars identifies vendor gold-bar retail price sources.
	RoleVendorBars Role = "vendor"
	// RoleGoldSpot identifies XAUUSD spot price sources.
	RoleGoldSpot Role = "spot"
	// RoleForexRate identifies USD/SGD exchange rate sources.
	RoleForexRate Role = "forex"
)

// Reading is the result of one adapter invocation. A failed fetch carries
// Err and nothing else; a successful scalar fetch carries Value; a
// successful vendor fetch carries Bars.
type Reading struct {
	Role   Role
	Source string
	Value  decimal.Decimal
	Bars   []BarPrice
	Err    error
}

// Succeeded reports whether the adapter produced usable data.
func (r Reading) Succeeded() bool {
	return r.Err == nil
}

// BarPrice is a vendor buy/sell quote for one physical bar product.
// A zero Buy or Sell means that side was missing from the response;
// extracted prices are always positive.
type BarPrice struct {
	Kind        string          // e.g. "1kg_cast", "100g_argor"
	Description string          // vendor product description, informational
	WeightGrams decimal.Decimal
	Buy         decimal.Decimal // customer pays this to acquire
	Sell        decimal.Decimal // vendor pays this to repurchase
}

// HasBuy reports whether a buy price was extracted.
func (b BarPrice) HasBuy() bool {
	return b.Buy.IsPositive()
}

// HasSell reports whether a sell price was extracted.
func (b BarPrice) HasSell() bool {
	return b.Sell.IsPositive()
}

// Source defines the interface all price sources implement. Fetch performs
// a single attempt; retries across runs are the scheduler's concern.
type Source interface {
	// Name returns the unique name of this source
	Name() string

	// Role returns the semantic role of this source
	Role() Role

	// Fetch performs one fetch-and-parse attempt and returns a Reading.
	// Implementations must convert every failure mode into an error
	// return; nothing is allowed to escape as a panic.
	Fetch(ctx context.Context) (Reading, error)
}

// SourceFactory is a function that creates a new Source instance
type SourceFactory func(config map[string]interface{}) (Source, error)

// Band is a plausibility range for an extracted value. Values outside the
// band are extraction failures, not valid data.
type Band struct {
	Low  decimal.Decimal
	High decimal.Decimal
}

// Contains reports whether v lies strictly inside the band.
func (b Band) Contains(v decimal.Decimal) bool {
	return v.GreaterThan(b.Low) && v.LessThan(b.High)
}

var (
	// GoldSpotBand bounds credible XAUUSD quotes (USD per troy ounce).
	GoldSpotBand = Band{Low: decimal.NewFromInt(1000), High: decimal.NewFromInt(10000)}
	// ForexBand bounds credible USD/SGD quotes.
	ForexBand = Band{Low: decimal.NewFromInt(1), High: decimal.NewFromInt(2)}
)
