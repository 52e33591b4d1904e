package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/BBJcaptain/keju2/pkg/derive"
	"github.com/BBJcaptain/keju2/pkg/reconcile"
	"github.com/BBJcaptain/keju2/pkg/sources"
)

// Input carries everything one run produced.
type Input struct {
	Timestamp time.Time

	// Vendor is the authoritative vendor reading, nil when no vendor
	// adapter succeeded.
	Vendor *sources.Reading

	GoldSpot reconcile.Result
	Forex    reconcile.Result

	// Readings holds every adapter invocation of the run, in fetch
	// order, successes and failures alike.
	Readings []sources.Reading

	// Derived is nil unless both GoldSpot and Forex reconciled.
	Derived *derive.Metrics
}

// Build assembles the snapshot record from one run's results.
func Build(in Input) *Snapshot {
	s := &Snapshot{
		LastUpdated: in.Timestamp.UTC().Format(time.RFC3339),
		GoldSpot:    roleBlock(in.GoldSpot, in.Readings, sources.RoleGoldSpot),
		ForexRate:   roleBlock(in.Forex, in.Readings, sources.RoleForexRate),
		Errors:      errorMap(in.Readings),
	}

	if in.Vendor != nil {
		s.VendorPrices = VendorPrices{Bars: in.Vendor.Bars, OK: true}
	}

	s.Status = Status{
		UOBSuccess:          in.Vendor != nil,
		GoldSpotSources:     in.GoldSpot.SourceCount(),
		ForexSources:        in.Forex.SourceCount(),
		GoldCrossValidated:  in.GoldSpot.CrossValidated,
		ForexCrossValidated: in.Forex.CrossValidated,
	}

	if in.Derived != nil {
		s.Calculated = calculated(in.Derived)
	}

	return s
}

func roleBlock(result reconcile.Result, readings []sources.Reading, role sources.Role) RoleBlock {
	// Exchange rates persist at 4 decimal places, everything else at 2.
	wrap := Currency
	if role == sources.RoleForexRate {
		wrap = Rate
	}

	block := RoleBlock{
		Sources:        make(map[string]Amount),
		SourceCount:    result.SourceCount(),
		CrossValidated: result.CrossValidated,
	}

	if result.HasData {
		block.Average = wrap(result.Aggregate)
	} else {
		block.Average = Absent()
	}

	// Every attempted source appears; failures carry the sentinel, and
	// rejected outliers still show their own raw value.
	for _, reading := range readings {
		if reading.Role != role {
			continue
		}
		if reading.Succeeded() {
			block.Sources[reading.Source] = wrap(reading.Value)
		} else {
			block.Sources[reading.Source] = Absent()
		}
	}

	return block
}

// errorMap collects failure messages keyed by source name; successful
// sources are omitted. Names shared across roles get a role suffix so
// the entries stay distinguishable.
func errorMap(readings []sources.Reading) map[string]string {
	rolesBySource := make(map[string]map[sources.Role]struct{})
	for _, reading := range readings {
		set, ok := rolesBySource[reading.Source]
		if !ok {
			set = make(map[sources.Role]struct{})
			rolesBySource[reading.Source] = set
		}
		set[reading.Role] = struct{}{}
	}

	errs := make(map[string]string)
	for _, reading := range readings {
		if reading.Succeeded() {
			continue
		}
		key := reading.Source
		if len(rolesBySource[reading.Source]) > 1 {
			key = fmt.Sprintf("%s_%s", reading.Source, reading.Role)
		}
		errs[key] = reading.Err.Error()
	}
	return errs
}

// calculated converts the derived metrics into their persisted form.
func calculated(m *derive.Metrics) *Calculated {
	c := &Calculated{
		SpotPerGram: Currency(m.SpotPerGram),
		SpotPerKg:   Currency(m.SpotPerKg),
	}

	for _, bar := range m.Bars {
		bc := BarCalc{
			KeyPrefix:      barKeyPrefix(bar.Kind),
			Premium:        Currency(bar.PremiumAbsolute),
			PremiumPercent: Currency(bar.PremiumPercent),
			HasSpread:      bar.HasSpread,
		}
		if bar.HasSpread {
			bc.Spread = Currency(bar.SpreadAbsolute)
			bc.SpreadPercent = Currency(bar.SpreadPercent)
		}
		c.Bars = append(c.Bars, bc)
	}

	return c
}

// barKeyPrefix maps a bar kind like "1kg_cast" to the persisted key
// prefix "uob_1kg".
func barKeyPrefix(kind string) string {
	weight, _, found := strings.Cut(kind, "_")
	if !found {
		weight = kind
	}
	return "uob_" + weight
}
