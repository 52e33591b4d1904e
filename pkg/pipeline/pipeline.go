// Package pipeline runs one acquisition-and-reconciliation pass: every
// registered source is fetched in order, each role is reconciled, derived
// metrics are computed when possible and the snapshot is assembled.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/BBJcaptain/keju2/pkg/derive"
	"github.com/BBJcaptain/keju2/pkg/logging"
	"github.com/BBJcaptain/keju2/pkg/reconcile"
	"github.com/BBJcaptain/keju2/pkg/snapshot"
	"github.com/BBJcaptain/keju2/pkg/sources"
)

// Pipeline executes a single run. Runs are sequential and share nothing,
// so a Pipeline is safe to reuse across invocations.
type Pipeline struct {
	srcs       []sources.Source
	reconciler *reconcile.Reconciler
	logger     *logging.Logger
	now        func() time.Time
}

// New creates a pipeline over the given sources, invoked in slice order.
func New(srcs []sources.Source, reconciler *reconcile.Reconciler, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Pipeline{
		srcs:       srcs,
		reconciler: reconciler,
		logger:     logger,
		now:        time.Now,
	}
}

// Run performs one complete pass and returns the assembled snapshot. Run
// itself never fails: every upstream problem degrades into per-source
// error annotations inside the snapshot.
func (p *Pipeline) Run(ctx context.Context) *snapshot.Snapshot {
	p.logger.Info("Fetching prices from all sources", "sources", len(p.srcs))

	readings := make([]sources.Reading, 0, len(p.srcs))
	var vendor *sources.Reading

	for i, src := range p.srcs {
		p.logger.Info("Fetching source",
			"step", fmt.Sprintf("%d/%d", i+1, len(p.srcs)),
			"source", src.Name(),
			"role", string(src.Role()))

		reading := p.fetchOne(ctx, src)
		readings = append(readings, reading)

		if reading.Succeeded() {
			p.logger.Info("Source succeeded",
				"source", reading.Source,
				"role", string(reading.Role),
				"value", readingValue(reading))
			if reading.Role == sources.RoleVendorBars && vendor == nil {
				r := reading
				vendor = &r
			}
		} else {
			p.logger.Warn("Source failed",
				"source", reading.Source,
				"role", string(reading.Role),
				"error", reading.Err.Error())
		}
	}

	goldSpot := p.reconciler.Reconcile(sources.RoleGoldSpot, readingsFor(readings, sources.RoleGoldSpot))
	forex := p.reconciler.Reconcile(sources.RoleForexRate, readingsFor(readings, sources.RoleForexRate))

	var derived *derive.Metrics
	if goldSpot.HasData && forex.HasData {
		var bars []sources.BarPrice
		if vendor != nil {
			bars = vendor.Bars
		}
		derived = derive.Compute(goldSpot.Aggregate, forex.Aggregate, bars)
	}

	s := snapshot.Build(snapshot.Input{
		Timestamp: p.now(),
		Vendor:    vendor,
		GoldSpot:  goldSpot,
		Forex:     forex,
		Readings:  readings,
		Derived:   derived,
	})

	p.logSummary(s, goldSpot, forex, derived)
	return s
}

// fetchOne invokes a single adapter. The adapter contract says failures
// come back as errors, but a panicking parser library must not take the
// whole run down either, so the boundary also absorbs panics.
func (p *Pipeline) fetchOne(ctx context.Context, src sources.Source) (reading sources.Reading) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("source panicked: %v", r)
			p.logger.Error("Source panicked", "source", src.Name(), "panic", r)
			reading = sources.Reading{Role: src.Role(), Source: src.Name(), Err: err}
		}
	}()

	reading, err := src.Fetch(ctx)
	if err != nil && reading.Err == nil {
		reading = sources.Reading{Role: src.Role(), Source: src.Name(), Err: err}
	}
	return reading
}

func readingsFor(readings []sources.Reading, role sources.Role) []sources.Reading {
	out := make([]sources.Reading, 0, len(readings))
	for _, r := range readings {
		if r.Role == role {
			out = append(out, r)
		}
	}
	return out
}

func readingValue(r sources.Reading) string {
	if r.Role == sources.RoleVendorBars {
		return fmt.Sprintf("%d bars", len(r.Bars))
	}
	return r.Value.String()
}

func (p *Pipeline) logSummary(s *snapshot.Snapshot, goldSpot, forex reconcile.Result, derived *derive.Metrics) {
	if goldSpot.HasData {
		p.logger.Info("Gold spot reconciled",
			"average_usd_per_oz", goldSpot.Aggregate.Round(2).String(),
			"accepted", goldSpot.Accepted,
			"rejected", goldSpot.Rejected,
			"cross_validated", goldSpot.CrossValidated)
	} else {
		p.logger.Warn("Gold spot has no data")
	}

	if forex.HasData {
		p.logger.Info("USD/SGD reconciled",
			"average", forex.Aggregate.Round(4).String(),
			"accepted", forex.Accepted,
			"rejected", forex.Rejected,
			"cross_validated", forex.CrossValidated)
	} else {
		p.logger.Warn("USD/SGD has no data")
	}

	if derived != nil {
		p.logger.Info("Derived spot prices",
			"sgd_per_gram", derived.SpotPerGram.Round(2).String(),
			"sgd_per_kg", derived.SpotPerKg.Round(2).String())
		for _, bar := range derived.Bars {
			fields := []interface{}{
				"bar", bar.Kind,
				"premium_sgd", bar.PremiumAbsolute.Round(2).String(),
				"premium_pct", bar.PremiumPercent.Round(2).String(),
			}
			if bar.HasSpread {
				fields = append(fields,
					"spread_sgd", bar.SpreadAbsolute.Round(2).String(),
					"spread_pct", bar.SpreadPercent.Round(2).String())
			}
			p.logger.Info("Vendor bar metrics", fields...)
		}
	}

	if s.CriticalFailure() {
		p.logger.Error("Missing critical data",
			"uob_success", s.Status.UOBSuccess,
			"gold_spot_sources", s.Status.GoldSpotSources,
			"forex_sources", s.Status.ForexSources)
	} else {
		p.logger.Info("All critical data fetched",
			"gold_spot_sources", s.Status.GoldSpotSources,
			"forex_sources", s.Status.ForexSources)
	}
}
