// Package reconcile decides which readings to trust for a role and how to
// combine them into one aggregate value.
package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/BBJcaptain/keju2/pkg/logging"
	"github.com/BBJcaptain/keju2/pkg/metrics"
	"github.com/BBJcaptain/keju2/pkg/sources"
)

// DefaultTolerance is the maximum deviation from the median, as a
// fraction of the median, for a reading to be accepted.
const DefaultTolerance = 0.05 // 5%

// Policy controls when outlier filtering applies and when a role counts
// as cross-validated. Both thresholds drifted between revisions of this
// system, so they are explicit configuration rather than constants.
type Policy struct {
	// FilterMinSources is the number of successful readings required
	// before median-based outlier filtering applies.
	FilterMinSources int
	// ValidateMinSources is the number of successful readings required
	// for the role to count as cross-validated.
	ValidateMinSources int
	// Tolerance is the accepted deviation from the median as a fraction.
	Tolerance decimal.Decimal
}

// DefaultPolicy returns the active policy: filtering needs three readings,
// agreement of two independent sources counts as validated.
func DefaultPolicy() Policy {
	return Policy{
		FilterMinSources:   3,
		ValidateMinSources: 2,
		Tolerance:          decimal.NewFromFloat(DefaultTolerance),
	}
}

// Decision records the accept/reject outcome for one reading.
type Decision struct {
	Source       string
	Value        decimal.Decimal
	Accepted     bool
	DeviationPct decimal.Decimal // absolute deviation from the median, percent
}

// Result is the reconciled value for one role in one run.
type Result struct {
	Role           sources.Role
	Aggregate      decimal.Decimal
	HasData        bool
	CrossValidated bool
	Accepted       []string
	Rejected       []string
	Decisions      []Decision
}

// SourceCount returns the number of readings folded into the aggregate.
func (r Result) SourceCount() int {
	return len(r.Accepted)
}

// Reconciler applies a Policy to the readings of a role. It is stateless;
// the logger only carries advisories and rejection diagnostics.
type Reconciler struct {
	policy Policy
	logger *logging.Logger
}

// NewReconciler creates a reconciler with the given policy.
func NewReconciler(policy Policy, logger *logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	if policy.Tolerance.IsZero() {
		policy.Tolerance = decimal.NewFromFloat(DefaultTolerance)
	}
	return &Reconciler{policy: policy, logger: logger}
}

// Reconcile folds the successful readings for one role into a Result.
func (r *Reconciler) Reconcile(role sources.Role, readings []sources.Reading) Result {
	result := Result{Role: role}

	succeeded := make([]sources.Reading, 0, len(readings))
	for _, reading := range readings {
		if reading.Succeeded() {
			succeeded = append(succeeded, reading)
		}
	}

	result.CrossValidated = len(succeeded) >= r.policy.ValidateMinSources

	switch {
	case len(succeeded) == 0:
		// No data: the aggregate stays absent, never zero.
		return result

	case len(succeeded) == 1:
		r.logger.Warn("Only one source available, cannot cross-validate",
			"role", string(role),
			"source", succeeded[0].Source)
		result.Aggregate = succeeded[0].Value
		result.HasData = true
		result.Accepted = []string{succeeded[0].Source}
		result.Decisions = []Decision{{
			Source:   succeeded[0].Source,
			Value:    succeeded[0].Value,
			Accepted: true,
		}}

	case len(succeeded) < r.policy.FilterMinSources:
		// Too few readings to judge outliers; accept everything.
		for _, reading := range succeeded {
			result.Accepted = append(result.Accepted, reading.Source)
			result.Decisions = append(result.Decisions, Decision{
				Source:   reading.Source,
				Value:    reading.Value,
				Accepted: true,
			})
		}
		result.Aggregate = mean(succeeded)
		result.HasData = true

	default:
		r.filterOutliers(role, succeeded, &result)
	}

	metrics.RecordReconciled(string(role), result.SourceCount())
	return result
}

// filterOutliers applies median-based rejection: readings deviating more
// than the tolerance from the median are excluded, and the aggregate is
// the arithmetic mean of the remainder.
func (r *Reconciler) filterOutliers(role sources.Role, succeeded []sources.Reading, result *Result) {
	med := median(succeeded)
	tolerance := med.Mul(r.policy.Tolerance)
	hundred := decimal.NewFromInt(100)

	accepted := make([]sources.Reading, 0, len(succeeded))
	for _, reading := range succeeded {
		deviation := reading.Value.Sub(med).Abs()
		deviationPct := decimal.Zero
		if !med.IsZero() {
			deviationPct = deviation.Div(med).Mul(hundred)
		}

		decision := Decision{
			Source:       reading.Source,
			Value:        reading.Value,
			DeviationPct: deviationPct,
		}

		if deviation.LessThanOrEqual(tolerance) {
			decision.Accepted = true
			accepted = append(accepted, reading)
			result.Accepted = append(result.Accepted, reading.Source)
		} else {
			result.Rejected = append(result.Rejected, reading.Source)
			metrics.RecordOutlierRejection(string(role), reading.Source)
			r.logger.Warn("Rejecting outlier reading",
				"role", string(role),
				"source", reading.Source,
				"value", reading.Value.String(),
				"median", med.String(),
				"deviation_pct", deviationPct.StringFixed(1))
		}

		result.Decisions = append(result.Decisions, decision)
	}

	if len(accepted) == 0 {
		// Every reading disagreed with every other; there is no
		// consensus to report.
		r.logger.Error("All readings rejected as outliers",
			"role", string(role),
			"count", len(succeeded))
		return
	}

	result.Aggregate = mean(accepted)
	result.HasData = true
}

// median returns the element at index n/2 of the sorted values, matching
// the simple selection used throughout this system's history.
func median(readings []sources.Reading) decimal.Decimal {
	values := make([]decimal.Decimal, len(readings))
	for i, reading := range readings {
		values[i] = reading.Value
	}
	sort.Slice(values, func(i, j int) bool {
		return values[i].LessThan(values[j])
	})
	return values[len(values)/2]
}

func mean(readings []sources.Reading) decimal.Decimal {
	sum := decimal.Zero
	for _, reading := range readings {
		sum = sum.Add(reading.Value)
	}
	return sum.Div(decimal.NewFromInt(int64(len(readings))))
}
