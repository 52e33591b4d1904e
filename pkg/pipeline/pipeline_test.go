package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/BBJcaptain/keju2/pkg/reconcile"
	"github.com/BBJcaptain/keju2/pkg/sources"
)

// fakeSource returns a canned reading or error without touching the network.
type fakeSource struct {
	name    string
	role    sources.Role
	value   decimal.Decimal
	bars    []sources.BarPrice
	err     error
	panics  bool
	fetched *int
}

func (f *fakeSource) Name() string       { return f.name }
func (f *fakeSource) Role() sources.Role { return f.role }

func (f *fakeSource) Fetch(ctx context.Context) (sources.Reading, error) {
	if f.fetched != nil {
		*f.fetched++
	}
	if f.panics {
		panic("parser exploded")
	}
	if f.err != nil {
		return sources.Reading{Role: f.role, Source: f.name, Err: f.err}, f.err
	}
	return sources.Reading{Role: f.role, Source: f.name, Value: f.value, Bars: f.bars}, nil
}

func spotSource(name string, value float64) *fakeSource {
	return &fakeSource{name: name, role: sources.RoleGoldSpot, value: decimal.NewFromFloat(value)}
}

func forexSource(name string, value float64) *fakeSource {
	return &fakeSource{name: name, role: sources.RoleForexRate, value: decimal.NewFromFloat(value)}
}

func vendorSource(name string) *fakeSource {
	return &fakeSource{
		name: name,
		role: sources.RoleVendorBars,
		bars: []sources.BarPrice{
			{Kind: "1kg_cast", WeightGrams: decimal.NewFromInt(1000), Buy: decimal.NewFromInt(118000), Sell: decimal.NewFromInt(117500)},
		},
	}
}

func TestPipeline_CompleteRun(t *testing.T) {
	srcs := []sources.Source{
		vendorSource("uob"),
		spotSource("a", 2650),
		spotSource("b", 2651),
		spotSource("c", 2652),
		forexSource("x", 1.3425),
		forexSource("y", 1.3430),
	}
	p := New(srcs, reconcile.NewReconciler(reconcile.DefaultPolicy(), nil), nil)

	s := p.Run(context.Background())

	if s.CriticalFailure() {
		t.Error("Expected successful run")
	}
	if s.Status.GoldSpotSources != 3 {
		t.Errorf("Expected 3 gold sources, got %d", s.Status.GoldSpotSources)
	}
	if s.Status.ForexSources != 2 {
		t.Errorf("Expected 2 forex sources, got %d", s.Status.ForexSources)
	}
	if !s.Status.UOBSuccess {
		t.Error("Expected vendor success")
	}
	if s.Calculated == nil {
		t.Error("Expected calculated block on a complete run")
	}
	if len(s.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", s.Errors)
	}
}

func TestPipeline_AllSourcesAttempted(t *testing.T) {
	// A failing source must not stop the sweep.
	counts := make([]int, 3)
	srcs := []sources.Source{
		&fakeSource{name: "uob", role: sources.RoleVendorBars, err: errors.New("503"), fetched: &counts[0]},
		&fakeSource{name: "a", role: sources.RoleGoldSpot, value: decimal.NewFromInt(2650), fetched: &counts[1]},
		&fakeSource{name: "x", role: sources.RoleForexRate, value: decimal.NewFromFloat(1.3425), fetched: &counts[2]},
	}
	p := New(srcs, reconcile.NewReconciler(reconcile.DefaultPolicy(), nil), nil)

	s := p.Run(context.Background())

	for i, c := range counts {
		if c != 1 {
			t.Errorf("Source %d fetched %d times, want 1", i, c)
		}
	}
	if s.Status.UOBSuccess {
		t.Error("Expected vendor failure recorded")
	}
	if !s.CriticalFailure() {
		t.Error("Vendor failure is critical")
	}
	// The market roles still produced data.
	if s.Status.GoldSpotSources != 1 || s.Status.ForexSources != 1 {
		t.Errorf("Expected 1 source per market role, got %d/%d",
			s.Status.GoldSpotSources, s.Status.ForexSources)
	}
	if s.Errors["uob"] != "503" {
		t.Errorf("Expected uob error recorded, got %v", s.Errors)
	}
}

func TestPipeline_PanicContained(t *testing.T) {
	srcs := []sources.Source{
		&fakeSource{name: "bad", role: sources.RoleGoldSpot, panics: true},
		spotSource("good", 2650),
		forexSource("x", 1.3425),
		vendorSource("uob"),
	}
	p := New(srcs, reconcile.NewReconciler(reconcile.DefaultPolicy(), nil), nil)

	s := p.Run(context.Background())

	if _, ok := s.Errors["bad"]; !ok {
		t.Errorf("Expected panic recorded as source error, got %v", s.Errors)
	}
	if s.Status.GoldSpotSources != 1 {
		t.Errorf("Expected the surviving gold source, got %d", s.Status.GoldSpotSources)
	}
	if s.CriticalFailure() {
		t.Error("One panicking source must not fail the run")
	}
}

func TestPipeline_NoDerivationWithoutForex(t *testing.T) {
	srcs := []sources.Source{
		vendorSource("uob"),
		spotSource("a", 2650),
		&fakeSource{name: "x", role: sources.RoleForexRate, err: errors.New("timeout")},
	}
	p := New(srcs, reconcile.NewReconciler(reconcile.DefaultPolicy(), nil), nil)

	s := p.Run(context.Background())

	if s.Calculated != nil {
		t.Error("Expected no calculated block without a forex rate")
	}
	if !s.CriticalFailure() {
		t.Error("Missing forex data is critical")
	}
	// Vendor bar prices are still reported as fetched.
	if !s.Status.UOBSuccess {
		t.Error("Expected vendor success untouched by forex failure")
	}
}

func TestPipeline_FirstVendorWins(t *testing.T) {
	first := vendorSource("uob")
	second := &fakeSource{
		name: "backup",
		role: sources.RoleVendorBars,
		bars: []sources.BarPrice{
			{Kind: "1kg_cast", WeightGrams: decimal.NewFromInt(1000), Buy: decimal.NewFromInt(999999)},
		},
	}
	srcs := []sources.Source{
		first, second,
		spotSource("a", 2650),
		forexSource("x", 1.3425),
	}
	p := New(srcs, reconcile.NewReconciler(reconcile.DefaultPolicy(), nil), nil)

	s := p.Run(context.Background())

	if s.Calculated == nil {
		t.Fatal("Expected calculated block")
	}
	// Premium derives from the first vendor's 118000 buy price, not the
	// backup's 999999.
	if len(s.Calculated.Bars) != 1 {
		t.Fatalf("Expected 1 bar calc, got %d", len(s.Calculated.Bars))
	}
	if s.Calculated.Bars[0].KeyPrefix != "uob_1kg" {
		t.Errorf("Unexpected bar key prefix %s", s.Calculated.Bars[0].KeyPrefix)
	}
	data, err := s.Calculated.MarshalJSON()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if m["uob_1kg_premium_sgd"] > 10000 {
		t.Errorf("Premium %v derives from the backup vendor, expected the first", m["uob_1kg_premium_sgd"])
	}
}
