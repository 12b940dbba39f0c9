package run

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/satnetlab/satnet/internal/access"
	"github.com/satnetlab/satnet/internal/config"
	"github.com/satnetlab/satnet/internal/export"
	"github.com/satnetlab/satnet/internal/scenario"
)

// fakeEngine implements the full Engine surface in memory. It emits one
// short interval per queried pair and records lifecycle calls.
type fakeEngine struct {
	registered  []string
	constraints []string
	queries     int
	closed      bool

	failCompute error
}

func (f *fakeEngine) RegisterSatellite(_ context.Context, name string, _ scenario.OrbitalElements) error {
	f.registered = append(f.registered, name)
	return nil
}

func (f *fakeEngine) RegisterGroundStation(_ context.Context, name string, _ scenario.Geodetic) error {
	f.registered = append(f.registered, name)
	return nil
}

func (f *fakeEngine) RegisterAircraft(_ context.Context, name string, _ []scenario.Waypoint) error {
	f.registered = append(f.registered, name)
	return nil
}

func (f *fakeEngine) SetConstraint(_ context.Context, entity string, spec scenario.ConstraintSpec) error {
	f.constraints = append(f.constraints, entity+": "+spec.String())
	return nil
}

func (f *fakeEngine) ComputeAccess(_ context.Context, a, b *scenario.Entity, win access.Window) ([]access.Interval, error) {
	f.queries++
	if f.failCompute != nil {
		return nil, f.failCompute
	}
	start := win.Start.Add(time.Duration(f.queries) * time.Hour)
	return []access.Interval{{Start: start, Stop: start.Add(10 * time.Minute)}}, nil
}

func (f *fakeEngine) Close(context.Context) error {
	f.closed = true
	return nil
}

func testConfig(t *testing.T) config.Scenario {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.Satellites = []config.Satellite{
		{Name: "LEO_Sat_1", SemiMajorAxisKm: 7000, Eccentricity: 0.001, InclinationDeg: 98},
		{Name: "LEO_Sat_2", SemiMajorAxisKm: 7000, Eccentricity: 0.001, InclinationDeg: 98, RAANDeg: 90},
	}
	cfg.GroundStations = []config.GroundStation{
		{Name: "GS_NewYork", LatDeg: 40.7128, LonDeg: -74.0060},
		{Name: "GS_London", LatDeg: 51.5074, LonDeg: -0.1278},
	}
	cfg.Aircraft = []config.Aircraft{
		{Name: "Flight_AA100", LatDeg: 45, LonDeg: -50, AltitudeM: 10000, SpeedMPS: 250, HeadingDeg: 78, RangeKm: 5000},
	}
	cfg.Constraints = []config.Constraint{
		{Entity: "GS_NewYork", Kind: "elevation", Bound: "min", Value: 5},
	}
	return cfg
}

func runWith(t *testing.T, cfg config.Scenario, eng *fakeEngine) (*Result, error) {
	t.Helper()
	dial := func(context.Context, string, access.Window) (Engine, error) { return eng, nil }
	return Run(context.Background(), Options{
		Logger: log.New(io.Discard, "", 0),
		Cfg:    cfg,
		Dial:   dial,
	})
}

func TestRunFullPipeline(t *testing.T) {
	cfg := testConfig(t)
	eng := &fakeEngine{}

	res, err := runWith(t, cfg, eng)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(eng.registered) != 5 {
		t.Errorf("Registered = %v", eng.registered)
	}
	// 2x2 sat-ground, 2x1 sat-air, 1x2 ground-air.
	if eng.queries != 8 {
		t.Errorf("Queries = %d, want 8", eng.queries)
	}
	if !eng.closed {
		t.Error("Engine session not released")
	}

	// The explicit constraint survives; GS_London picks up the default
	// mask from the scenario section.
	wantConstraints := []string{
		"GS_NewYork: min elevation = 5",
		"GS_London: min elevation = 10",
	}
	for i, want := range wantConstraints {
		if i >= len(eng.constraints) || eng.constraints[i] != want {
			t.Errorf("Constraints = %v, want %v", eng.constraints, wantConstraints)
			break
		}
	}

	for _, path := range []string{res.CSVPath, res.TimelinePath, res.ReportPath} {
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("Output %s missing or empty (%v)", path, err)
		}
	}

	// The CSV round-trips to the computed interval set.
	ivs, err := export.ReadCSV(res.CSVPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(ivs) != len(res.Set.Intervals) {
		t.Errorf("CSV rows = %d, want %d", len(ivs), len(res.Set.Intervals))
	}

	if len(res.Stats) != 8 {
		t.Errorf("Stats = %d links, want 8", len(res.Stats))
	}
	if len(res.Entities) != 5 {
		t.Errorf("Entities = %d, want 5", len(res.Entities))
	}
}

func TestRunPairPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pairs.SatelliteAir = false
	cfg.Pairs.GroundAir = false
	eng := &fakeEngine{}

	res, err := runWith(t, cfg, eng)
	if err != nil {
		t.Fatal(err)
	}
	if eng.queries != 4 {
		t.Errorf("Queries = %d, want 4 (sat-ground only)", eng.queries)
	}
	for _, l := range res.Set.Links {
		if l.Class != access.ClassSatGround {
			t.Errorf("Unexpected link class %s", l.Class)
		}
	}
}

func TestRunReleasesSessionOnQueryFailure(t *testing.T) {
	cfg := testConfig(t)
	eng := &fakeEngine{failCompute: errors.New("propagation diverged")}

	_, err := runWith(t, cfg, eng)
	if err == nil {
		t.Fatal("Expected query failure to surface")
	}
	if !strings.Contains(err.Error(), "propagation diverged") {
		t.Errorf("Error = %v", err)
	}
	if !eng.closed {
		t.Error("Engine session leaked after failure")
	}

	// Nothing was exported.
	entries, _ := os.ReadDir(cfg.Output.Dir)
	if len(entries) != 0 {
		t.Errorf("Output dir not empty after failure: %v", entries)
	}
}

func TestRunInvalidEntityFailsBeforeExport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Satellites[0].SemiMajorAxisKm = 100
	eng := &fakeEngine{}

	_, err := runWith(t, cfg, eng)
	if err == nil {
		t.Fatal("Expected configuration error")
	}
	var ce *scenario.ConfigurationError
	if !errors.As(err, &ce) {
		t.Errorf("Expected *ConfigurationError in chain, got %v", err)
	}
	if !eng.closed {
		t.Error("Engine session leaked after failure")
	}
	if eng.queries != 0 {
		t.Errorf("Queries = %d, want 0", eng.queries)
	}
}

func TestRunDialFailure(t *testing.T) {
	cfg := testConfig(t)
	dial := func(context.Context, string, access.Window) (Engine, error) {
		return nil, errors.New("connection refused")
	}
	_, err := Run(context.Background(), Options{
		Logger: log.New(io.Discard, "", 0),
		Cfg:    cfg,
		Dial:   dial,
	})
	if err == nil || !strings.Contains(err.Error(), "open engine session") {
		t.Errorf("Error = %v", err)
	}
}

func TestRunOutputsLandInConfiguredDir(t *testing.T) {
	cfg := testConfig(t)
	eng := &fakeEngine{}
	res, err := runWith(t, cfg, eng)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(res.CSVPath) != cfg.Output.Dir {
		t.Errorf("CSV path = %s", res.CSVPath)
	}
	if filepath.Base(res.ReportPath) != cfg.Output.Report {
		t.Errorf("Report path = %s", res.ReportPath)
	}
}
