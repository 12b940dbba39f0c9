package access

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/satnetlab/satnet/internal/scenario"
)

// fakeComputer returns canned intervals per link id and counts calls.
type fakeComputer struct {
	intervals map[string][]Interval
	calls     int
	fail      error
}

func (f *fakeComputer) ComputeAccess(_ context.Context, a, b *scenario.Entity, _ Window) ([]Interval, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	return f.intervals[LinkID(a, b)], nil
}

func testRegistry(t *testing.T) *scenario.Registry {
	t.Helper()
	eng := nopRegistrar{}
	b := scenario.NewBuilder(eng)
	ctx := context.Background()

	el := scenario.OrbitalElements{SemiMajorAxisKm: 7000, Eccentricity: 0.001, InclinationDeg: 98}
	for _, name := range []string{"Sat_1", "Sat_2"} {
		if err := b.CreateSatellite(ctx, name, el); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.CreateGroundStation(ctx, "GS_1", scenario.Geodetic{LatDeg: 40.7, LonDeg: -74.0}); err != nil {
		t.Fatal(err)
	}
	wp := scenario.Waypoint{LatDeg: 40, LonDeg: -73, AltitudeM: 10000, SpeedMPS: 250}
	if err := b.CreateAircraft(ctx, "AC_1", scenario.TwoPointRoute(wp, 90, 500)); err != nil {
		t.Fatal(err)
	}
	return b.Registry()
}

// nopRegistrar accepts everything; registry construction in these tests
// does not involve an engine.
type nopRegistrar struct{}

func (nopRegistrar) RegisterSatellite(context.Context, string, scenario.OrbitalElements) error {
	return nil
}
func (nopRegistrar) RegisterGroundStation(context.Context, string, scenario.Geodetic) error {
	return nil
}
func (nopRegistrar) RegisterAircraft(context.Context, string, []scenario.Waypoint) error { return nil }
func (nopRegistrar) SetConstraint(context.Context, string, scenario.ConstraintSpec) error {
	return nil
}

func TestPairsPolicy(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name string
		pol  PairPolicy
		want int
	}{
		{"all", AllPairs(), 5}, // 2 sat-gs + 2 sat-ac + 1 ac-gs
		{"sat-ground only", PairPolicy{SatGround: true}, 2},
		{"sat-air only", PairPolicy{SatAir: true}, 2},
		{"ground-air only", PairPolicy{GroundAir: true}, 1},
		{"none", PairPolicy{}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(Pairs(reg, tc.pol)); got != tc.want {
				t.Errorf("Pairs = %d, want %d", got, tc.want)
			}
		})
	}

	// Pair ordering is sat-ground, then sat-air, then ground-air.
	pairs := Pairs(reg, AllPairs())
	if pairs[0][0].Name != "Sat_1" || pairs[0][1].Name != "GS_1" {
		t.Errorf("First pair = %s/%s", pairs[0][0].Name, pairs[0][1].Name)
	}
	last := pairs[len(pairs)-1]
	if last[0].Kind != scenario.KindAir || last[1].Kind != scenario.KindGround {
		t.Errorf("Last pair kinds = %s/%s", last[0].Kind, last[1].Kind)
	}
}

func newTestQuerier(eng Computer, win Window) *Querier {
	return NewQuerier(eng, win, log.New(io.Discard, "", 0))
}

func TestQuerierCompute(t *testing.T) {
	reg := testRegistry(t)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	win := Window{Start: start, Stop: start.Add(24 * time.Hour)}

	eng := &fakeComputer{intervals: map[string][]Interval{
		"Sat_1-GS_1": {
			{Start: start.Add(time.Hour), Stop: start.Add(time.Hour + 8*time.Minute)},
		},
	}}
	q := newTestQuerier(eng, win)

	ivs, err := q.Compute(context.Background(), reg, "Sat_1", "GS_1")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(ivs) != 1 {
		t.Fatalf("Intervals = %d, want 1", len(ivs))
	}
	if ivs[0].Link != "Sat_1-GS_1" {
		t.Errorf("Interval link = %q, not stamped", ivs[0].Link)
	}
}

func TestQuerierComputeUnknownName(t *testing.T) {
	reg := testRegistry(t)
	eng := &fakeComputer{}
	q := newTestQuerier(eng, Window{Start: time.Now(), Stop: time.Now().Add(time.Hour)})

	_, err := q.Compute(context.Background(), reg, "Sat_1", "ghost")
	var ue *scenario.UnknownEntityError
	if !errors.As(err, &ue) {
		t.Fatalf("Expected *UnknownEntityError, got %v", err)
	}
	if eng.calls != 0 {
		t.Error("Engine called despite unknown entity")
	}
}

func TestQuerierRejectsOutOfWindowInterval(t *testing.T) {
	reg := testRegistry(t)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	win := Window{Start: start, Stop: start.Add(24 * time.Hour)}

	eng := &fakeComputer{intervals: map[string][]Interval{
		"Sat_1-GS_1": {
			{Start: start.Add(-time.Minute), Stop: start.Add(time.Hour)},
		},
	}}
	q := newTestQuerier(eng, win)

	_, err := q.Compute(context.Background(), reg, "Sat_1", "GS_1")
	var ae *AccessComputationError
	if !errors.As(err, &ae) {
		t.Fatalf("Expected *AccessComputationError, got %v", err)
	}
	if ae.Link != "Sat_1-GS_1" {
		t.Errorf("Error link = %q", ae.Link)
	}
}

func TestQuerierComputeAll(t *testing.T) {
	reg := testRegistry(t)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	win := Window{Start: start, Stop: start.Add(24 * time.Hour)}

	eng := &fakeComputer{intervals: map[string][]Interval{
		"Sat_1-GS_1": {{Start: start.Add(time.Hour), Stop: start.Add(time.Hour + 10*time.Minute)}},
		"Sat_2-GS_1": {{Start: start.Add(2 * time.Hour), Stop: start.Add(2*time.Hour + 5*time.Minute)}},
	}}
	q := newTestQuerier(eng, win)

	set, err := q.ComputeAll(context.Background(), reg, AllPairs())
	if err != nil {
		t.Fatalf("ComputeAll: %v", err)
	}
	if eng.calls != 5 {
		t.Errorf("Engine calls = %d, want 5", eng.calls)
	}
	// Every pair shows up in the link table even with no intervals.
	if len(set.Links) != 5 {
		t.Errorf("Links = %d, want 5", len(set.Links))
	}
	if len(set.Intervals) != 2 {
		t.Errorf("Intervals = %d, want 2", len(set.Intervals))
	}
	if set.Window != win {
		t.Errorf("Set window = %+v", set.Window)
	}
}

func TestQuerierComputeAllAbortsOnFailure(t *testing.T) {
	reg := testRegistry(t)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	eng := &fakeComputer{fail: errors.New("propagation failed")}
	q := newTestQuerier(eng, Window{Start: start, Stop: start.Add(time.Hour)})

	_, err := q.ComputeAll(context.Background(), reg, AllPairs())
	if err == nil {
		t.Fatal("Expected failure to surface")
	}
	if eng.calls != 1 {
		t.Errorf("Engine calls = %d, want 1 (abort on first failure)", eng.calls)
	}
}

func TestStats(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	set := &Set{
		Window: Window{Start: start, Stop: start.Add(24 * time.Hour)},
		Links: []Link{
			{ID: "Sat_1-GS_1", Class: ClassSatGround},
			{ID: "Sat_2-GS_1", Class: ClassSatGround},
		},
		Intervals: []Interval{
			{Link: "Sat_1-GS_1", Start: start, Stop: start.Add(10 * time.Minute)},
			{Link: "Sat_1-GS_1", Start: start.Add(time.Hour), Stop: start.Add(time.Hour + 20*time.Minute)},
		},
	}

	stats := set.Stats()
	if len(stats) != 2 {
		t.Fatalf("Stats len = %d, want 2", len(stats))
	}
	if stats[0].Count != 2 || stats[0].Total != 30*time.Minute || stats[0].Mean != 15*time.Minute {
		t.Errorf("Stats[0] = %+v", stats[0])
	}
	// Links with no access still appear, with zero counts.
	if stats[1].Count != 0 || stats[1].Total != 0 {
		t.Errorf("Stats[1] = %+v, want zeros", stats[1])
	}
	if set.TotalDuration() != 30*time.Minute {
		t.Errorf("TotalDuration = %v", set.TotalDuration())
	}
}
