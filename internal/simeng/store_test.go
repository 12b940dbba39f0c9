package simeng

import (
	"net/http"
	"testing"
	"time"

	"github.com/satnetlab/satnet/internal/access"
	"github.com/satnetlab/satnet/internal/engine"
)

func testWindow() access.Window {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return access.Window{Start: start, Stop: start.Add(24 * time.Hour)}
}

func leoRequest(name string) engine.SatelliteRequest {
	return engine.SatelliteRequest{
		Name:            name,
		SemiMajorAxisKm: 7000,
		Eccentricity:    0.001,
		InclinationDeg:  98,
	}
}

func newScene(t *testing.T) (*Store, string) {
	t.Helper()
	st := NewStore()
	id, e := st.Create("Test", testWindow())
	if e != nil {
		t.Fatalf("Create: %v", e)
	}
	return st, id
}

func TestStoreCreateDelete(t *testing.T) {
	st, id := newScene(t)

	if st.Count() != 1 {
		t.Errorf("Count = %d", st.Count())
	}
	list := st.List()
	if len(list) != 1 || list[0].ID != id || list[0].Name != "Test" {
		t.Errorf("List = %+v", list)
	}

	if e := st.Delete(id); e != nil {
		t.Fatalf("Delete: %v", e)
	}
	if st.Count() != 0 {
		t.Errorf("Count after delete = %d", st.Count())
	}
	if e := st.Delete(id); e == nil || e.code != engine.CodeUnknownScenario {
		t.Errorf("Second delete = %v", e)
	}
}

func TestStoreCreateRejectsBadWindow(t *testing.T) {
	st := NewStore()
	now := time.Now()
	if _, e := st.Create("Bad", access.Window{Start: now, Stop: now}); e == nil {
		t.Error("Empty window accepted")
	}
}

func TestStoreAddSatellite(t *testing.T) {
	st, id := newScene(t)

	if e := st.AddSatellite(id, leoRequest("Sat_1")); e != nil {
		t.Fatalf("AddSatellite: %v", e)
	}

	// Duplicate names are refused with the conflict code.
	e := st.AddSatellite(id, leoRequest("Sat_1"))
	if e == nil || e.code != engine.CodeDuplicateEntity || e.status != http.StatusConflict {
		t.Errorf("Duplicate = %v", e)
	}

	// Unpropagatable elements are refused at registration.
	bad := leoRequest("Sat_2")
	bad.SemiMajorAxisKm = 6000
	e = st.AddSatellite(id, bad)
	if e == nil || e.code != engine.CodeInvalidConfiguration {
		t.Errorf("Bad elements = %v", e)
	}

	if e := st.AddSatellite("scn-9999", leoRequest("S")); e == nil || e.code != engine.CodeUnknownScenario {
		t.Errorf("Unknown scenario = %v", e)
	}
}

func TestStoreAddGroundStationAndAircraft(t *testing.T) {
	st, id := newScene(t)

	if e := st.AddGroundStation(id, engine.GroundStationRequest{Name: "GS_1", LatDeg: 40.7, LonDeg: -74.0}); e != nil {
		t.Fatalf("AddGroundStation: %v", e)
	}
	if e := st.AddGroundStation(id, engine.GroundStationRequest{Name: "GS_2", LatDeg: 99}); e == nil {
		t.Error("Out-of-range latitude accepted")
	}

	route := []engine.WaypointWire{
		{LatDeg: 40, LonDeg: -74, AltitudeM: 10000, SpeedMPS: 250},
		{LatDeg: 45, LonDeg: -60, AltitudeM: 10000, SpeedMPS: 250},
	}
	if e := st.AddAircraft(id, engine.AircraftRequest{Name: "AC_1", Route: route}); e != nil {
		t.Fatalf("AddAircraft: %v", e)
	}
	if e := st.AddAircraft(id, engine.AircraftRequest{Name: "AC_2", Route: route[:1]}); e == nil {
		t.Error("Single-waypoint route accepted")
	}

	// Names are unique across kinds.
	if e := st.AddAircraft(id, engine.AircraftRequest{Name: "GS_1", Route: route}); e == nil || e.code != engine.CodeDuplicateEntity {
		t.Errorf("Cross-kind duplicate = %v", e)
	}
}

func TestStoreSetConstraint(t *testing.T) {
	st, id := newScene(t)
	if e := st.AddGroundStation(id, engine.GroundStationRequest{Name: "GS_1", LatDeg: 40.7, LonDeg: -74.0}); e != nil {
		t.Fatal(e)
	}
	if e := st.AddSatellite(id, leoRequest("Sat_1")); e != nil {
		t.Fatal(e)
	}

	minElev := engine.ConstraintRequest{Entity: "GS_1", Kind: "elevation", Bound: "min", Value: 10}
	if e := st.SetConstraint(id, minElev); e != nil {
		t.Fatalf("SetConstraint: %v", e)
	}

	tests := []struct {
		name string
		req  engine.ConstraintRequest
		code string
	}{
		{"unknown entity", engine.ConstraintRequest{Entity: "ghost", Kind: "elevation", Bound: "min", Value: 10}, engine.CodeUnknownEntity},
		{"elevation on satellite", engine.ConstraintRequest{Entity: "Sat_1", Kind: "elevation", Bound: "min", Value: 10}, engine.CodeUnsupportedConstraint},
		{"max elevation", engine.ConstraintRequest{Entity: "GS_1", Kind: "elevation", Bound: "max", Value: 80}, engine.CodeUnsupportedConstraint},
		{"range constraint", engine.ConstraintRequest{Entity: "GS_1", Kind: "range", Bound: "max", Value: 2000}, engine.CodeUnsupportedConstraint},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := st.SetConstraint(id, tc.req)
			if e == nil || e.code != tc.code {
				t.Errorf("SetConstraint = %v, want code %s", e, tc.code)
			}
		})
	}

	// Unsupported constraints report 422 so clients can distinguish them
	// from malformed requests.
	e := st.SetConstraint(id, engine.ConstraintRequest{Entity: "Sat_1", Kind: "elevation", Bound: "min", Value: 10})
	if e.status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", e.status)
	}

	if e := st.SetConstraint(id, engine.ConstraintRequest{Entity: "GS_1", Kind: "elevation", Bound: "min", Value: 95}); e == nil {
		t.Error("Out-of-range elevation accepted")
	}
}

func TestStoreComputeAccessValidation(t *testing.T) {
	st, id := newScene(t)
	win := testWindow()
	if e := st.AddSatellite(id, leoRequest("Sat_1")); e != nil {
		t.Fatal(e)
	}
	if e := st.AddSatellite(id, leoRequest("Sat_2")); e != nil {
		t.Fatal(e)
	}
	if e := st.AddGroundStation(id, engine.GroundStationRequest{Name: "GS_1", LatDeg: 40.7, LonDeg: -74.0}); e != nil {
		t.Fatal(e)
	}

	req := engine.AccessRequest{From: "Sat_1", To: "GS_1", Start: win.Start, Stop: win.Stop}

	if _, e := st.ComputeAccess("scn-9999", req, 30*time.Second); e == nil || e.code != engine.CodeUnknownScenario {
		t.Errorf("Unknown scenario = %v", e)
	}

	unknown := req
	unknown.To = "ghost"
	if _, e := st.ComputeAccess(id, unknown, 30*time.Second); e == nil || e.code != engine.CodeUnknownEntity {
		t.Errorf("Unknown entity = %v", e)
	}

	outOfWindow := req
	outOfWindow.Stop = win.Stop.Add(time.Hour)
	if _, e := st.ComputeAccess(id, outOfWindow, 30*time.Second); e == nil || e.code != engine.CodeInvalidConfiguration {
		t.Errorf("Out-of-window request = %v", e)
	}

	// No model for same-kind pairs.
	satSat := engine.AccessRequest{From: "Sat_1", To: "Sat_2", Start: win.Start, Stop: win.Stop}
	if _, e := st.ComputeAccess(id, satSat, 30*time.Second); e == nil || e.code != engine.CodeUnsupportedPairing {
		t.Errorf("sat-sat pairing = %v", e)
	}
}
