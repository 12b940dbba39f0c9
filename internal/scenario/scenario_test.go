package scenario

import (
	"errors"
	"testing"
)

func TestOrbitalElementsValidate(t *testing.T) {
	tests := []struct {
		name    string
		el      OrbitalElements
		wantErr bool
	}{
		{"valid LEO", OrbitalElements{SemiMajorAxisKm: 7000, Eccentricity: 0.001, InclinationDeg: 98}, false},
		{"valid circular equatorial", OrbitalElements{SemiMajorAxisKm: 42164, Eccentricity: 0, InclinationDeg: 0}, false},
		{"valid retrograde", OrbitalElements{SemiMajorAxisKm: 7000, Eccentricity: 0, InclinationDeg: 180}, false},
		{"negative eccentricity", OrbitalElements{SemiMajorAxisKm: 7000, Eccentricity: -0.1, InclinationDeg: 98}, true},
		{"parabolic", OrbitalElements{SemiMajorAxisKm: 7000, Eccentricity: 1.0, InclinationDeg: 98}, true},
		{"perigee below surface", OrbitalElements{SemiMajorAxisKm: 6000, Eccentricity: 0, InclinationDeg: 98}, true},
		{"eccentric perigee below surface", OrbitalElements{SemiMajorAxisKm: 8000, Eccentricity: 0.3, InclinationDeg: 98}, true},
		{"inclination too high", OrbitalElements{SemiMajorAxisKm: 7000, Eccentricity: 0, InclinationDeg: 181}, true},
		{"inclination negative", OrbitalElements{SemiMajorAxisKm: 7000, Eccentricity: 0, InclinationDeg: -1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.el.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				var ce *ConfigurationError
				if !errors.As(err, &ce) {
					t.Errorf("Expected *ConfigurationError, got %T", err)
				}
			}
		})
	}
}

func TestGeodeticValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       Geodetic
		wantErr bool
	}{
		{"valid", Geodetic{LatDeg: 40.7, LonDeg: -74.0}, false},
		{"poles", Geodetic{LatDeg: 90, LonDeg: 180}, false},
		{"lat too high", Geodetic{LatDeg: 90.1}, true},
		{"lat too low", Geodetic{LatDeg: -91}, true},
		{"lon too high", Geodetic{LonDeg: 181}, true},
		{"negative altitude", Geodetic{AltitudeM: -5}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.g.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateRoute(t *testing.T) {
	good := Waypoint{LatDeg: 40, LonDeg: -74, AltitudeM: 10000, SpeedMPS: 250}

	if err := ValidateRoute([]Waypoint{good, good}); err != nil {
		t.Errorf("Valid route rejected: %v", err)
	}
	if err := ValidateRoute([]Waypoint{good}); err == nil {
		t.Error("Expected error for single-waypoint route")
	}
	if err := ValidateRoute(nil); err == nil {
		t.Error("Expected error for empty route")
	}

	bad := good
	bad.SpeedMPS = 0
	err := ValidateRoute([]Waypoint{good, bad})
	if err == nil {
		t.Fatal("Expected error for zero-speed waypoint")
	}
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Errorf("Expected wrapped *ConfigurationError, got %T", err)
	}
}

func TestKindRank(t *testing.T) {
	if !(KindSatellite.Rank() < KindAir.Rank() && KindAir.Rank() < KindGround.Rank()) {
		t.Errorf("Kind ranks out of order: sat=%d air=%d ground=%d",
			KindSatellite.Rank(), KindAir.Rank(), KindGround.Rank())
	}
}

func TestConstraintSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    ConstraintSpec
		wantErr bool
	}{
		{"min elevation", ConstraintSpec{ConstraintElevation, BoundMin, 10}, false},
		{"max range", ConstraintSpec{ConstraintRange, BoundMax, 2000}, false},
		{"elevation too high", ConstraintSpec{ConstraintElevation, BoundMin, 91}, true},
		{"elevation too low", ConstraintSpec{ConstraintElevation, BoundMin, -91}, true},
		{"zero range", ConstraintSpec{ConstraintRange, BoundMax, 0}, true},
		{"unknown kind", ConstraintSpec{"azimuth", BoundMin, 10}, true},
		{"unknown bound", ConstraintSpec{ConstraintElevation, "exact", 10}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.spec.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConstraintSpecString(t *testing.T) {
	s := ConstraintSpec{ConstraintElevation, BoundMin, 10}.String()
	if s != "min elevation = 10" {
		t.Errorf("String() = %q", s)
	}
}

func TestEntitySetConstraintOverwrites(t *testing.T) {
	e := &Entity{Name: "GS_1", Kind: KindGround}
	e.setConstraint(ConstraintSpec{ConstraintElevation, BoundMin, 5})
	e.setConstraint(ConstraintSpec{ConstraintElevation, BoundMin, 10})
	e.setConstraint(ConstraintSpec{ConstraintRange, BoundMax, 2000})

	if len(e.Constraints) != 2 {
		t.Fatalf("Expected 2 constraints, got %d", len(e.Constraints))
	}
	if e.Constraints[0].Value != 10 {
		t.Errorf("Expected overwrite to 10, got %g", e.Constraints[0].Value)
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	r := NewRegistry()
	names := []string{"Sat_B", "Sat_A", "GS_1"}
	kinds := []Kind{KindSatellite, KindSatellite, KindGround}
	for i, n := range names {
		if err := r.add(&Entity{Name: n, Kind: kinds[i]}); err != nil {
			t.Fatalf("add(%q): %v", n, err)
		}
	}

	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	for i, e := range r.Entities() {
		if e.Name != names[i] {
			t.Errorf("Entities()[%d] = %q, want %q (registration order)", i, e.Name, names[i])
		}
	}
	sats := r.ByKind(KindSatellite)
	if len(sats) != 2 || sats[0].Name != "Sat_B" {
		t.Errorf("ByKind(satellite) = %v", sats)
	}

	if err := r.add(&Entity{Name: "Sat_A"}); err == nil {
		t.Error("Expected duplicate error")
	}
	if _, err := r.Get("nope"); err == nil {
		t.Error("Expected unknown entity error")
	} else {
		var ue *UnknownEntityError
		if !errors.As(err, &ue) {
			t.Errorf("Expected *UnknownEntityError, got %T", err)
		}
	}
}
