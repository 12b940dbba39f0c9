// Package scenario models the network entities taking part in an access
// analysis: satellites defined by classical orbital elements, ground
// stations at fixed geodetic positions, and aircraft flying waypoint
// routes. It owns the entity registry and validates every configuration
// value before it is handed to the simulation engine.
package scenario

import "fmt"

// Kind classifies a network entity.
type Kind string

const (
	KindSatellite Kind = "satellite"
	KindGround    Kind = "ground"
	KindAir       Kind = "air"
)

// Rank orders kinds for link identifier construction: satellites come
// first, then aircraft, then ground stations.
func (k Kind) Rank() int {
	switch k {
	case KindSatellite:
		return 0
	case KindAir:
		return 1
	default:
		return 2
	}
}

// Earth constants used for validation and route math.
const (
	earthRadiusKm = 6371.0
	earthEqRadius = 6378.137 // equatorial radius, km
)

// OrbitalElements are the six classical parameters defining an orbit's
// shape, orientation, and phase. Angles are in degrees, the semi-major
// axis in kilometers.
type OrbitalElements struct {
	SemiMajorAxisKm float64
	Eccentricity    float64
	InclinationDeg  float64
	RAANDeg         float64
	ArgOfPerigeeDeg float64
	TrueAnomalyDeg  float64
}

// Validate checks the elements describe a physically meaningful closed
// orbit that stays above the Earth's surface.
func (el OrbitalElements) Validate() error {
	if el.Eccentricity < 0 || el.Eccentricity >= 1 {
		return &ConfigurationError{Param: "eccentricity", Reason: fmt.Sprintf("must be in [0,1), got %g", el.Eccentricity)}
	}
	if perigee := el.SemiMajorAxisKm * (1 - el.Eccentricity); perigee <= earthEqRadius {
		return &ConfigurationError{Param: "semi_major_axis_km", Reason: fmt.Sprintf("perigee %.1f km is below the Earth's surface", perigee)}
	}
	if el.InclinationDeg < 0 || el.InclinationDeg > 180 {
		return &ConfigurationError{Param: "inclination_deg", Reason: fmt.Sprintf("must be in [0,180], got %g", el.InclinationDeg)}
	}
	return nil
}

// Geodetic is a position on or above the reference ellipsoid.
type Geodetic struct {
	LatDeg    float64
	LonDeg    float64
	AltitudeM float64
}

func (g Geodetic) Validate() error {
	if g.LatDeg < -90 || g.LatDeg > 90 {
		return &ConfigurationError{Param: "latitude_deg", Reason: fmt.Sprintf("must be in [-90,90], got %g", g.LatDeg)}
	}
	if g.LonDeg < -180 || g.LonDeg > 180 {
		return &ConfigurationError{Param: "longitude_deg", Reason: fmt.Sprintf("must be in [-180,180], got %g", g.LonDeg)}
	}
	if g.AltitudeM < 0 {
		return &ConfigurationError{Param: "altitude_m", Reason: fmt.Sprintf("must be >= 0, got %g", g.AltitudeM)}
	}
	return nil
}

// Waypoint is one point on an aircraft route with the altitude and speed
// to hold from this point to the next.
type Waypoint struct {
	LatDeg    float64
	LonDeg    float64
	AltitudeM float64
	SpeedMPS  float64
}

func (w Waypoint) Validate() error {
	if err := (Geodetic{LatDeg: w.LatDeg, LonDeg: w.LonDeg, AltitudeM: w.AltitudeM}).Validate(); err != nil {
		return err
	}
	if w.SpeedMPS <= 0 {
		return &ConfigurationError{Param: "speed_mps", Reason: fmt.Sprintf("must be > 0, got %g", w.SpeedMPS)}
	}
	return nil
}

// ValidateRoute checks an aircraft route has at least two valid waypoints.
func ValidateRoute(route []Waypoint) error {
	if len(route) < 2 {
		return &ConfigurationError{Param: "route", Reason: fmt.Sprintf("needs at least 2 waypoints, got %d", len(route))}
	}
	for i, w := range route {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("waypoint %d: %w", i, err)
		}
	}
	return nil
}

// Entity is one participant in the analysis. Exactly one of Orbit,
// Position, or Route is set, matching Kind. Configuration is immutable
// after registration; Constraints records what has been applied so the
// report can echo it.
type Entity struct {
	Name     string
	Kind     Kind
	Orbit    *OrbitalElements
	Position *Geodetic
	Route    []Waypoint

	Constraints []ConstraintSpec
}

// setConstraint records spec on the entity, overwriting any previous
// threshold with the same kind and bound.
func (e *Entity) setConstraint(spec ConstraintSpec) {
	for i, c := range e.Constraints {
		if c.Kind == spec.Kind && c.Bound == spec.Bound {
			e.Constraints[i] = spec
			return
		}
	}
	e.Constraints = append(e.Constraints, spec)
}
