package engine

import (
	"time"

	"github.com/satnetlab/satnet/internal/access"
	"github.com/satnetlab/satnet/internal/scenario"
)

// Wire types for the engine HTTP API. The stand-in daemon decodes the
// same structs, so client and server cannot drift apart.

// ScenarioRequest creates an engine-side scenario covering the analysis
// window.
type ScenarioRequest struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	Stop  time.Time `json:"stop"`
}

// ScenarioResponse returns the id used to address the scenario in later
// calls.
type ScenarioResponse struct {
	ID string `json:"id"`
}

// SatelliteRequest registers a satellite from classical orbital elements.
type SatelliteRequest struct {
	Name            string  `json:"name"`
	SemiMajorAxisKm float64 `json:"semi_major_axis_km"`
	Eccentricity    float64 `json:"eccentricity"`
	InclinationDeg  float64 `json:"inclination_deg"`
	RAANDeg         float64 `json:"raan_deg"`
	ArgOfPerigeeDeg float64 `json:"arg_of_perigee_deg"`
	TrueAnomalyDeg  float64 `json:"true_anomaly_deg"`
}

// Elements converts the request back into the domain type.
func (r SatelliteRequest) Elements() scenario.OrbitalElements {
	return scenario.OrbitalElements{
		SemiMajorAxisKm: r.SemiMajorAxisKm,
		Eccentricity:    r.Eccentricity,
		InclinationDeg:  r.InclinationDeg,
		RAANDeg:         r.RAANDeg,
		ArgOfPerigeeDeg: r.ArgOfPerigeeDeg,
		TrueAnomalyDeg:  r.TrueAnomalyDeg,
	}
}

// GroundStationRequest registers a ground station at a geodetic position.
type GroundStationRequest struct {
	Name      string  `json:"name"`
	LatDeg    float64 `json:"latitude_deg"`
	LonDeg    float64 `json:"longitude_deg"`
	AltitudeM float64 `json:"altitude_m"`
}

// AircraftRequest registers an aircraft with its waypoint route.
type AircraftRequest struct {
	Name  string         `json:"name"`
	Route []WaypointWire `json:"route"`
}

// WaypointWire is one route point on the wire.
type WaypointWire struct {
	LatDeg    float64 `json:"latitude_deg"`
	LonDeg    float64 `json:"longitude_deg"`
	AltitudeM float64 `json:"altitude_m"`
	SpeedMPS  float64 `json:"speed_mps"`
}

// ConstraintRequest sets one threshold on a registered entity.
type ConstraintRequest struct {
	Entity string  `json:"entity"`
	Kind   string  `json:"kind"`
	Bound  string  `json:"bound"`
	Value  float64 `json:"value"`
}

// AccessRequest asks for the access intervals between two registered
// entities over a sub-window of the scenario period.
type AccessRequest struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Start time.Time `json:"start"`
	Stop  time.Time `json:"stop"`
}

// AccessResponse carries the computed intervals.
type AccessResponse struct {
	Intervals []IntervalWire `json:"intervals"`
}

// IntervalWire is one access span on the wire.
type IntervalWire struct {
	Start time.Time `json:"start"`
	Stop  time.Time `json:"stop"`
}

// Interval converts to the access data model. The link id is stamped by
// the query layer, not the engine.
func (w IntervalWire) Interval() access.Interval {
	return access.Interval{Start: w.Start, Stop: w.Stop}
}

// ErrorResponse is the error envelope returned with any non-2xx status.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}
