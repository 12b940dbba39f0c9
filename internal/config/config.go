// Package config handles loading, defaulting, and validation of the
// scenario TOML file driving an analysis run. Every section maps to a
// typed struct so the rest of the codebase gets strong typing without
// manual key lookups. Physical validation of entity parameters (orbit
// shape, coordinate ranges) happens later in the scenario builder; this
// package only checks the file is structurally sound.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Scenario is the top-level configuration, mirroring the TOML sections.
type Scenario struct {
	Scenario       ScenarioConfig  `toml:"scenario"        json:"scenario"`
	Engine         EngineConfig    `toml:"engine"          json:"engine"`
	Output         OutputConfig    `toml:"output"          json:"output"`
	Pairs          PairsConfig     `toml:"pairs"           json:"pairs"`
	Satellites     []Satellite     `toml:"satellites"      json:"satellites"`
	GroundStations []GroundStation `toml:"ground_stations" json:"ground_stations"`
	Aircraft       []Aircraft      `toml:"aircraft"        json:"aircraft"`
	Constraints    []Constraint    `toml:"constraints"     json:"constraints"`
}

type ScenarioConfig struct {
	Name            string    `toml:"name"              json:"name"`
	Start           time.Time `toml:"start"             json:"start"`
	DurationHours   float64   `toml:"duration_hours"    json:"duration_hours"`
	MinElevationDeg float64   `toml:"min_elevation_deg" json:"min_elevation_deg"`
}

type EngineConfig struct {
	URL            string `toml:"url"             json:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds" json:"timeout_seconds"`
}

type OutputConfig struct {
	Dir      string `toml:"dir"      json:"dir"`
	CSV      string `toml:"csv"      json:"csv"`
	Timeline string `toml:"timeline" json:"timeline"`
	Report   string `toml:"report"   json:"report"`
}

type PairsConfig struct {
	SatelliteGround bool `toml:"satellite_ground" json:"satellite_ground"`
	SatelliteAir    bool `toml:"satellite_air"    json:"satellite_air"`
	GroundAir       bool `toml:"ground_air"       json:"ground_air"`
}

type Satellite struct {
	Name            string  `toml:"name"               json:"name"`
	SemiMajorAxisKm float64 `toml:"semi_major_axis_km" json:"semi_major_axis_km"`
	Eccentricity    float64 `toml:"eccentricity"       json:"eccentricity"`
	InclinationDeg  float64 `toml:"inclination_deg"    json:"inclination_deg"`
	RAANDeg         float64 `toml:"raan_deg"           json:"raan_deg"`
	ArgOfPerigeeDeg float64 `toml:"arg_of_perigee_deg" json:"arg_of_perigee_deg"`
	TrueAnomalyDeg  float64 `toml:"true_anomaly_deg"   json:"true_anomaly_deg"`
}

type GroundStation struct {
	Name      string  `toml:"name"          json:"name"`
	LatDeg    float64 `toml:"latitude_deg"  json:"latitude_deg"`
	LonDeg    float64 `toml:"longitude_deg" json:"longitude_deg"`
	AltitudeM float64 `toml:"altitude_m"    json:"altitude_m"`
}

// Aircraft describes a two-point great-circle route: level flight from
// the start point along a heading for the given range.
type Aircraft struct {
	Name       string  `toml:"name"          json:"name"`
	LatDeg     float64 `toml:"latitude_deg"  json:"latitude_deg"`
	LonDeg     float64 `toml:"longitude_deg" json:"longitude_deg"`
	AltitudeM  float64 `toml:"altitude_m"    json:"altitude_m"`
	SpeedMPS   float64 `toml:"speed_mps"     json:"speed_mps"`
	HeadingDeg float64 `toml:"heading_deg"   json:"heading_deg"`
	RangeKm    float64 `toml:"range_km"      json:"range_km"`
}

type Constraint struct {
	Entity string  `toml:"entity" json:"entity"`
	Kind   string  `toml:"kind"   json:"kind"`
	Bound  string  `toml:"bound"  json:"bound"`
	Value  float64 `toml:"value"  json:"value"`
}

// Default returns a Scenario populated with sane defaults. Values here
// are used whenever the TOML file omits a field.
func Default() Scenario {
	return Scenario{
		Scenario: ScenarioConfig{
			Name:            "SatComm_Network",
			Start:           time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			DurationHours:   24,
			MinElevationDeg: 10,
		},
		Engine: EngineConfig{
			URL:            "http://127.0.0.1:7440",
			TimeoutSeconds: 60,
		},
		Output: OutputConfig{
			Dir:      "out",
			CSV:      "satellite_network_access.csv",
			Timeline: "access_timeline.png",
			Report:   "network_analysis_report.txt",
		},
		Pairs: PairsConfig{
			SatelliteGround: true,
			SatelliteAir:    true,
			GroundAir:       true,
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults,
// and validates the result. An error is returned if the file can't be
// read, parsed, or if any constraint is violated.
func Load(path string) (Scenario, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg Scenario) error {
	if cfg.Scenario.Name == "" {
		return errors.New("scenario.name must not be empty")
	}
	if cfg.Scenario.Start.IsZero() {
		return errors.New("scenario.start must be set")
	}
	if cfg.Scenario.DurationHours <= 0 {
		return errors.New("scenario.duration_hours must be > 0")
	}
	if cfg.Scenario.MinElevationDeg < 0 || cfg.Scenario.MinElevationDeg > 90 {
		return errors.New("scenario.min_elevation_deg must be between 0 and 90")
	}
	if cfg.Engine.URL == "" {
		return errors.New("engine.url must not be empty")
	}
	if cfg.Engine.TimeoutSeconds <= 0 {
		return errors.New("engine.timeout_seconds must be > 0")
	}
	if cfg.Output.Dir == "" {
		return errors.New("output.dir must not be empty")
	}
	if cfg.Output.CSV == "" || cfg.Output.Timeline == "" || cfg.Output.Report == "" {
		return errors.New("output.csv, output.timeline, and output.report must not be empty")
	}
	if len(cfg.Satellites)+len(cfg.GroundStations)+len(cfg.Aircraft) == 0 {
		return errors.New("scenario defines no entities")
	}
	for i, s := range cfg.Satellites {
		if s.Name == "" {
			return fmt.Errorf("satellites[%d]: name must not be empty", i)
		}
	}
	for i, g := range cfg.GroundStations {
		if g.Name == "" {
			return fmt.Errorf("ground_stations[%d]: name must not be empty", i)
		}
	}
	for i, a := range cfg.Aircraft {
		if a.Name == "" {
			return fmt.Errorf("aircraft[%d]: name must not be empty", i)
		}
		if a.RangeKm <= 0 {
			return fmt.Errorf("aircraft[%d]: range_km must be > 0", i)
		}
	}
	for i, c := range cfg.Constraints {
		if c.Entity == "" {
			return fmt.Errorf("constraints[%d]: entity must not be empty", i)
		}
		if c.Kind == "" || c.Bound == "" {
			return fmt.Errorf("constraints[%d]: kind and bound must not be empty", i)
		}
	}
	return nil
}

// Window returns the analysis window derived from start and duration.
func (c ScenarioConfig) Window() (start, stop time.Time) {
	start = c.Start.UTC()
	stop = start.Add(time.Duration(c.DurationHours * float64(time.Hour)))
	return start, stop
}
