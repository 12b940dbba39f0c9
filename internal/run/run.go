// Package run drives one analysis pass end to end: build the scenario,
// apply constraints, query access for every selected pair, and export the
// results. The pass is strictly sequential with no retries or feedback;
// every failure surfaces immediately, naming the entity, constraint, or
// link it occurred on.
package run

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/satnetlab/satnet/internal/access"
	"github.com/satnetlab/satnet/internal/config"
	"github.com/satnetlab/satnet/internal/export"
	"github.com/satnetlab/satnet/internal/scenario"
)

// Engine is the full capability surface the pipeline needs from the
// simulation engine session: registration, constraint setting, access
// computation, and release.
type Engine interface {
	scenario.Registrar
	access.Computer
	Close(ctx context.Context) error
}

// Dialer opens an engine session scoped to one analysis window. The
// pipeline owns the returned session and releases it on every exit path.
type Dialer func(ctx context.Context, name string, win access.Window) (Engine, error)

// Options holds everything Run needs from the caller.
type Options struct {
	Logger *log.Logger
	Cfg    config.Scenario
	Dial   Dialer
}

// Result is what a completed pass produced.
type Result struct {
	Set      *access.Set
	Stats    []access.LinkStats
	Entities []*scenario.Entity

	CSVPath      string
	TimelinePath string
	ReportPath   string
}

// Run executes the pipeline once. Output files are only written when
// every query succeeded; an export failure may leave earlier artifacts of
// this run behind, but never a partially written file.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	cfg := opts.Cfg

	start, stop := cfg.Scenario.Window()
	win := access.Window{Start: start, Stop: stop}

	eng, err := opts.Dial(ctx, cfg.Scenario.Name, win)
	if err != nil {
		return nil, fmt.Errorf("open engine session: %w", err)
	}
	defer func() {
		// Release is best-effort on failure paths; use a fresh context so
		// a cancelled run still tears the scenario down.
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if cerr := eng.Close(closeCtx); cerr != nil {
			logger.Printf("run: engine session release failed: %v", cerr)
		}
	}()

	builder := scenario.NewBuilder(eng)
	if err := buildEntities(ctx, builder, cfg, logger); err != nil {
		return nil, err
	}
	if err := applyConstraints(ctx, builder, cfg, logger); err != nil {
		return nil, err
	}

	pol := access.PairPolicy{
		SatGround: cfg.Pairs.SatelliteGround,
		SatAir:    cfg.Pairs.SatelliteAir,
		GroundAir: cfg.Pairs.GroundAir,
	}
	querier := access.NewQuerier(eng, win, logger)
	set, err := querier.ComputeAll(ctx, builder.Registry(), pol)
	if err != nil {
		return nil, err
	}
	logger.Printf("run: computed %d links, %d intervals, total access %s",
		len(set.Links), len(set.Intervals), set.TotalDuration().Truncate(time.Second))

	res := &Result{
		Set:          set,
		Stats:        set.Stats(),
		Entities:     builder.Registry().Entities(),
		CSVPath:      filepath.Join(cfg.Output.Dir, cfg.Output.CSV),
		TimelinePath: filepath.Join(cfg.Output.Dir, cfg.Output.Timeline),
		ReportPath:   filepath.Join(cfg.Output.Dir, cfg.Output.Report),
	}

	if err := export.WriteCSV(set.Intervals, res.CSVPath); err != nil {
		return nil, err
	}
	if err := export.WriteTimeline(set, res.TimelinePath); err != nil {
		return nil, err
	}
	sum := export.Summary{Scenario: cfg.Scenario.Name, Window: win, Entities: res.Entities}
	if err := export.WriteReport(sum, set, res.ReportPath); err != nil {
		return nil, err
	}
	logger.Printf("run: wrote %s, %s, %s", res.CSVPath, res.TimelinePath, res.ReportPath)

	return res, nil
}

// buildEntities registers every configured entity, satellites first, then
// ground stations, then aircraft, preserving file order within each kind.
func buildEntities(ctx context.Context, b *scenario.Builder, cfg config.Scenario, logger *log.Logger) error {
	for _, s := range cfg.Satellites {
		el := scenario.OrbitalElements{
			SemiMajorAxisKm: s.SemiMajorAxisKm,
			Eccentricity:    s.Eccentricity,
			InclinationDeg:  s.InclinationDeg,
			RAANDeg:         s.RAANDeg,
			ArgOfPerigeeDeg: s.ArgOfPerigeeDeg,
			TrueAnomalyDeg:  s.TrueAnomalyDeg,
		}
		if err := b.CreateSatellite(ctx, s.Name, el); err != nil {
			return fmt.Errorf("create satellite %q: %w", s.Name, err)
		}
		logger.Printf("run: satellite %s (a=%g km, i=%g deg)", s.Name, s.SemiMajorAxisKm, s.InclinationDeg)
	}
	for _, g := range cfg.GroundStations {
		pos := scenario.Geodetic{LatDeg: g.LatDeg, LonDeg: g.LonDeg, AltitudeM: g.AltitudeM}
		if err := b.CreateGroundStation(ctx, g.Name, pos); err != nil {
			return fmt.Errorf("create ground station %q: %w", g.Name, err)
		}
		logger.Printf("run: ground station %s (%.4f, %.4f)", g.Name, g.LatDeg, g.LonDeg)
	}
	for _, a := range cfg.Aircraft {
		route := scenario.TwoPointRoute(scenario.Waypoint{
			LatDeg:    a.LatDeg,
			LonDeg:    a.LonDeg,
			AltitudeM: a.AltitudeM,
			SpeedMPS:  a.SpeedMPS,
		}, a.HeadingDeg, a.RangeKm)
		if err := b.CreateAircraft(ctx, a.Name, route); err != nil {
			return fmt.Errorf("create aircraft %q: %w", a.Name, err)
		}
		logger.Printf("run: aircraft %s (%.4f, %.4f, heading %g)", a.Name, a.LatDeg, a.LonDeg, a.HeadingDeg)
	}
	return nil
}

// applyConstraints applies the explicit constraint list, then gives every
// ground station without an elevation floor the scenario-wide minimum
// elevation mask.
func applyConstraints(ctx context.Context, b *scenario.Builder, cfg config.Scenario, logger *log.Logger) error {
	for _, c := range cfg.Constraints {
		spec := scenario.ConstraintSpec{
			Kind:  scenario.ConstraintKind(c.Kind),
			Bound: scenario.Bound(c.Bound),
			Value: c.Value,
		}
		if err := b.ApplyConstraint(ctx, c.Entity, spec); err != nil {
			return fmt.Errorf("constraint %s on %q: %w", spec, c.Entity, err)
		}
		logger.Printf("run: constraint %s on %s", spec, c.Entity)
	}

	if cfg.Scenario.MinElevationDeg > 0 {
		for _, g := range b.Registry().ByKind(scenario.KindGround) {
			if b.HasConstraint(g.Name, scenario.ConstraintElevation, scenario.BoundMin) {
				continue
			}
			spec := scenario.ConstraintSpec{
				Kind:  scenario.ConstraintElevation,
				Bound: scenario.BoundMin,
				Value: cfg.Scenario.MinElevationDeg,
			}
			if err := b.ApplyConstraint(ctx, g.Name, spec); err != nil {
				return fmt.Errorf("default elevation mask on %q: %w", g.Name, err)
			}
			logger.Printf("run: default %s on %s", spec, g.Name)
		}
	}
	return nil
}
