package simeng

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/akhenakh/sgp4"

	"github.com/satnetlab/satnet/internal/access"
	"github.com/satnetlab/satnet/internal/engine"
	"github.com/satnetlab/satnet/internal/scenario"
)

func errCompute(msg string) *apiError {
	return &apiError{http.StatusInternalServerError, engine.CodeComputeFailed, msg}
}

func errPairing(a, b *object) *apiError {
	return &apiError{
		http.StatusUnprocessableEntity,
		engine.CodeUnsupportedPairing,
		fmt.Sprintf("no access model for %s-%s pairing (%s, %s)", a.kind, b.kind, a.name, b.name),
	}
}

// computePair dispatches to the access model for the pair's kinds.
// Same-kind pairings have no model in this engine.
func computePair(s *scene, a, b *object, win access.Window, step time.Duration) ([]engine.IntervalWire, *apiError) {
	switch {
	case a.kind == scenario.KindSatellite && b.kind == scenario.KindGround:
		return satGroundAccess(a, b, win, step)
	case a.kind == scenario.KindGround && b.kind == scenario.KindSatellite:
		return satGroundAccess(b, a, win, step)
	case a.kind == scenario.KindSatellite && b.kind == scenario.KindAir:
		return satAirAccess(s, a, b, win)
	case a.kind == scenario.KindAir && b.kind == scenario.KindSatellite:
		return satAirAccess(s, b, a, win)
	case a.kind == scenario.KindGround && b.kind == scenario.KindAir:
		return groundAirAccess(b, a, win, step)
	case a.kind == scenario.KindAir && b.kind == scenario.KindGround:
		return groundAirAccess(a, b, win, step)
	default:
		return nil, errPairing(a, b)
	}
}

// satGroundAccess propagates the satellite with SGP4 and returns the
// station's passes, dropping any whose peak stays under the station's
// minimum-elevation mask.
func satGroundAccess(sat, gs *object, win access.Window, step time.Duration) ([]engine.IntervalWire, *apiError) {
	tle, err := sgp4.ParseTLE(sat.tle)
	if err != nil {
		return nil, errCompute(fmt.Sprintf("element set for %q: %v", sat.name, err))
	}

	stepSec := int(step.Seconds())
	if stepSec < 1 {
		stepSec = 1
	}
	passes, err := tle.GeneratePasses(
		gs.position.LatDeg, gs.position.LonDeg, gs.position.AltitudeM,
		win.Start, win.Stop,
		stepSec,
	)
	if err != nil {
		return nil, errCompute(fmt.Sprintf("propagation %s over %s: %v", sat.name, gs.name, err))
	}

	minElev, _ := gs.constraint(string(scenario.ConstraintElevation), string(scenario.BoundMin))

	var out []engine.IntervalWire
	for _, p := range passes {
		if p.MaxElevation < minElev {
			continue
		}
		start, stop := clampToWindow(p.AOS, p.LOS, win)
		if !start.Before(stop) {
			continue
		}
		out = append(out, engine.IntervalWire{Start: start, Stop: stop})
	}
	return out, nil
}

// satAirAccess is a demo-grade stand-in: the commercial engine computes
// real satellite-aircraft geometry, this one emits one plausible contact
// per orbit, deterministic for a given scenario so repeated queries and
// tests see identical results.
func satAirAccess(s *scene, sat, air *object, win access.Window) ([]engine.IntervalWire, *apiError) {
	period := time.Duration(orbitalPeriodSeconds(sat.elements.SemiMajorAxisKm) * float64(time.Second))
	if period <= 0 {
		return nil, errCompute(fmt.Sprintf("degenerate orbit for %q", sat.name))
	}

	h := fnv.New64a()
	h.Write([]byte(s.name + "|" + sat.name + "|" + air.name))
	rng := rand.New(rand.NewPCG(h.Sum64(), uint64(sat.noradID)))

	// First contact somewhere in the first orbit, then one per revolution.
	t := win.Start.Add(time.Duration(rng.Float64() * float64(period)))
	var out []engine.IntervalWire
	for t.Before(win.Stop) {
		dur := 5*time.Minute + time.Duration(rng.Float64()*float64(6*time.Minute))
		start, stop := clampToWindow(t, t.Add(dur), win)
		if start.Before(stop) {
			out = append(out, engine.IntervalWire{Start: start, Stop: stop})
		}
		t = t.Add(period)
	}
	return out, nil
}

// groundAirAccess samples the aircraft along its route and reports the
// spans where it sits inside the mutual radio horizon of the station.
func groundAirAccess(air, gs *object, win access.Window, step time.Duration) ([]engine.IntervalWire, *apiError) {
	if step <= 0 {
		step = 10 * time.Second
	}

	gsHorizon := radioHorizonKm(gs.position.AltitudeM)

	var out []engine.IntervalWire
	var visible bool
	var riseAt time.Time

	for t := win.Start; !t.After(win.Stop); t = t.Add(step) {
		lat, lon, alt := aircraftPosition(air.route, win.Start, t)
		d := scenario.GreatCircleDistanceKm(lat, lon, gs.position.LatDeg, gs.position.LonDeg)
		in := d <= gsHorizon+radioHorizonKm(alt)

		switch {
		case in && !visible:
			visible = true
			riseAt = t
		case !in && visible:
			visible = false
			out = append(out, engine.IntervalWire{Start: riseAt, Stop: t})
		}
	}
	if visible && riseAt.Before(win.Stop) {
		out = append(out, engine.IntervalWire{Start: riseAt, Stop: win.Stop})
	}
	return out, nil
}

// radioHorizonKm is the geometric line-of-sight horizon for a height in
// meters, with standard refraction.
func radioHorizonKm(heightM float64) float64 {
	if heightM <= 0 {
		return 0
	}
	return 4.12 * math.Sqrt(heightM)
}

// aircraftPosition places the aircraft at time t: it departs the first
// waypoint at depart, flies each leg at the leg's starting speed, and
// holds at the final waypoint after the route is flown.
func aircraftPosition(route []scenario.Waypoint, depart, t time.Time) (lat, lon, altM float64) {
	elapsed := t.Sub(depart).Seconds()
	if elapsed <= 0 {
		w := route[0]
		return w.LatDeg, w.LonDeg, w.AltitudeM
	}

	for i := 0; i+1 < len(route); i++ {
		a, b := route[i], route[i+1]
		legKm := scenario.GreatCircleDistanceKm(a.LatDeg, a.LonDeg, b.LatDeg, b.LonDeg)
		legSec := legKm * 1000 / a.SpeedMPS
		if elapsed <= legSec {
			f := elapsed / legSec
			return a.LatDeg + (b.LatDeg-a.LatDeg)*f,
				a.LonDeg + (b.LonDeg-a.LonDeg)*f,
				a.AltitudeM + (b.AltitudeM-a.AltitudeM)*f
		}
		elapsed -= legSec
	}

	w := route[len(route)-1]
	return w.LatDeg, w.LonDeg, w.AltitudeM
}

func clampToWindow(start, stop time.Time, win access.Window) (time.Time, time.Time) {
	if start.Before(win.Start) {
		start = win.Start
	}
	if stop.After(win.Stop) {
		stop = win.Stop
	}
	return start, stop
}
