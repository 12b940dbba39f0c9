// Package access is the query layer between the scenario registry and
// the simulation engine. It enumerates entity pairs under a caller-chosen
// policy, issues one blocking access computation per pair, and validates
// every returned interval against the analysis window before it is
// aggregated for export.
package access

import (
	"fmt"
	"time"

	"github.com/satnetlab/satnet/internal/scenario"
)

// Window is the global time range over which access is evaluated. It is
// fixed once at scenario setup and shared read-only by all queries.
type Window struct {
	Start time.Time
	Stop  time.Time
}

func (w Window) Validate() error {
	if !w.Start.Before(w.Stop) {
		return fmt.Errorf("window start %s is not before stop %s", w.Start.Format(time.RFC3339), w.Stop.Format(time.RFC3339))
	}
	return nil
}

// Duration returns the window length.
func (w Window) Duration() time.Duration { return w.Stop.Sub(w.Start) }

// contains reports whether [start, stop) lies inside the window with
// start strictly before stop.
func (w Window) contains(start, stop time.Time) bool {
	return !start.Before(w.Start) && start.Before(stop) && !stop.After(w.Stop)
}

// Interval is one continuous span during which two entities have
// line-of-sight access under the active constraints.
type Interval struct {
	Link  string
	Start time.Time
	Stop  time.Time
}

// Duration returns stop minus start.
func (iv Interval) Duration() time.Duration { return iv.Stop.Sub(iv.Start) }

// Class labels which kinds of entities a link connects.
type Class string

const (
	ClassSatGround Class = "satellite-ground"
	ClassSatAir    Class = "satellite-air"
	ClassGroundAir Class = "ground-air"
)

// Link identifies one computed entity pair.
type Link struct {
	ID    string
	Class Class
}

// LinkID builds the identifier for an unordered entity pair. The pair is
// ordered by kind rank (satellite, air, ground) and then by name, so both
// orderings of the same pair produce the same id.
func LinkID(a, b *scenario.Entity) string {
	a, b = orderPair(a, b)
	return a.Name + "-" + b.Name
}

// LinkClass labels the pair by the kinds it connects.
func LinkClass(a, b *scenario.Entity) Class {
	a, b = orderPair(a, b)
	switch {
	case a.Kind == scenario.KindSatellite && b.Kind == scenario.KindGround:
		return ClassSatGround
	case a.Kind == scenario.KindSatellite && b.Kind == scenario.KindAir:
		return ClassSatAir
	default:
		return ClassGroundAir
	}
}

func orderPair(a, b *scenario.Entity) (*scenario.Entity, *scenario.Entity) {
	if a.Kind.Rank() > b.Kind.Rank() || (a.Kind.Rank() == b.Kind.Rank() && a.Name > b.Name) {
		return b, a
	}
	return a, b
}

// AccessComputationError reports an engine-side computation fault for one
// link. It is surfaced, never retried: a propagation failure indicates a
// configuration defect rather than a transient condition.
type AccessComputationError struct {
	Link   string
	Reason string
}

func (e *AccessComputationError) Error() string {
	return fmt.Sprintf("access computation for %s failed: %s", e.Link, e.Reason)
}
