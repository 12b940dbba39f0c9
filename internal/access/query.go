package access

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/satnetlab/satnet/internal/scenario"
)

// Computer is the slice of the engine surface the query layer needs: one
// synchronous access computation per entity pair.
type Computer interface {
	ComputeAccess(ctx context.Context, a, b *scenario.Entity, win Window) ([]Interval, error)
}

// PairPolicy selects which entity pairings are queried. The zero value
// queries nothing; callers opt in to each pairing explicitly.
type PairPolicy struct {
	SatGround bool
	SatAir    bool
	GroundAir bool
}

// AllPairs queries every supported pairing.
func AllPairs() PairPolicy {
	return PairPolicy{SatGround: true, SatAir: true, GroundAir: true}
}

// Pairs enumerates the entity pairs selected by pol, in registry order:
// satellite-ground first, then satellite-air, then ground-air. The first
// element of each pair leads the link identifier.
func Pairs(reg *scenario.Registry, pol PairPolicy) [][2]*scenario.Entity {
	sats := reg.ByKind(scenario.KindSatellite)
	grounds := reg.ByKind(scenario.KindGround)
	aircraft := reg.ByKind(scenario.KindAir)

	var out [][2]*scenario.Entity
	if pol.SatGround {
		for _, s := range sats {
			for _, g := range grounds {
				out = append(out, [2]*scenario.Entity{s, g})
			}
		}
	}
	if pol.SatAir {
		for _, s := range sats {
			for _, a := range aircraft {
				out = append(out, [2]*scenario.Entity{s, a})
			}
		}
	}
	if pol.GroundAir {
		for _, a := range aircraft {
			for _, g := range grounds {
				out = append(out, [2]*scenario.Entity{a, g})
			}
		}
	}
	return out
}

// Set is the aggregated result of a query pass: the window it covers, the
// links that were computed (including ones with no access), and the flat
// ordered interval sequence.
type Set struct {
	Window    Window
	Links     []Link
	Intervals []Interval
}

// Querier issues access computations against an engine and validates the
// results. It holds no mutable state beyond its logger; each query is a
// single blocking engine call.
type Querier struct {
	eng Computer
	win Window
	log *log.Logger
}

func NewQuerier(eng Computer, win Window, logger *log.Logger) *Querier {
	return &Querier{eng: eng, win: win, log: logger}
}

// Compute resolves both names through the registry and computes access
// for the pair. Unknown names fail before any engine call.
func (q *Querier) Compute(ctx context.Context, reg *scenario.Registry, nameA, nameB string) ([]Interval, error) {
	a, err := reg.Get(nameA)
	if err != nil {
		return nil, err
	}
	b, err := reg.Get(nameB)
	if err != nil {
		return nil, err
	}
	return q.computePair(ctx, a, b)
}

// ComputeAll runs one access computation for every pair selected by pol
// and aggregates the results. Queries run sequentially; the first engine
// failure aborts the pass.
func (q *Querier) ComputeAll(ctx context.Context, reg *scenario.Registry, pol PairPolicy) (*Set, error) {
	set := &Set{Window: q.win}
	for _, pair := range Pairs(reg, pol) {
		ivs, err := q.computePair(ctx, pair[0], pair[1])
		if err != nil {
			return nil, err
		}
		set.Links = append(set.Links, Link{ID: LinkID(pair[0], pair[1]), Class: LinkClass(pair[0], pair[1])})
		set.Intervals = append(set.Intervals, ivs...)
	}
	return set, nil
}

func (q *Querier) computePair(ctx context.Context, a, b *scenario.Entity) ([]Interval, error) {
	link := LinkID(a, b)
	start := time.Now()

	ivs, err := q.eng.ComputeAccess(ctx, a, b, q.win)
	if err != nil {
		return nil, fmt.Errorf("compute access %s: %w", link, err)
	}

	total := time.Duration(0)
	for i := range ivs {
		ivs[i].Link = link
		if !q.win.contains(ivs[i].Start, ivs[i].Stop) {
			// An out-of-window or inverted interval means the engine (or
			// our translation of its response) is broken; do not clamp.
			return nil, &AccessComputationError{
				Link: link,
				Reason: fmt.Sprintf("interval [%s, %s] outside analysis window",
					ivs[i].Start.Format(time.RFC3339), ivs[i].Stop.Format(time.RFC3339)),
			}
		}
		total += ivs[i].Duration()
	}

	q.log.Printf("access: %s: %d intervals, total %s (query took %s)",
		link, len(ivs), total.Truncate(time.Second), time.Since(start).Truncate(time.Millisecond))
	return ivs, nil
}
