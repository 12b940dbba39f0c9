package scenario

import (
	"context"
	"errors"
	"fmt"
)

// Registrar is the slice of the engine surface the Builder needs: entity
// registration and constraint setting. The engine package's Session
// satisfies it; tests substitute a fake.
type Registrar interface {
	RegisterSatellite(ctx context.Context, name string, el OrbitalElements) error
	RegisterGroundStation(ctx context.Context, name string, pos Geodetic) error
	RegisterAircraft(ctx context.Context, name string, route []Waypoint) error
	SetConstraint(ctx context.Context, entity string, spec ConstraintSpec) error
}

// Builder constructs the scenario: it validates each entity, registers it
// with the engine, and records it in the local registry. A failed engine
// call leaves the registry unchanged, so the local table never lists an
// entity the engine does not know about.
type Builder struct {
	reg *Registry
	eng Registrar
}

func NewBuilder(eng Registrar) *Builder {
	return &Builder{reg: NewRegistry(), eng: eng}
}

// Registry exposes the entity table for querying and reporting.
func (b *Builder) Registry() *Registry { return b.reg }

// CreateSatellite validates el, registers the satellite with the engine,
// and adds it to the registry.
func (b *Builder) CreateSatellite(ctx context.Context, name string, el OrbitalElements) error {
	if err := b.precheck(name); err != nil {
		return err
	}
	if err := el.Validate(); err != nil {
		return tagEntity(err, name)
	}
	if err := b.eng.RegisterSatellite(ctx, name, el); err != nil {
		return fmt.Errorf("register satellite %q: %w", name, err)
	}
	orbit := el
	return b.reg.add(&Entity{Name: name, Kind: KindSatellite, Orbit: &orbit})
}

// CreateGroundStation validates pos, registers the station with the
// engine, and adds it to the registry.
func (b *Builder) CreateGroundStation(ctx context.Context, name string, pos Geodetic) error {
	if err := b.precheck(name); err != nil {
		return err
	}
	if err := pos.Validate(); err != nil {
		return tagEntity(err, name)
	}
	if err := b.eng.RegisterGroundStation(ctx, name, pos); err != nil {
		return fmt.Errorf("register ground station %q: %w", name, err)
	}
	position := pos
	return b.reg.add(&Entity{Name: name, Kind: KindGround, Position: &position})
}

// CreateAircraft validates the route, registers the aircraft with the
// engine, and adds it to the registry.
func (b *Builder) CreateAircraft(ctx context.Context, name string, route []Waypoint) error {
	if err := b.precheck(name); err != nil {
		return err
	}
	if err := ValidateRoute(route); err != nil {
		return tagEntity(err, name)
	}
	if err := b.eng.RegisterAircraft(ctx, name, route); err != nil {
		return fmt.Errorf("register aircraft %q: %w", name, err)
	}
	r := make([]Waypoint, len(route))
	copy(r, route)
	return b.reg.add(&Entity{Name: name, Kind: KindAir, Route: r})
}

// ApplyConstraint attaches spec to a registered entity. Re-applying a
// constraint with the same kind and bound overwrites the previous
// threshold both engine-side and in the local record.
func (b *Builder) ApplyConstraint(ctx context.Context, entity string, spec ConstraintSpec) error {
	e, err := b.reg.Get(entity)
	if err != nil {
		return err
	}
	if err := spec.Validate(); err != nil {
		return tagEntity(err, entity)
	}
	if err := b.eng.SetConstraint(ctx, entity, spec); err != nil {
		return fmt.Errorf("apply %s to %q: %w", spec, entity, err)
	}
	e.setConstraint(spec)
	return nil
}

// HasConstraint reports whether entity already carries a constraint of
// the given kind and bound.
func (b *Builder) HasConstraint(entity string, kind ConstraintKind, bound Bound) bool {
	e, err := b.reg.Get(entity)
	if err != nil {
		return false
	}
	for _, c := range e.Constraints {
		if c.Kind == kind && c.Bound == bound {
			return true
		}
	}
	return false
}

// precheck rejects empty and duplicate names before the engine is touched.
func (b *Builder) precheck(name string) error {
	if name == "" {
		return &ConfigurationError{Param: "name", Reason: "must not be empty"}
	}
	if _, ok := b.reg.entities[name]; ok {
		return &DuplicateEntityError{Name: name}
	}
	return nil
}

// tagEntity fills in the entity name on a ConfigurationError produced by
// a value-level validator.
func tagEntity(err error, name string) error {
	var ce *ConfigurationError
	if errors.As(err, &ce) && ce.Entity == "" {
		ce.Entity = name
	}
	return err
}
