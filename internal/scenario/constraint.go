package scenario

import "fmt"

// ConstraintKind enumerates the constraint properties an entity can carry.
// The set is closed on purpose: constraint configuration is an explicit
// structure validated here, never a pass-through of arbitrary engine
// attributes.
type ConstraintKind string

const (
	ConstraintElevation ConstraintKind = "elevation" // degrees above local horizon
	ConstraintRange     ConstraintKind = "range"     // slant range, km
)

// Bound selects which side of a constraint a threshold applies to.
type Bound string

const (
	BoundMin Bound = "min"
	BoundMax Bound = "max"
)

// ConstraintSpec is one threshold narrowing when access is considered
// valid, e.g. {elevation, min, 10} for a 10 degree elevation mask.
type ConstraintSpec struct {
	Kind  ConstraintKind
	Bound Bound
	Value float64
}

// Validate checks the constraint before it is submitted to the engine.
func (c ConstraintSpec) Validate() error {
	switch c.Kind {
	case ConstraintElevation:
		if c.Value < -90 || c.Value > 90 {
			return &ConfigurationError{Param: "elevation", Reason: fmt.Sprintf("must be in [-90,90], got %g", c.Value)}
		}
	case ConstraintRange:
		if c.Value <= 0 {
			return &ConfigurationError{Param: "range", Reason: fmt.Sprintf("must be > 0, got %g", c.Value)}
		}
	default:
		return &ConfigurationError{Param: "constraint", Reason: fmt.Sprintf("unknown kind %q", c.Kind)}
	}
	switch c.Bound {
	case BoundMin, BoundMax:
	default:
		return &ConfigurationError{Param: "constraint", Reason: fmt.Sprintf("bound must be min or max, got %q", c.Bound)}
	}
	return nil
}

func (c ConstraintSpec) String() string {
	return fmt.Sprintf("%s %s = %g", c.Bound, c.Kind, c.Value)
}
