package scenario

import "fmt"

// ConfigurationError reports an input parameter that is physically
// invalid. It is raised before any engine call is made.
type ConfigurationError struct {
	Entity string // may be empty when the entity name is not yet known
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("invalid configuration for %q: %s: %s", e.Entity, e.Param, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Param, e.Reason)
}

// DuplicateEntityError reports a registration under a name that already
// exists in the registry.
type DuplicateEntityError struct {
	Name string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("entity %q already registered", e.Name)
}

// UnknownEntityError reports a reference to a name that was never
// registered.
type UnknownEntityError struct {
	Name string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("entity %q not registered", e.Name)
}

// UnsupportedConstraintError reports that the engine cannot apply a
// constraint kind to an entity of the target's type.
type UnsupportedConstraintError struct {
	Entity string
	Kind   ConstraintKind
	Bound  Bound
}

func (e *UnsupportedConstraintError) Error() string {
	return fmt.Sprintf("constraint %s %s not supported for entity %q", e.Bound, e.Kind, e.Entity)
}
