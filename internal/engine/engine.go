// Package engine is the boundary to the external simulation engine. The
// engine owns all orbital propagation and visibility geometry; this
// package only translates scenario configuration into the engine's call
// convention and the engine's responses back into the access data model.
//
// Every call is a fallible remote call. Failures carry a machine-readable
// code in the response body which is mapped onto the error taxonomy of
// the scenario and access packages, so callers can react with errors.As
// without parsing message text.
package engine

import (
	"fmt"

	"github.com/satnetlab/satnet/internal/access"
	"github.com/satnetlab/satnet/internal/scenario"
)

// Error codes carried in the wire error envelope.
const (
	CodeInvalidConfiguration  = "invalid_configuration"
	CodeDuplicateEntity       = "duplicate_entity"
	CodeUnknownEntity         = "unknown_entity"
	CodeUnsupportedConstraint = "unsupported_constraint"
	CodeUnsupportedPairing    = "unsupported_pairing"
	CodeComputeFailed         = "compute_failed"
	CodeUnknownScenario       = "unknown_scenario"
)

// RemoteError is a failure reported by the engine that does not map onto
// a more specific error type.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("engine: %s: %s", e.Code, e.Message)
	}
	return "engine: " + e.Message
}

// errorFromEnvelope converts a decoded wire error into the typed error a
// caller expects. entity and link give the context the typed errors need;
// either may be empty when not applicable to the call.
func errorFromEnvelope(env ErrorResponse, entity, link string, kind scenario.ConstraintKind, bound scenario.Bound) error {
	switch env.Code {
	case CodeDuplicateEntity:
		return &scenario.DuplicateEntityError{Name: entity}
	case CodeUnknownEntity:
		return &scenario.UnknownEntityError{Name: entity}
	case CodeInvalidConfiguration:
		return &scenario.ConfigurationError{Entity: entity, Param: "engine", Reason: env.Error}
	case CodeUnsupportedConstraint:
		return &scenario.UnsupportedConstraintError{Entity: entity, Kind: kind, Bound: bound}
	case CodeUnsupportedPairing, CodeComputeFailed:
		return &access.AccessComputationError{Link: link, Reason: env.Error}
	default:
		return &RemoteError{Code: env.Code, Message: env.Error}
	}
}
