/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The error tiers mirror how the batch orchestrator reacts:

  1. Group faults (fatal per group) - missing tariff, missing multiplier
     table, unparsable dates. Raised as a GroupError naming the offending
     group; the orchestrator logs and skips that group.
  2. Degraded contributions - a missing multiplier entry or a non-finite
     operand. Handled inline (warn, contribute zero), never raised.
  3. Business short-circuits - Sunday-suppressed compensatory time,
     full-tariff overrides. Normal branches, not errors at all.

USAGE:
  Wrap a sentinel with group context:

    return engine.NewGroupError(group.GroupID, engine.ErrMissingTariff)

  Check downstream:

    if engine.IsGroupFault(err) { ... skip group ... }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingTariff is returned when a group has no positive tariff for
	// the requested calculation mode. A tariff-less group cannot produce a
	// meaningful total.
	ErrMissingTariff = errors.New("missing tariff")

	// ErrMissingMultiplierTable is returned when a group carries no
	// multiplier table at all. Individual missing entries are non-fatal;
	// a completely absent table is a caller bug.
	ErrMissingMultiplierTable = errors.New("missing multiplier table")

	// ErrUnparsableDate is returned when a date string from a collaborator
	// cannot be parsed. This is a caller error, not a recoverable condition.
	ErrUnparsableDate = errors.New("unparsable date")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// GroupError attaches the offending group id to a calculation fault so the
// batch log names the group that was skipped.
type GroupError struct {
	GroupID string
	Err     error
}

func NewGroupError(groupID string, err error) *GroupError {
	return &GroupError{GroupID: groupID, Err: err}
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("group %s: %v", e.GroupID, e.Err)
}

func (e *GroupError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsGroupFault reports whether the error is a per-group fatal fault that
// the orchestrator should skip rather than propagate.
func IsGroupFault(err error) bool {
	return errors.Is(err, ErrMissingTariff) ||
		errors.Is(err, ErrMissingMultiplierTable) ||
		errors.Is(err, ErrUnparsableDate)
}
