package tracker

import (
	"errors"
	"fmt"
)

// Sentinel failures for the progression engine.
var (
	// ErrNoCurrentAction is returned by Done and Next when the cursor is
	// unset or no longer points at an in-progress action.
	ErrNoCurrentAction = errors.New("no action is currently in progress")

	// ErrNoPendingWork is returned by Start when the current objective
	// has no pending actions left.
	ErrNoPendingWork = errors.New("no pending actions in the current objective")

	// ErrNoCurrentObjective is returned when an operation needs a current
	// objective and every objective is completed or archived.
	ErrNoCurrentObjective = errors.New("no current objective")

	// ErrNoContext is returned by navigation when no position is set and
	// none can be inferred from the cursor.
	ErrNoContext = errors.New("no current position set")
)

// NotFoundError reports a path segment that resolved to nothing.
type NotFoundError struct {
	Path    string
	Segment string
}

func (e *NotFoundError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("item not found at %q: no child with slug %q", e.Path, e.Segment)
	}
	return fmt.Sprintf("item not found at %q", e.Path)
}

// OutOfRangeError reports a positional index beyond the sibling count.
type OutOfRangeError struct {
	Path  string
	Index int
	Count int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range at %q: %d siblings", e.Index, e.Path, e.Count)
}

// InvalidPathError reports a malformed segment or a path that continues
// past an action.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// TerminalStateError reports an edit or delete attempted on a completed
// or archived item.
type TerminalStateError struct {
	Slug   string
	Status Status
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("%q is %s and can no longer be modified", e.Slug, e.Status)
}

// ValidationError reports rejected input: slug collisions, unknown
// statuses, malformed payloads.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

// DanglingReferenceError reports a stored child id with no matching
// item record. Surfaced at load time rather than silently skipped.
type DanglingReferenceError struct {
	ParentID string
	ChildID  string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference: item %s lists child %s which does not exist", e.ParentID, e.ChildID)
}
