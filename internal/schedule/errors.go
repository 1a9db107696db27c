package schedule

import "fmt"

// The ingestion error taxonomy. All four are fatal to the current run:
// the first error is surfaced and propagation never sees a partially
// valid graph.

// DuplicateIDError reports re-insertion of an existing task identifier.
// Anchor injection also returns it when a real task collides with the
// reserved START/END names.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate task id %q", e.ID)
}

// InvalidDurationError reports a duration token that is not a
// non-negative integer.
type InvalidDurationError struct {
	ID  string
	Raw string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("task %q: invalid duration %q (must be a non-negative integer)", e.ID, e.Raw)
}

// UnknownDependencyError reports a dependency identifier that is not yet
// present in the registry. Because dependencies must exist at insertion
// time, this also rejects self-references and forward references, which
// is what keeps the graph acyclic by construction.
type UnknownDependencyError struct {
	ID         string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("task %q: unknown dependency %q", e.ID, e.Dependency)
}

// MalformedRecordError reports an input record missing required fields.
type MalformedRecordError struct {
	Line   int // 0 when the record did not come from a line-oriented source
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed record: %s", e.Reason)
}

// InvariantViolationError reports a defect discovered during propagation,
// e.g. a latest-finish smaller than a task's duration. These are
// programmer-visible builder defects, distinct from input validation,
// and abort the run.
type InvariantViolationError struct {
	TaskID string
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("schedule invariant violated at task %q: %s", e.TaskID, e.Detail)
}
