// Package model defines the data structures for cpmtool's task graph and configuration.
package model

import "math"

// TimeUnset is the sentinel for latest start/finish before the backward
// pass has run. Earliest times start at 0 and need no sentinel.
const TimeUnset = math.MaxInt

// Task is one node in the schedule graph. Edges are stored as identifier
// slices on both sides; the registry owns all nodes and keeps the
// predecessor/successor relation symmetric. Identity, duration, and edges
// are fixed after ingestion; the four time fields are written exactly
// once per propagation pass.
type Task struct {
	ID       string
	Duration int

	EarliestStart  int
	EarliestFinish int
	LatestStart    int
	LatestFinish   int

	Predecessors []string
	Successors   []string
}

// NewTask creates a task with zeroed earliest times and unset latest times.
func NewTask(id string, duration int) *Task {
	return &Task{
		ID:           id,
		Duration:     duration,
		LatestStart:  TimeUnset,
		LatestFinish: TimeUnset,
	}
}

// IsCritical reports zero total float: both propagation passes agreed on
// the start and finish times.
func (t *Task) IsCritical() bool {
	return t.EarliestStart == t.LatestStart && t.EarliestFinish == t.LatestFinish
}

// Slack returns the total float (latest start minus earliest start).
func (t *Task) Slack() int {
	return t.LatestStart - t.EarliestStart
}
