// Package schedule implements the CPM/PDM scheduling core: a task
// registry with symmetric dependency wiring, synthetic START/END
// anchors, forward/backward time propagation, and critical path
// extraction.
package schedule

import (
	"strconv"

	"github.com/msageha/cpmtool/internal/model"
)

// Reserved identifiers for the synthetic anchor tasks.
const (
	StartID = "START"
	EndID   = "END"
)

// Registry is the arena of tasks for one scheduling run, keyed by
// identifier. It also tracks the canonical iteration order: START first
// (once anchored), then real tasks in insertion order, then END. All
// edge wiring goes through Insert so the predecessor/successor relation
// stays symmetric.
type Registry struct {
	tasks    map[string]*model.Task
	order    []string
	anchored bool
}

func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]*model.Task),
	}
}

// Insert adds a task. The duration arrives as the raw input token and is
// parsed here; every dependency must already be present. Validation runs
// before any mutation, so a failed Insert leaves the registry unchanged.
func (r *Registry) Insert(id string, duration string, deps []string) error {
	if id == "" {
		return &MalformedRecordError{Reason: "missing task id"}
	}
	if _, exists := r.tasks[id]; exists {
		return &DuplicateIDError{ID: id}
	}

	d, err := strconv.Atoi(duration)
	if err != nil || d < 0 {
		return &InvalidDurationError{ID: id, Raw: duration}
	}

	// Deduplicate dependencies, keeping first-seen order, and check that
	// every one of them already exists before wiring anything.
	seen := make(map[string]bool, len(deps))
	uniq := make([]string, 0, len(deps))
	for _, dep := range deps {
		if seen[dep] {
			continue
		}
		seen[dep] = true
		if _, ok := r.tasks[dep]; !ok {
			return &UnknownDependencyError{ID: id, Dependency: dep}
		}
		uniq = append(uniq, dep)
	}

	task := model.NewTask(id, d)
	for _, dep := range uniq {
		task.Predecessors = append(task.Predecessors, dep)
		r.tasks[dep].Successors = append(r.tasks[dep].Successors, id)
	}

	r.tasks[id] = task
	r.order = append(r.order, id)
	return nil
}

// Get returns the task for id, if present.
func (r *Registry) Get(id string) (*model.Task, bool) {
	t, ok := r.tasks[id]
	return t, ok
}

// Len returns the number of tasks, including anchors once attached.
func (r *Registry) Len() int {
	return len(r.tasks)
}

// Anchored reports whether AttachAnchors has run.
func (r *Registry) Anchored() bool {
	return r.anchored
}

// Tasks returns all tasks in canonical order.
func (r *Registry) Tasks() []*model.Task {
	out := make([]*model.Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tasks[id])
	}
	return out
}
