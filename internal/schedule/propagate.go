package schedule

import "github.com/msageha/cpmtool/internal/model"

// The two propagation passes are mirror images (max/min, predecessors
// and successors swapped), so both run through one traversal with a
// direction flag. The traversal is Kahn-style: a task is dequeued only
// after every upstream value is final, so each task is visited exactly
// once per pass and re-running a pass on an unchanged graph yields
// identical results.

type direction int

const (
	forward direction = iota
	backward
)

func (d direction) String() string {
	if d == forward {
		return "forward"
	}
	return "backward"
}

// upstream returns the edges whose values must be final before the task
// can be resolved in the given direction.
func (d direction) upstream(t *model.Task) []string {
	if d == forward {
		return t.Predecessors
	}
	return t.Successors
}

func (d direction) downstream(t *model.Task) []string {
	if d == forward {
		return t.Successors
	}
	return t.Predecessors
}

// PropagateForward computes earliest start/finish for every task,
// flowing from START. END's earliest finish is the project makespan.
func (r *Registry) PropagateForward() error {
	return r.propagate(forward)
}

// PropagateBackward computes latest start/finish for every task, flowing
// from END. END's latest finish is forced to the makespan computed by
// the forward pass, so the latest allowed completion equals the schedule
// itself, not an external deadline. PropagateForward must run first.
func (r *Registry) PropagateBackward() error {
	return r.propagate(backward)
}

func (r *Registry) propagate(dir direction) error {
	if !r.anchored {
		return &InvariantViolationError{TaskID: "", Detail: dir.String() + " pass before anchors attached"}
	}

	// remaining[id] counts unresolved upstream edges. Seeding happens
	// naturally: only the anchor on the seeding side starts at zero.
	remaining := make(map[string]int, len(r.tasks))
	var queue []string
	for _, id := range r.order {
		n := len(dir.upstream(r.tasks[id]))
		remaining[id] = n
		if n == 0 {
			queue = append(queue, id)
		}
	}

	resolved := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		t := r.tasks[id]
		if err := r.resolve(dir, t); err != nil {
			return err
		}
		resolved++

		for _, next := range dir.downstream(t) {
			remaining[next]--
			if remaining[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	// With a single source, a single sink, and dependencies that existed
	// at insertion time, every task is reachable. Anything left over
	// means the builder wired the graph wrong.
	if resolved != len(r.tasks) {
		return &InvariantViolationError{
			TaskID: "",
			Detail: dir.String() + " pass left tasks unresolved (broken anchor wiring?)",
		}
	}
	return nil
}

func (r *Registry) resolve(dir direction, t *model.Task) error {
	if dir == forward {
		// Earliest start is the max earliest finish among predecessors;
		// 0 for START, the only task without predecessors.
		es := 0
		for _, p := range t.Predecessors {
			if ef := r.tasks[p].EarliestFinish; ef > es {
				es = ef
			}
		}
		t.EarliestStart = es
		t.EarliestFinish = es + t.Duration
		return nil
	}

	// Latest finish is the min latest start among successors. END has
	// none: its latest finish is pinned to its own earliest start (the
	// makespan), as are its earliest finish and latest start.
	lf := model.TimeUnset
	for _, s := range t.Successors {
		if ls := r.tasks[s].LatestStart; ls < lf {
			lf = ls
		}
	}
	if len(t.Successors) == 0 {
		t.EarliestFinish = t.EarliestStart
		lf = t.EarliestStart
	}

	// A duration exceeding the latest finish cannot happen on a
	// correctly anchored acyclic graph; do not wrap around silently.
	if t.Duration > lf {
		return &InvariantViolationError{
			TaskID: t.ID,
			Detail: "duration exceeds latest finish (unreachable node or wrong anchor wiring)",
		}
	}
	t.LatestFinish = lf
	t.LatestStart = lf - t.Duration
	return nil
}
