package schedule

import "github.com/msageha/cpmtool/internal/model"

// AttachAnchors injects the synthetic START and END tasks: START becomes
// the predecessor of every task with no predecessors, END the successor
// of every task with no successors. It must run exactly once, after all
// real tasks are ingested, because it inspects the final graph shape. An
// empty registry still gets both anchors, wired directly to each other.
func (r *Registry) AttachAnchors() error {
	if r.anchored {
		return &InvariantViolationError{TaskID: StartID, Detail: "anchors attached twice"}
	}
	if _, exists := r.tasks[StartID]; exists {
		return &DuplicateIDError{ID: StartID}
	}
	if _, exists := r.tasks[EndID]; exists {
		return &DuplicateIDError{ID: EndID}
	}

	r.addStart()
	r.addEnd()
	r.anchored = true
	return nil
}

func (r *Registry) addStart() {
	start := model.NewTask(StartID, 0)
	for _, id := range r.order {
		t := r.tasks[id]
		if len(t.Predecessors) == 0 {
			t.Predecessors = append(t.Predecessors, StartID)
			start.Successors = append(start.Successors, id)
		}
	}
	r.tasks[StartID] = start
	r.order = append([]string{StartID}, r.order...)
}

func (r *Registry) addEnd() {
	end := model.NewTask(EndID, 0)
	// Scans START as well: on an empty registry this wires START to END.
	for _, id := range r.order {
		t := r.tasks[id]
		if len(t.Successors) == 0 {
			t.Successors = append(t.Successors, EndID)
			end.Predecessors = append(end.Predecessors, id)
		}
	}
	r.tasks[EndID] = end
	r.order = append(r.order, EndID)
}
