package schedule

import (
	"sort"

	"github.com/msageha/cpmtool/internal/model"
)

// CriticalPath returns the identifiers of all zero-slack tasks, sorted
// ascending by earliest start. The tie-break for equal earliest starts
// is part of the contract, not incidental: the stable sort runs over the
// canonical registry order (START, insertion order, END), so output is
// reproducible across runs. By construction the result always contains
// START and END. Both propagation passes must have run.
func (r *Registry) CriticalPath() []string {
	var critical []*model.Task
	for _, t := range r.Tasks() {
		if t.IsCritical() {
			critical = append(critical, t)
		}
	}

	sort.SliceStable(critical, func(i, j int) bool {
		return critical[i].EarliestStart < critical[j].EarliestStart
	})

	ids := make([]string, len(critical))
	for i, t := range critical {
		ids[i] = t.ID
	}
	return ids
}
