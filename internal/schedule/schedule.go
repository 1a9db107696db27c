package schedule

// TaskTimes is one row of the computed schedule, consumed by the report
// collaborator and the YAML/JSON exporters.
type TaskTimes struct {
	ID             string `yaml:"id" json:"id"`
	Duration       int    `yaml:"duration" json:"duration"`
	EarliestStart  int    `yaml:"earliest_start" json:"earliest_start"`
	EarliestFinish int    `yaml:"earliest_finish" json:"earliest_finish"`
	LatestStart    int    `yaml:"latest_start" json:"latest_start"`
	LatestFinish   int    `yaml:"latest_finish" json:"latest_finish"`
	Critical       bool   `yaml:"critical" json:"critical"`
}

// Result is the outcome of one scheduling run.
type Result struct {
	Makespan     int         `yaml:"makespan" json:"makespan"`
	Tasks        []TaskTimes `yaml:"tasks" json:"tasks"`
	CriticalPath []string    `yaml:"critical_path" json:"critical_path"`
}

// Compute runs the full pipeline on an ingested registry: anchor
// injection (unless the caller already attached anchors), forward pass,
// backward pass, critical path extraction. The registry is consumed by
// one run; re-running Compute on the same registry without structural
// changes yields identical results.
func Compute(r *Registry) (*Result, error) {
	if !r.Anchored() {
		if err := r.AttachAnchors(); err != nil {
			return nil, err
		}
	}
	if err := r.PropagateForward(); err != nil {
		return nil, err
	}
	if err := r.PropagateBackward(); err != nil {
		return nil, err
	}

	end, _ := r.Get(EndID)
	res := &Result{
		Makespan:     end.EarliestFinish,
		CriticalPath: r.CriticalPath(),
	}
	for _, t := range r.Tasks() {
		res.Tasks = append(res.Tasks, TaskTimes{
			ID:             t.ID,
			Duration:       t.Duration,
			EarliestStart:  t.EarliestStart,
			EarliestFinish: t.EarliestFinish,
			LatestStart:    t.LatestStart,
			LatestFinish:   t.LatestFinish,
			Critical:       t.IsCritical(),
		})
	}
	return res, nil
}
