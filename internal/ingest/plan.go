package ingest

import (
	"fmt"
	"os"
	"strconv"

	yamlv3 "gopkg.in/yaml.v3"

	cpmyaml "github.com/msageha/cpmtool/internal/yaml"
)

// PlanFile is the YAML plan format:
//
//	schema_version: 1
//	file_type: plan
//	tasks:
//	  - id: A
//	    duration: 2
//	  - id: B
//	    duration: 1
//	    depends_on: [A]
//
// Tasks are processed in list order; depends_on may only reference tasks
// that appear earlier in the list.
type PlanFile struct {
	SchemaVersion int        `yaml:"schema_version"`
	FileType      string     `yaml:"file_type"`
	Tasks         []PlanTask `yaml:"tasks"`
}

type PlanTask struct {
	ID        string   `yaml:"id"`
	Duration  int      `yaml:"duration"`
	DependsOn []string `yaml:"depends_on"`
}

// LoadPlanFile reads and validates a YAML plan file and returns its
// records in declaration order.
func LoadPlanFile(path string) ([]Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return LoadPlanBytes(content)
}

// LoadPlanBytes parses plan content. Field-level problems are aggregated
// into a *ValidationErrors so a malformed plan reports every bad field
// at once; the run still halts before any scheduling happens.
func LoadPlanBytes(content []byte) ([]Record, error) {
	if err := cpmyaml.ValidateSchemaHeaderFromBytes(content, "plan"); err != nil {
		return nil, err
	}

	var plan PlanFile
	if err := yamlv3.Unmarshal(content, &plan); err != nil {
		return nil, fmt.Errorf("parse plan yaml: %w", err)
	}

	if errs := validatePlanTasks(plan.Tasks); errs != nil {
		return nil, errs
	}

	records := make([]Record, 0, len(plan.Tasks))
	for _, t := range plan.Tasks {
		records = append(records, Record{
			ID:        t.ID,
			Duration:  strconv.Itoa(t.Duration),
			DependsOn: t.DependsOn,
		})
	}
	return records, nil
}

func validatePlanTasks(tasks []PlanTask) *ValidationErrors {
	errs := &ValidationErrors{}

	if len(tasks) == 0 {
		errs.Add("tasks", "at least one task is required")
		return errs
	}

	for i, task := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)
		if task.ID == "" {
			errs.Add(prefix+".id", "required field is missing")
		}
		if task.Duration < 0 {
			errs.Add(prefix+".duration", fmt.Sprintf("must be non-negative, got %d", task.Duration))
		}
		for j, dep := range task.DependsOn {
			if dep == "" {
				errs.Add(fmt.Sprintf("%s.depends_on[%d]", prefix, j), "empty dependency id")
			}
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
