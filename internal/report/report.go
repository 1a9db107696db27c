// Package report renders a computed schedule for external consumers.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/msageha/cpmtool/internal/schedule"
	cpmyaml "github.com/msageha/cpmtool/internal/yaml"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// scheduleExport is the YAML export envelope (file_type "schedule").
type scheduleExport struct {
	SchemaVersion int                  `yaml:"schema_version"`
	FileType      string               `yaml:"file_type"`
	Makespan      int                  `yaml:"makespan"`
	Tasks         []schedule.TaskTimes `yaml:"tasks"`
	CriticalPath  []string             `yaml:"critical_path"`
}

// Render writes the schedule to w in the requested format.
func Render(w io.Writer, res *schedule.Result, format string) error {
	switch format {
	case FormatTable, "":
		return renderTable(w, res)
	case FormatJSON:
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal schedule json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		out, err := yamlv3.Marshal(export(res))
		if err != nil {
			return fmt.Errorf("marshal schedule yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
}

// renderTable prints one row per task, anchors included, followed by the
// critical path and the makespan.
func renderTable(w io.Writer, res *schedule.Result) error {
	if _, err := fmt.Fprintln(w, "Node,ES,EF,LS,LF"); err != nil {
		return err
	}
	for _, t := range res.Tasks {
		if _, err := fmt.Fprintf(w, "%s,%d,%d,%d,%d\n",
			t.ID, t.EarliestStart, t.EarliestFinish, t.LatestStart, t.LatestFinish); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nCritical Path: %s\n", strings.Join(res.CriticalPath, ",")); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Makespan: %d\n", res.Makespan)
	return err
}

// WriteFile writes the rendered schedule to path. YAML exports go
// through the atomic writer so a crashed write never leaves a torn file.
func WriteFile(path string, res *schedule.Result, format string) error {
	var buf bytes.Buffer
	if err := Render(&buf, res, format); err != nil {
		return err
	}
	if format == FormatYAML {
		return cpmyaml.AtomicWriteRaw(path, buf.Bytes())
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func export(res *schedule.Result) *scheduleExport {
	return &scheduleExport{
		SchemaVersion: cpmyaml.CurrentSchemaVersion,
		FileType:      "schedule",
		Makespan:      res.Makespan,
		Tasks:         res.Tasks,
		CriticalPath:  res.CriticalPath,
	}
}
