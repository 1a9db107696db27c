package watch

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msageha/cpmtool/internal/model"
	"github.com/msageha/cpmtool/internal/report"
	cpmyaml "github.com/msageha/cpmtool/internal/yaml"
)

const testPlan = `schema_version: 1
file_type: plan
tasks:
  - id: A
    duration: 2
  - id: B
    duration: 1
    depends_on: [A]
`

func writePlan(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "plan.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	return path
}

func TestRecompute_ToWriter(t *testing.T) {
	dir := t.TempDir()
	planPath := writePlan(t, dir, testPlan)

	var out, logs bytes.Buffer
	w := New(planPath, "", report.FormatTable, model.DefaultConfig(), &out, &logs)

	if err := w.Recompute(); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Node,ES,EF,LS,LF") {
		t.Errorf("missing table header in output:\n%s", got)
	}
	if !strings.Contains(got, "Makespan: 3") {
		t.Errorf("missing makespan in output:\n%s", got)
	}
	if !strings.Contains(logs.String(), "schedule updated") {
		t.Errorf("missing update log:\n%s", logs.String())
	}
}

func TestRecompute_ToFile(t *testing.T) {
	dir := t.TempDir()
	planPath := writePlan(t, dir, testPlan)
	outputPath := filepath.Join(dir, "schedule.yaml")

	var logs bytes.Buffer
	w := New(planPath, outputPath, report.FormatYAML, model.DefaultConfig(), os.Stdout, &logs)

	if err := w.Recompute(); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	if err := cpmyaml.ValidateSchemaHeader(outputPath, "schedule"); err != nil {
		t.Errorf("output file schema invalid: %v", err)
	}
}

func TestRecompute_InvalidPlan(t *testing.T) {
	dir := t.TempDir()
	planPath := writePlan(t, dir, "schema_version: 1\nfile_type: plan\ntasks: []\n")

	var out, logs bytes.Buffer
	w := New(planPath, "", report.FormatTable, model.DefaultConfig(), &out, &logs)

	if err := w.Recompute(); err == nil {
		t.Fatal("expected error for empty plan")
	}
	if out.Len() != 0 {
		t.Errorf("no report should be rendered on failure, got:\n%s", out.String())
	}
}

func TestRecompute_MissingPlanFile(t *testing.T) {
	dir := t.TempDir()

	var out, logs bytes.Buffer
	w := New(filepath.Join(dir, "missing.yaml"), "", report.FormatTable, model.DefaultConfig(), &out, &logs)

	if err := w.Recompute(); err == nil {
		t.Fatal("expected error for missing plan file")
	}
}

func TestWatcher_LockContention(t *testing.T) {
	dir := t.TempDir()
	planPath := writePlan(t, dir, testPlan)

	var out, logs bytes.Buffer
	w1 := New(planPath, "", report.FormatTable, model.DefaultConfig(), &out, &logs)
	if err := w1.fileLock.TryLock(); err != nil {
		t.Fatalf("first lock failed: %v", err)
	}
	defer w1.fileLock.Unlock()

	w2 := New(planPath, "", report.FormatTable, model.DefaultConfig(), &out, &logs)
	if err := w2.Run(); err == nil {
		t.Fatal("expected Run to fail while lock is held")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"DEBUG", LogLevelDebug},
		{"", LogLevelInfo},
		{"bogus", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLog_RespectsLevel(t *testing.T) {
	dir := t.TempDir()
	planPath := writePlan(t, dir, testPlan)

	cfg := model.DefaultConfig()
	cfg.Logging.Level = "error"

	var out, logs bytes.Buffer
	w := New(planPath, "", report.FormatTable, cfg, &out, &logs)

	w.log(LogLevelInfo, "should be suppressed")
	if logs.Len() != 0 {
		t.Errorf("info log should be suppressed at error level, got:\n%s", logs.String())
	}

	w.log(LogLevelError, "visible")
	if !strings.Contains(logs.String(), "ERROR watch: visible") {
		t.Errorf("error log missing:\n%s", logs.String())
	}
}
