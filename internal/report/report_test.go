package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/msageha/cpmtool/internal/ingest"
	"github.com/msageha/cpmtool/internal/schedule"
	cpmyaml "github.com/msageha/cpmtool/internal/yaml"
)

func computeFixture(t *testing.T) *schedule.Result {
	t.Helper()
	reg := schedule.NewRegistry()
	records := []ingest.Record{
		{ID: "A", Duration: "2"},
		{ID: "B", Duration: "1", DependsOn: []string{"A"}},
	}
	require.NoError(t, ingest.Load(reg, records))

	res, err := schedule.Compute(reg)
	require.NoError(t, err)
	return res
}

func TestRender_Table(t *testing.T) {
	res := computeFixture(t)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res, FormatTable))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "Node,ES,EF,LS,LF", lines[0])
	assert.Equal(t, "START,0,0,0,0", lines[1])
	assert.Equal(t, "A,0,2,0,2", lines[2])
	assert.Equal(t, "B,2,3,2,3", lines[3])
	assert.Equal(t, "END,3,3,3,3", lines[4])
	assert.Contains(t, out, "Critical Path: START,A,B,END")
	assert.Contains(t, out, "Makespan: 3")
}

func TestRender_JSON(t *testing.T) {
	res := computeFixture(t)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res, FormatJSON))

	var decoded schedule.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.Makespan)
	assert.Equal(t, []string{"START", "A", "B", "END"}, decoded.CriticalPath)
	require.Len(t, decoded.Tasks, 4)
	assert.True(t, decoded.Tasks[1].Critical)
}

func TestRender_YAML(t *testing.T) {
	res := computeFixture(t)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res, FormatYAML))

	require.NoError(t, cpmyaml.ValidateSchemaHeaderFromBytes(buf.Bytes(), "schedule"))

	var decoded scheduleExport
	require.NoError(t, yamlv3.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.Makespan)
	assert.Equal(t, "schedule", decoded.FileType)
	require.Len(t, decoded.Tasks, 4)
}

func TestRender_UnknownFormat(t *testing.T) {
	res := computeFixture(t)
	err := Render(&bytes.Buffer{}, res, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestWriteFile_YAMLIsAtomic(t *testing.T) {
	res := computeFixture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.yaml")

	require.NoError(t, WriteFile(path, res, FormatYAML))
	// Second write creates the .bak the atomic writer leaves behind.
	require.NoError(t, WriteFile(path, res, FormatYAML))

	require.NoError(t, cpmyaml.ValidateSchemaHeader(path, "schedule"))
	_, err := os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestWriteFile_Table(t *testing.T) {
	res := computeFixture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.txt")

	require.NoError(t, WriteFile(path, res, FormatTable))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Node,ES,EF,LS,LF")
}
