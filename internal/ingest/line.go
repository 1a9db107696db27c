package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/msageha/cpmtool/internal/schedule"
)

// ParseLine parses one text record of the form "A 2 B,C": the task id,
// its duration, and an optional comma-separated dependency list. lineNum
// is used only for error reporting.
func ParseLine(line string, lineNum int) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return Record{}, &schedule.MalformedRecordError{
			Line:   lineNum,
			Reason: fmt.Sprintf("want \"<id> <duration> [dep,dep,...]\", got %d field(s)", len(fields)),
		}
	}

	rec := Record{ID: fields[0], Duration: fields[1]}
	if len(fields) == 3 {
		for _, dep := range strings.Split(fields[2], ",") {
			if dep == "" {
				return Record{}, &schedule.MalformedRecordError{
					Line:   lineNum,
					Reason: "empty entry in dependency list",
				}
			}
			rec.DependsOn = append(rec.DependsOn, dep)
		}
	}
	return rec, nil
}

// ReadLines parses a whole line-oriented input. Blank lines and lines
// starting with '#' are skipped; anything else must be a valid record.
func ReadLines(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := ParseLine(line, lineNum)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return records, nil
}
