// Package ingest reads task records from the supported input formats
// (whitespace-separated text lines and YAML plan files) and hands them to
// the scheduling core strictly in the order given. Dependencies must be
// declared before the tasks that use them; ingest preserves that order
// and the registry enforces it.
package ingest

import "github.com/msageha/cpmtool/internal/schedule"

// Record is one task record as supplied by the input. Duration stays a
// raw token: parsing it is part of the registry's insert contract.
type Record struct {
	ID        string
	Duration  string
	DependsOn []string
}

// Load inserts records into the registry in order, stopping at the first
// error.
func Load(r *schedule.Registry, records []Record) error {
	for _, rec := range records {
		if err := r.Insert(rec.ID, rec.Duration, rec.DependsOn); err != nil {
			return err
		}
	}
	return nil
}
