// pkg/api/tables_v1.go
package api

import "time"

// RowV1 is the stable JSONL schema for one table row.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type RowV1 struct {
	Table string            `json:"table"`         // "abundance" | "taxa" | "samples"
	Otu   string            `json:"otu,omitempty"` // copy of Row["Otu"]
	Row   map[string]string `json:"row"`           // every column, Otu included
}

// RunV1 describes one conversion run.
type RunV1 struct {
	RunID     string    `json:"run_id"`
	Version   string    `json:"version"`
	Rank      string    `json:"rank"`
	Label     string    `json:"label"`
	Inputs    []string  `json:"inputs"`
	CreatedAt time.Time `json:"created_at"`
}
