// Package writers serializes the output tables.
//
// Design:
//   • Writers own all format knowledge (CSV/TSV/JSONL/SQLite).
//   • Formats register themselves in init(); callers look them up by name.
//   • JSONL and the SQLite run record go through pkg/api (v1) for a stable wire format.
package writers
