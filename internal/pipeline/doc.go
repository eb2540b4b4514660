// Package pipeline turns merged MetaPhlAn tables into the three phyloseq
// tables: abundance matrix, taxonomy lookup and sample metadata.
//
// It never imports app, cli, writers or pretty; keep it domain-only. Output
// formats live in writers.
package pipeline
