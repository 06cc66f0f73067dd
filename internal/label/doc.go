// Package label applies the acceptance policy to reconciled candidates.
// Every candidate leaves as exactly one of three outcomes: kept as a corpus
// record, dropped with a reason code, or queued for a later alignment pass.
// The package also writes the per-session output files the assembler and the
// statistics report consume.
package label
