// Package pipeline orchestrates the per-session processing stages and the
// corpus-wide assembly and filter passes. Sessions run concurrently under a
// bounded worker pool and fail independently: one session's missing inputs
// or bad transcript never stops the others. Every run carries a correlation
// id through the log context and ends with a kept/dropped/queued/unresolved
// summary, even when parts of the run failed.
package pipeline
