// Package transcript parses official session transcript documents into an
// ordered sequence of speech turns.
//
// The input is the per-session JSON the stenographic office publishes:
// subsections containing statements, where long statements may carry an
// embedded chairman comment marked by a placeholder in the statement text.
// Parsing is tolerant at turn granularity: a malformed statement is skipped
// and counted, never aborting the session.
package transcript
