package pipeline

import (
	"sort"

	"plenum/internal/corpus"
	"plenum/internal/label"
	"plenum/internal/session"
)

// SessionReport is the outcome of one session's processing pass.
type SessionReport struct {
	Session session.ID
	Summary label.Summary
	// Statements is the number of speech turns entering normalization.
	Statements int
	// FailedStatements counts turns flagged and skipped during
	// normalization or speaker resolution.
	FailedStatements int
	// SkippedStatements counts malformed transcript entries the parser
	// dropped.
	SkippedStatements int
	// Err holds the session-fatal failure, nil for completed sessions.
	Err error
}

// Failed reports whether the session aborted.
func (r SessionReport) Failed() bool {
	return r.Err != nil
}

// RunReport aggregates one processing run.
type RunReport struct {
	RunID    string
	Sessions []SessionReport
}

// Totals folds every session summary into one, counting failed sessions
// separately.
func (r *RunReport) Totals() (label.Summary, int) {
	var total label.Summary
	failed := 0
	for _, s := range r.Sessions {
		if s.Failed() {
			failed++
			continue
		}
		total.Merge(s.Summary)
	}
	return total, failed
}

// Sort orders session reports by session id.
func (r *RunReport) Sort() {
	sort.Slice(r.Sessions, func(i, j int) bool {
		return r.Sessions[i].Session.Before(r.Sessions[j].Session)
	})
}

// AssembleReport summarizes one assembly pass.
type AssembleReport struct {
	Sessions   int
	Records    int
	Duplicates int
	Conflicts  []corpus.Conflict
	Vocabulary int
}
