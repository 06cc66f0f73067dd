// Package align reconciles decoder-produced candidate segments against the
// canonical session transcript. For each candidate it searches the transcript
// for the best-matching word span, scores the pair with a word-level edit
// rate, and classifies the candidate as accurate, needing realignment, or
// unrecoverable. Reconciliation is stateless across sessions so sessions can
// run in parallel.
package align
