package label

import (
	"plenum/internal/align"
	"plenum/internal/corpus"
	"plenum/internal/session"
	"plenum/internal/speaker"
)

// Outcome is the final disposition of one candidate.
type Outcome int

const (
	// OutcomeKept accepts the candidate into the corpus.
	OutcomeKept Outcome = iota
	// OutcomeDropped rejects the candidate with a reason code.
	OutcomeDropped
	// OutcomeQueued defers the candidate to a later alignment pass.
	OutcomeQueued
)

func (o Outcome) String() string {
	switch o {
	case OutcomeKept:
		return "kept"
	case OutcomeDropped:
		return "dropped"
	case OutcomeQueued:
		return "queued"
	default:
		return "unknown"
	}
}

// Reason explains a drop or queue decision in per-session outputs and logs.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonRealignment       Reason = "needs-realignment"
	ReasonUnrecoverable     Reason = "unrecoverable-alignment"
	ReasonNoSpeaker         Reason = "no-speaker"
	ReasonMultipleSpeakers  Reason = "multiple-speakers"
	ReasonMinorityLanguage  Reason = "minority-language"
	ReasonTooShort          Reason = "too-short"
	ReasonTooLong           Reason = "too-long"
	ReasonDuplicateBoundary Reason = "duplicate-boundary"
)

// Decision records the outcome for one candidate. Record is set only for
// kept candidates.
type Decision struct {
	Candidate align.Candidate
	Outcome   Outcome
	Reason    Reason
	EditRate  float64
	Speaker   speaker.ID
	Language  string
	Record    *corpus.Record
}

// Summary aggregates a decision set. Unresolved counts drops caused by
// speaker attribution; Dropped counts every other rejection, so the four
// outcome counts partition the candidates.
type Summary struct {
	Kept       int
	Dropped    int
	Queued     int
	Unresolved int

	KeptDuration    session.Centiseconds
	DroppedDuration session.Centiseconds
}

// Total returns the number of summarized candidates.
func (s Summary) Total() int {
	return s.Kept + s.Dropped + s.Queued + s.Unresolved
}

// Merge adds another summary's counts into this one.
func (s *Summary) Merge(other Summary) {
	s.Kept += other.Kept
	s.Dropped += other.Dropped
	s.Queued += other.Queued
	s.Unresolved += other.Unresolved
	s.KeptDuration += other.KeptDuration
	s.DroppedDuration += other.DroppedDuration
}

// Summarize folds a decision set into its summary counts.
func Summarize(decisions []Decision) Summary {
	var s Summary
	for _, d := range decisions {
		switch {
		case d.Outcome == OutcomeKept:
			s.Kept++
			s.KeptDuration += d.Candidate.Duration()
		case d.Outcome == OutcomeQueued:
			s.Queued++
		case d.Reason == ReasonNoSpeaker || d.Reason == ReasonMultipleSpeakers:
			s.Unresolved++
			s.DroppedDuration += d.Candidate.Duration()
		default:
			s.Dropped++
			s.DroppedDuration += d.Candidate.Duration()
		}
	}
	return s
}
