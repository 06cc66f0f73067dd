package label

import (
	"log/slog"

	"plenum/internal/align"
	"plenum/internal/config"
	"plenum/internal/corpus"
	"plenum/internal/langid"
	"plenum/internal/logging"
	"plenum/internal/session"
	"plenum/internal/speaker"
)

// Labeler turns reconciliation results into accept/reject/queue decisions.
// Duration bounds and language codes come from configuration.
type Labeler struct {
	minDuration session.Centiseconds
	maxDuration session.Centiseconds
	majority    string
	minority    string
	logger      *slog.Logger
}

// New builds a labeler from the label and language configuration sections.
func New(cfg config.Label, lang config.Language, logger *slog.Logger) *Labeler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Labeler{
		minDuration: session.Centiseconds(cfg.MinDurationSeconds*100 + 0.5),
		maxDuration: session.Centiseconds(cfg.MaxDurationSeconds*100 + 0.5),
		majority:    lang.Majority,
		minority:    lang.Minority,
		logger:      logger,
	}
}

// Label decides every reconciled candidate for one session. Candidates
// sharing a (start, end) boundary with an earlier candidate are rejected so
// utterance ids stay unique within the session.
func (l *Labeler) Label(ref *align.Reference, results []align.Result) []Decision {
	type boundary struct{ start, end session.Centiseconds }
	seen := make(map[boundary]bool, len(results))

	decisions := make([]Decision, 0, len(results))
	for _, res := range results {
		d := l.decide(ref, res)
		key := boundary{res.Candidate.Start, res.Candidate.End}
		if d.Outcome == OutcomeKept && seen[key] {
			d = Decision{
				Candidate: res.Candidate,
				Outcome:   OutcomeDropped,
				Reason:    ReasonDuplicateBoundary,
				EditRate:  res.EditRate,
				Speaker:   d.Speaker,
				Language:  d.Language,
			}
		}
		if d.Outcome == OutcomeKept {
			seen[key] = true
		}
		if d.Outcome != OutcomeKept {
			l.logger.Debug("candidate not kept",
				logging.String(logging.FieldUttID, res.Candidate.UttID),
				logging.String(logging.FieldReason, string(d.Reason)))
		}
		decisions = append(decisions, d)
	}
	return decisions
}

func (l *Labeler) decide(ref *align.Reference, res align.Result) Decision {
	d := Decision{Candidate: res.Candidate, EditRate: res.EditRate}

	switch res.Class {
	case align.ClassNeedsRealignment:
		d.Outcome = OutcomeQueued
		d.Reason = ReasonRealignment
		return d
	case align.ClassUnrecoverable:
		d.Outcome = OutcomeDropped
		d.Reason = ReasonUnrecoverable
		return d
	}

	d.Speaker = ref.SpanSpeaker(res.RefStart, res.RefEnd)
	d.Language = ref.SpanLanguage(res.RefStart, res.RefEnd, l.majority, l.minority)

	duration := res.Candidate.Duration()
	switch {
	case duration < l.minDuration:
		d.Outcome = OutcomeDropped
		d.Reason = ReasonTooShort
	case duration > l.maxDuration:
		d.Outcome = OutcomeDropped
		d.Reason = ReasonTooLong
	case d.Speaker == speaker.None:
		d.Outcome = OutcomeDropped
		d.Reason = ReasonNoSpeaker
	case d.Speaker == speaker.Unresolved:
		d.Outcome = OutcomeDropped
		d.Reason = ReasonMultipleSpeakers
	case langid.Contains(d.Language, l.minority):
		d.Outcome = OutcomeDropped
		d.Reason = ReasonMinorityLanguage
	default:
		rec, err := corpus.NewRecord(res.Candidate.Session, d.Speaker,
			res.Candidate.Start, res.Candidate.End, res.Candidate.Hypothesis())
		if err != nil {
			d.Outcome = OutcomeDropped
			d.Reason = ReasonUnrecoverable
			return d
		}
		d.Outcome = OutcomeKept
		d.Record = &rec
	}
	return d
}
