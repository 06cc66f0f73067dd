package align

import (
	"log/slog"
	"math"

	"plenum/internal/config"
	"plenum/internal/logging"
)

// Class is the reconciliation verdict for one candidate.
type Class int

const (
	// ClassAccurate marks a candidate whose hypothesis matched a reference
	// span with zero edits.
	ClassAccurate Class = iota
	// ClassNeedsRealignment marks a near match worth a second alignment
	// pass with corrected boundaries.
	ClassNeedsRealignment
	// ClassUnrecoverable marks a candidate with no plausible reference span
	// or too many edits against its best match.
	ClassUnrecoverable
)

func (c Class) String() string {
	switch c {
	case ClassAccurate:
		return "accurate"
	case ClassNeedsRealignment:
		return "needs-realignment"
	case ClassUnrecoverable:
		return "unrecoverable"
	default:
		return "unknown"
	}
}

// Result pairs a candidate with its verdict and the reference span evidence
// behind it. RefStart and RefEnd are word offsets into the session
// reference; they are zero for unrecoverable candidates without a span.
type Result struct {
	Candidate Candidate
	Class     Class
	EditRate  float64
	RefStart  int
	RefEnd    int
}

// Matched reports whether a reference span was found for the candidate.
func (r Result) Matched() bool {
	return r.RefEnd > r.RefStart
}

// Reconciler classifies decoder candidates against a session reference.
// Thresholds and search bounds come from configuration; a Reconciler holds
// no per-session state and is safe to share across sessions.
type Reconciler struct {
	realignRate float64
	maxRate     float64
	window      int
	prefix      int
	minRun      int
	logger      *slog.Logger
}

// endSlack extends the reference slice past the expected span end so the
// prefix alignment can absorb boundary drift.
const endSlack = 100

// NewReconciler builds a reconciler from the reconcile configuration.
func NewReconciler(cfg config.Reconcile, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{
		realignRate: cfg.RealignEditRate,
		maxRate:     cfg.MaxEditRate,
		window:      cfg.SearchWindow,
		prefix:      cfg.MatchPrefix,
		minRun:      cfg.MinMatchRun,
		logger:      logger,
	}
}

// Reconcile classifies every candidate against the reference. Candidates are
// assumed to be in session time order; their rank drives the positional
// tie-break between equally scored spans.
func (r *Reconciler) Reconcile(ref *Reference, candidates []Candidate) []Result {
	results := make([]Result, 0, len(candidates))
	for i, cand := range candidates {
		expected := expectedOffset(i, len(candidates), ref.Len())
		results = append(results, r.reconcileOne(ref, cand, expected))
	}
	return results
}

func (r *Reconciler) reconcileOne(ref *Reference, cand Candidate, expected float64) Result {
	result := Result{Candidate: cand, Class: ClassUnrecoverable, EditRate: 1}
	if len(cand.Words) == 0 || ref.Len() == 0 {
		r.logger.Debug("candidate has no matchable words",
			logging.String(logging.FieldUttID, cand.UttID))
		return result
	}
	span, ok := r.bestSpan(ref, cand.Words, expected)
	if !ok {
		r.logger.Debug("no plausible reference span",
			logging.String(logging.FieldUttID, cand.UttID))
		return result
	}
	result.EditRate = span.rate
	result.RefStart = span.start
	result.RefEnd = span.end
	switch {
	case span.rate == 0:
		result.Class = ClassAccurate
	case span.rate <= r.realignRate:
		result.Class = ClassNeedsRealignment
	default:
		result.Class = ClassUnrecoverable
	}
	return result
}

type span struct {
	start int
	end   int
	rate  float64
}

// bestSpan slides a bounded window over the reference, anchors candidate
// spans on common word runs with the hypothesis prefix, and scores each span
// with the prefix-aligned edit rate. Spans above the max edit rate are not
// plausible matches. Equal rates break toward the span closest to the
// candidate's expected position in the reference.
func (r *Reconciler) bestSpan(ref *Reference, hyp []string, expected float64) (span, bool) {
	probeLen := len(hyp)
	if probeLen > r.prefix {
		probeLen = r.prefix
	}
	probe := hyp[:probeLen]
	minRun := r.minRun
	if minRun > probeLen {
		minRun = probeLen
	}
	step := r.window - r.window/4
	if step < 1 {
		step = 1
	}

	best := span{rate: math.Inf(1)}
	found := false
	seen := make(map[int]bool)
	for winStart := 0; ; winStart += step {
		winEnd := winStart + r.window
		if winEnd > ref.Len() {
			winEnd = ref.Len()
		}
		for _, a := range commonRuns(ref.Span(winStart, winEnd), probe, minRun) {
			spanStart := winStart + a.windowOff - a.probeOff
			if spanStart < 0 {
				spanStart = 0
			}
			if seen[spanStart] {
				continue
			}
			seen[spanStart] = true
			sliceEnd := spanStart + len(hyp) + endSlack
			if sliceEnd > ref.Len() {
				sliceEnd = ref.Len()
			}
			n, distance := bestPrefixAlignment(hyp, ref.Span(spanStart, sliceEnd))
			if n == 0 {
				continue
			}
			candidate := span{
				start: spanStart,
				end:   spanStart + n,
				rate:  float64(distance) / float64(n),
			}
			if candidate.rate > r.maxRate {
				continue
			}
			if !found || candidate.rate < best.rate ||
				(candidate.rate == best.rate && closer(candidate, best, expected)) {
				best = candidate
				found = true
			}
		}
		if winEnd == ref.Len() {
			break
		}
	}
	return best, found
}

// closer reports whether a lies nearer the expected reference offset than b.
func closer(a, b span, expected float64) bool {
	return math.Abs(float64(a.start)-expected) < math.Abs(float64(b.start)-expected)
}

// expectedOffset spreads candidate ranks evenly over the reference words so
// ties preserve the session's turn ordering.
func expectedOffset(rank, total, refLen int) float64 {
	if total <= 1 || refLen == 0 {
		return 0
	}
	return float64(rank) / float64(total-1) * float64(refLen-1)
}
