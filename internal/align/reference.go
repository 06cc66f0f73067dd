package align

import (
	"strings"

	"plenum/internal/langid"
	"plenum/internal/speaker"
)

// TurnInfo carries the attribution a reference span inherits from the turn
// its words came from.
type TurnInfo struct {
	Index    int
	Speaker  speaker.ID
	Language string
}

// Reference is a session's canonical transcript flattened into one word
// sequence with per-word turn attribution. Span lookups drive the speaker
// and language labels of reconciled candidates.
type Reference struct {
	words  []string
	turnOf []int
	turns  []TurnInfo
}

// NewReference returns an empty reference transcript.
func NewReference() *Reference {
	return &Reference{}
}

// AddTurn appends one normalized turn's words to the reference.
func (r *Reference) AddTurn(info TurnInfo, text string) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}
	turn := len(r.turns)
	r.turns = append(r.turns, info)
	for _, word := range words {
		r.words = append(r.words, word)
		r.turnOf = append(r.turnOf, turn)
	}
}

// Len returns the total reference word count.
func (r *Reference) Len() int {
	return len(r.words)
}

// Span returns the reference words in [start, end).
func (r *Reference) Span(start, end int) []string {
	return r.words[start:end]
}

// SpanText returns the reference words in [start, end) joined into a string.
func (r *Reference) SpanText(start, end int) string {
	return strings.Join(r.words[start:end], " ")
}

// TurnAt returns the turn attribution of the word at offset i.
func (r *Reference) TurnAt(i int) TurnInfo {
	return r.turns[r.turnOf[i]]
}

// SpanSpeaker resolves the speaker of the span [start, end). A span drawn
// from a single turn, or from turns sharing one speaker, gets that speaker.
// A span that only brushes a no-speaker turn with a single word keeps the
// dominant speaker. Anything else is Unresolved.
func (r *Reference) SpanSpeaker(start, end int) speaker.ID {
	counts := make(map[speaker.ID]int)
	for i := start; i < end; i++ {
		counts[r.TurnAt(i).Speaker]++
	}
	delete(counts, speaker.Unresolved)
	if n, ok := counts[speaker.None]; ok && len(counts) == 2 && n < 2 {
		delete(counts, speaker.None)
	}
	if len(counts) != 1 {
		return speaker.Unresolved
	}
	for id := range counts {
		return id
	}
	return speaker.Unresolved
}

// SpanLanguage merges the declared languages of the turns covering
// [start, end). Majority and minority both present yields the mixed label.
func (r *Reference) SpanLanguage(start, end int, majority, minority string) string {
	var hasMajority, hasMinority, predicted bool
	for i := start; i < end; i++ {
		label := r.TurnAt(i).Language
		if langid.Contains(label, minority) {
			hasMinority = true
		} else {
			hasMajority = true
		}
		predicted = predicted || langid.IsPredicted(label)
	}
	var label string
	switch {
	case hasMajority && hasMinority:
		label = langid.Mixed(majority, minority)
	case hasMinority:
		label = minority
	default:
		label = majority
	}
	if predicted {
		return langid.Predicted(label)
	}
	return label
}
