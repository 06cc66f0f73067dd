package corpus

import (
	"sort"

	"plenum/internal/session"
	"plenum/internal/textnorm"
)

// Conflict reports two records that share an utterance id but disagree on
// content. Neither side reaches the merged output.
type Conflict struct {
	UttID string
	Kept  Record
	Other Record
}

// Assembler accumulates records from per-session outputs and previously
// merged tables. Adding the current merged output back in is a no-op, which
// makes assembly re-runnable.
type Assembler struct {
	records    map[string]Record
	poisoned   map[string]bool
	conflicts  []Conflict
	duplicates int
	vocabulary *textnorm.Vocabulary
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{
		records:    make(map[string]Record),
		poisoned:   make(map[string]bool),
		vocabulary: textnorm.NewVocabulary(),
	}
}

// Add merges one record. An exact duplicate of an already added record
// collapses silently. A record whose id is already present with different
// fields poisons the id: both records are excluded and the pair is reported
// as a conflict.
func (a *Assembler) Add(rec Record) {
	if a.poisoned[rec.UttID] {
		return
	}
	existing, ok := a.records[rec.UttID]
	if !ok {
		a.records[rec.UttID] = rec
		return
	}
	if existing.Equal(rec) {
		a.duplicates++
		return
	}
	a.poisoned[rec.UttID] = true
	delete(a.records, rec.UttID)
	a.conflicts = append(a.conflicts, Conflict{UttID: rec.UttID, Kept: existing, Other: rec})
}

// AddAll merges a batch of records.
func (a *Assembler) AddAll(recs []Record) {
	for _, rec := range recs {
		a.Add(rec)
	}
}

// MergeVocabulary folds a per-session vocabulary into the global one.
func (a *Assembler) MergeVocabulary(v *textnorm.Vocabulary) {
	a.vocabulary.Merge(v)
}

// Records returns the surviving records sorted by utterance id.
func (a *Assembler) Records() []Record {
	out := make([]Record, 0, len(a.records))
	for _, rec := range a.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UttID < out[j].UttID })
	return out
}

// Sessions returns the distinct sessions covered by surviving records,
// sorted by year and running number.
func (a *Assembler) Sessions() []session.ID {
	seen := make(map[session.ID]bool)
	for _, rec := range a.records {
		seen[rec.Session] = true
	}
	out := make([]session.ID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Conflicts returns the excluded record pairs in utterance-id order.
func (a *Assembler) Conflicts() []Conflict {
	out := make([]Conflict, len(a.conflicts))
	copy(out, a.conflicts)
	sort.Slice(out, func(i, j int) bool { return out[i].UttID < out[j].UttID })
	return out
}

// Duplicates returns the number of exact duplicates collapsed so far.
func (a *Assembler) Duplicates() int {
	return a.duplicates
}

// Vocabulary returns the merged vocabulary. Subtracting a stoplist is the
// caller's decision.
func (a *Assembler) Vocabulary() *textnorm.Vocabulary {
	return a.vocabulary
}

// Len returns the number of surviving records.
func (a *Assembler) Len() int {
	return len(a.records)
}
