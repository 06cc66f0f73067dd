package corpus

import (
	"fmt"
	"strings"

	"plenum/internal/session"
	"plenum/internal/speaker"
)

// Record is one accepted corpus segment. The utterance id encodes speaker,
// session and boundaries, so two records with the same id and different
// fields can only come from divergent pipeline runs.
type Record struct {
	UttID   string
	Session session.ID
	Speaker speaker.ID
	Start   session.Centiseconds
	End     session.Centiseconds
	Text    string
}

// NewRecord forms a record with its canonical utterance id. The speaker must
// be resolved and the boundaries ordered.
func NewRecord(id session.ID, spk speaker.ID, start, end session.Centiseconds, text string) (Record, error) {
	if !spk.Resolved() {
		return Record{}, fmt.Errorf("record speaker %d is not resolved", spk)
	}
	if start >= end {
		return Record{}, fmt.Errorf("record start %s not before end %s", start.FormatSeconds(), end.FormatSeconds())
	}
	// The electoral term is derived from configuration when audio paths are
	// written; keeping it out of records keeps merges comparable.
	return Record{
		UttID:   session.FormUtteranceID(int64(spk), id, start, end),
		Session: id.WithTerm(0),
		Speaker: spk,
		Start:   start,
		End:     end,
		Text:    strings.TrimSpace(text),
	}, nil
}

// ParseRecord rebuilds a record from its utterance id and text, validating
// that the id's encoded fields are well formed.
func ParseRecord(uttID, text string) (Record, error) {
	spk, id, start, end, err := session.ParseUtteranceID(uttID)
	if err != nil {
		return Record{}, err
	}
	return Record{
		UttID:   uttID,
		Session: id,
		Speaker: speaker.ID(spk),
		Start:   start,
		End:     end,
		Text:    strings.TrimSpace(text),
	}, nil
}

// Equal reports whether two records agree on every field.
func (r Record) Equal(other Record) bool {
	return r == other
}

// Duration returns the record's audio length.
func (r Record) Duration() session.Centiseconds {
	return r.End - r.Start
}
