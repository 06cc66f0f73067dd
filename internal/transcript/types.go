package transcript

import (
	"strings"

	"plenum/internal/session"
)

// Statement types as printed in the official transcripts: long MP statements
// carry timestamps and language, short statements appear in voting sessions,
// chairman statements have only name, title and text.
const (
	TypeLong     = "L"
	TypeShort    = "S"
	TypeChairman = "C"
)

// EmbeddedMarker is the placeholder the transcript office leaves in a long
// statement's text where an embedded chairman comment was spoken.
const EmbeddedMarker = "#ch_statement"

// Turn is one speech turn in transcript order.
type Turn struct {
	Index     int
	Type      string
	MPID      int64
	Firstname string
	Lastname  string
	Party     string
	Title     string
	// Language is the declared label ("fi", "sv", "fi+sv"); a ".p" suffix
	// marks a predicted rather than transcript-declared label. Empty means
	// classification is still pending.
	Language string
	Text     string
	// Embedded marks a chairman comment that was split out of a surrounding
	// long statement.
	Embedded bool
}

// SpeakerName returns the printed speaker name, empty when the transcript
// recorded none.
func (t Turn) SpeakerName() string {
	name := strings.TrimSpace(strings.TrimSpace(t.Firstname) + " " + strings.TrimSpace(t.Lastname))
	return name
}

// HasSpeaker reports whether the transcript printed any speaker name.
func (t Turn) HasSpeaker() bool {
	return t.SpeakerName() != ""
}

// LanguageDeclared reports whether a language label is present, predicted or
// not.
func (t Turn) LanguageDeclared() bool {
	return strings.TrimSpace(t.Language) != ""
}

// Document is one parsed session transcript.
type Document struct {
	Session   session.ID
	BeginTime string
	Turns     []Turn
	// Skipped counts statements dropped because of malformed markup.
	Skipped int
}
