package session

import (
	"fmt"
	"strconv"
	"strings"
)

// Centiseconds is an audio offset in hundredths of a second, the resolution
// the decoder reports segment boundaries in.
type Centiseconds int64

// Seconds converts the offset to floating-point seconds.
func (c Centiseconds) Seconds() float64 {
	return float64(c) / 100.0
}

// FormatSeconds renders the offset with two decimals, the form used in the
// corpus segment tables.
func (c Centiseconds) FormatSeconds() string {
	return strconv.FormatFloat(c.Seconds(), 'f', 2, 64)
}

// ParseSeconds parses a two-decimal seconds value into centiseconds.
func ParseSeconds(value string) (Centiseconds, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("parse seconds %q: %w", value, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("parse seconds %q: negative offset", value)
	}
	// Round instead of truncating so 1.20 stored as 1.1999... stays 120.
	return Centiseconds(f*100 + 0.5), nil
}

// FormUtteranceID builds the deterministic utterance id for an accepted
// segment: speaker id padded to five digits, canonical session string, and
// start/end centisecond offsets padded to eight digits. Lexicographic order
// of ids therefore follows (speaker, session, start, end).
func FormUtteranceID(speaker int64, id ID, start, end Centiseconds) string {
	return fmt.Sprintf("%05d-%s-%08d-%08d", speaker, id, start, end)
}

// ParseUtteranceID splits an utterance id back into its components.
func ParseUtteranceID(uttID string) (speaker int64, id ID, start, end Centiseconds, err error) {
	parts := strings.Split(strings.TrimSpace(uttID), "-")
	if len(parts) != 5 {
		return 0, ID{}, 0, 0, fmt.Errorf("utterance id %q: expected 5 dash-separated fields", uttID)
	}
	speaker, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, ID{}, 0, 0, fmt.Errorf("utterance id %q: speaker: %w", uttID, err)
	}
	id, err = Parse(parts[1] + "-" + parts[2])
	if err != nil {
		return 0, ID{}, 0, 0, fmt.Errorf("utterance id %q: %w", uttID, err)
	}
	startRaw, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return 0, ID{}, 0, 0, fmt.Errorf("utterance id %q: start: %w", uttID, err)
	}
	endRaw, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		return 0, ID{}, 0, 0, fmt.Errorf("utterance id %q: end: %w", uttID, err)
	}
	if startRaw >= endRaw {
		return 0, ID{}, 0, 0, fmt.Errorf("utterance id %q: start %d is not before end %d", uttID, startRaw, endRaw)
	}
	return speaker, id, Centiseconds(startRaw), Centiseconds(endRaw), nil
}
