package corpus

import (
	"fmt"
	"strconv"
	"strings"

	"plenum/internal/session"
)

// AudioTemplate expands a configured path template into per-session audio
// paths. Sessions without a known electoral term fail expansion when the
// template asks for one.
type AudioTemplate struct {
	template string
	termFor  func(year int) int
}

// NewAudioTemplate builds a pather from the template string and a
// year-to-term mapping. termFor returning zero means the year has no term.
func NewAudioTemplate(template string, termFor func(year int) int) AudioTemplate {
	return AudioTemplate{template: template, termFor: termFor}
}

// AudioPath expands the template for one session.
func (t AudioTemplate) AudioPath(id session.ID) (string, error) {
	out := t.template
	if strings.Contains(out, "{term}") {
		term := id.Term
		if term == 0 && t.termFor != nil {
			term = t.termFor(id.Year)
		}
		if term == 0 {
			return "", fmt.Errorf("no electoral term configured for year %d", id.Year)
		}
		out = strings.ReplaceAll(out, "{term}", strconv.Itoa(term))
	}
	out = strings.ReplaceAll(out, "{year}", strconv.Itoa(id.Year))
	out = strings.ReplaceAll(out, "{number}", fmt.Sprintf("%03d", id.Number))
	out = strings.ReplaceAll(out, "{session}", id.String())
	return out, nil
}
