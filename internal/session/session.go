package session

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ID identifies one plenary session. Number is the running number within the
// working year. Term is the electoral term; zero when not yet resolved.
type ID struct {
	Term   int
	Year   int
	Number int
}

var idPattern = regexp.MustCompile(`(?:session-)?(\d{1,3})-(\d{4})$`)

// Parse extracts a session id from a canonical id string or a session file
// name such as "session-001-2015" or "001-2015". The electoral term is not
// encoded in either form and is left zero.
func Parse(value string) (ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ID{}, fmt.Errorf("session id: empty value")
	}
	hit := idPattern.FindStringSubmatch(trimmed)
	if hit == nil {
		return ID{}, fmt.Errorf("session id: %q does not match number-year form", value)
	}
	number, err := strconv.Atoi(hit[1])
	if err != nil {
		return ID{}, fmt.Errorf("session id: parse number: %w", err)
	}
	year, err := strconv.Atoi(hit[2])
	if err != nil {
		return ID{}, fmt.Errorf("session id: parse year: %w", err)
	}
	id := ID{Number: number, Year: year}
	if err := id.Validate(); err != nil {
		return ID{}, err
	}
	return id, nil
}

// Validate checks that the id fields form a plausible session key.
func (id ID) Validate() error {
	if id.Number <= 0 {
		return fmt.Errorf("session id: number must be positive, got %d", id.Number)
	}
	if id.Year < 1900 || id.Year > 2200 {
		return fmt.Errorf("session id: implausible year %d", id.Year)
	}
	return nil
}

// String renders the canonical session form used in file names and corpus
// tables, for example "001-2015".
func (id ID) String() string {
	return fmt.Sprintf("%03d-%d", id.Number, id.Year)
}

// FileStem returns the per-session file name stem, for example
// "session-001-2015".
func (id ID) FileStem() string {
	return "session-" + id.String()
}

// Before orders sessions by year then running number.
func (id ID) Before(other ID) bool {
	if id.Year != other.Year {
		return id.Year < other.Year
	}
	return id.Number < other.Number
}

// WithTerm returns a copy of the id carrying the given electoral term.
func (id ID) WithTerm(term int) ID {
	id.Term = term
	return id
}
