package align

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"plenum/internal/session"
)

// RetryEntry queues one candidate boundary for a later alignment pass.
type RetryEntry struct {
	Session session.ID
	Start   session.Centiseconds
	End     session.Centiseconds
}

// RetryList holds queued boundaries keyed for fast membership checks.
type RetryList struct {
	entries map[RetryEntry]struct{}
}

// NewRetryList returns an empty retry list.
func NewRetryList() *RetryList {
	return &RetryList{entries: make(map[RetryEntry]struct{})}
}

// Add queues a boundary. Duplicates collapse.
func (l *RetryList) Add(entry RetryEntry) {
	l.entries[entry] = struct{}{}
}

// Contains reports whether the candidate's boundary is queued.
func (l *RetryList) Contains(c Candidate) bool {
	_, ok := l.entries[RetryEntry{Session: c.Session, Start: c.Start, End: c.End}]
	return ok
}

// Len returns the number of queued boundaries.
func (l *RetryList) Len() int {
	return len(l.entries)
}

// Entries returns the queued boundaries sorted by session, then start time.
func (l *RetryList) Entries() []RetryEntry {
	out := make([]RetryEntry, 0, len(l.entries))
	for entry := range l.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Session != out[j].Session {
			return out[i].Session.Before(out[j].Session)
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// WriteFile writes the retry list as "session start end" rows with times in
// seconds, one queued boundary per line.
func (l *RetryList) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create retry list: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, entry := range l.Entries() {
		fmt.Fprintf(w, "%s %s %s\n", entry.Session, entry.Start.FormatSeconds(), entry.End.FormatSeconds())
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write retry list: %w", err)
	}
	return nil
}

// ReadRetryList loads a retry list written by WriteFile. A missing file is
// an empty list.
func ReadRetryList(path string) (*RetryList, error) {
	list := NewRetryList()
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return list, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open retry list: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("retry list %s line %d: expected 3 fields, got %d", path, line, len(fields))
		}
		id, err := session.Parse(fields[0])
		if err != nil {
			return nil, fmt.Errorf("retry list %s line %d: %w", path, line, err)
		}
		start, err := session.ParseSeconds(fields[1])
		if err != nil {
			return nil, fmt.Errorf("retry list %s line %d: %w", path, line, err)
		}
		end, err := session.ParseSeconds(fields[2])
		if err != nil {
			return nil, fmt.Errorf("retry list %s line %d: %w", path, line, err)
		}
		list.Add(RetryEntry{Session: id, Start: start, End: end})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read retry list: %w", err)
	}
	return list, nil
}
