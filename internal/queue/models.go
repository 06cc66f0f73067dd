package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a session in the store.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusLabeled    Status = "labeled"
	StatusFailed     Status = "failed"
	StatusAssembled  Status = "assembled"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusLabeled,
	StatusFailed,
	StatusAssembled,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// SessionState is one session row persisted in SQLite.
type SessionState struct {
	Session        string
	Status         Status
	RunID          string
	ErrorMessage   string
	Kept           int
	Dropped        int
	Queued         int
	Unresolved     int
	KeptSeconds    float64
	DroppedSeconds float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsProcessing reports whether the session is mid-run.
func (s SessionState) IsProcessing() bool {
	return s.Status == StatusProcessing
}

// Summary aggregates session counts per lifecycle state.
type Summary struct {
	Total      int
	Pending    int
	Processing int
	Labeled    int
	Failed     int
	Assembled  int
}
