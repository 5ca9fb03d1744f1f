package manifest

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle of an extraction unit.
type Status string

const (
	StatusPending    Status = "pending"
	StatusFetching   Status = "fetching"
	StatusIndexing   Status = "indexing"
	StatusExtracting Status = "extracting"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusFetching,
	StatusIndexing,
	StatusExtracting,
	StatusCompleted,
	StatusFailed,
}

var statusRank = map[Status]int{
	StatusPending:    0,
	StatusFetching:   1,
	StatusIndexing:   2,
	StatusExtracting: 3,
	StatusCompleted:  4,
	StatusFailed:     4,
}

var inFlightStatuses = map[Status]struct{}{
	StatusFetching:   {},
	StatusIndexing:   {},
	StatusExtracting: {},
}

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
	_, ok := statusRank[normalized]
	return normalized, ok
}

// IsInFlight reports whether the status reflects an interrupted-able
// operation that must be restarted from the beginning after a crash.
func (s Status) IsInFlight() bool {
	_, ok := inFlightStatuses[s]
	return ok
}

// IsTerminal reports whether the status ends a unit's processing.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next respects the monotonic
// unit lifecycle. Failed units may be reset to pending for a retry; completed
// units only reopen through an explicit Clear.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	if s == StatusFailed && next == StatusPending {
		return true
	}
	if s == StatusCompleted {
		return false
	}
	return statusRank[next] > statusRank[s]
}

// Key identifies one extraction unit.
type Key struct {
	Subject     string
	Performance string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Subject, k.Performance)
}

// Entry is one persisted manifest row.
type Entry struct {
	Subject          string
	Performance      string
	Status           Status
	CamerasExtracted int
	FrameCount       int
	SizeBytes        int64
	ErrorMessage     string
	RetryEligible    bool
	Attempts         int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Key returns the unit key of the entry.
func (e *Entry) Key() Key {
	return Key{Subject: e.Subject, Performance: e.Performance}
}

// Summary aggregates manifest counts per lifecycle state.
type Summary struct {
	Total     int
	Pending   int
	InFlight  int
	Completed int
	Failed    int
}
