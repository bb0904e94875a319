package painlog

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// PainType describes the quality of the pain
type PainType string

const (
	PainSharp     PainType = "sharp"
	PainDull      PainType = "dull"
	PainAching    PainType = "aching"
	PainBurning   PainType = "burning"
	PainStabbing  PainType = "stabbing"
	PainThrobbing PainType = "throbbing"
)

// Cause describes what the user believes triggered the pain
type Cause string

const (
	CauseInjury       Cause = "injury"
	CauseOveruse      Cause = "overuse"
	CauseUnknown      Cause = "unknown"
	CauseWokeUpWithIt Cause = "woke_up_with_it"
	CauseActivity     Cause = "activity"
)

// Entry is a single user-logged pain record. Entries are immutable once
// created; updates replace the whole record by ID.
type Entry struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Time        string   `json:"time"` // HH:MM:SS
	BodyPart    string   `json:"body_part"`
	Severity    int      `json:"severity"` // 1-10
	PainType    PainType `json:"pain_type"`
	Cause       Cause    `json:"cause"`
	Activity    string   `json:"activity,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Photos      []string `json:"photos,omitempty"` // opaque references
}

// SortKey returns a lexicographically sortable chronological key
func (e Entry) SortKey() string {
	return e.Date + " " + e.Time
}

// ParseDate returns the entry's calendar date
func (e Entry) ParseDate() (time.Time, error) {
	return time.Parse("2006-01-02", e.Date)
}

var (
	ErrInvalidSeverity = errors.New("severity must be between 1 and 10")
	ErrUnknownBodyPart = errors.New("unknown body part")
	ErrInvalidDate     = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidTime     = errors.New("time must be formatted as HH:MM:SS")
)

var validPainTypes = map[PainType]bool{
	PainSharp:     true,
	PainDull:      true,
	PainAching:    true,
	PainBurning:   true,
	PainStabbing:  true,
	PainThrobbing: true,
}

var validCauses = map[Cause]bool{
	CauseInjury:       true,
	CauseOveruse:      true,
	CauseUnknown:      true,
	CauseWokeUpWithIt: true,
	CauseActivity:     true,
}

// Validate checks an entry against the model's invariants
func (e Entry) Validate() error {
	if e.Severity < 1 || e.Severity > 10 {
		return ErrInvalidSeverity
	}
	if !KnownBodyPart(e.BodyPart) {
		return fmt.Errorf("%w: %q", ErrUnknownBodyPart, e.BodyPart)
	}
	if !validPainTypes[e.PainType] {
		return fmt.Errorf("invalid pain type %q", e.PainType)
	}
	if !validCauses[e.Cause] {
		return fmt.Errorf("invalid cause %q", e.Cause)
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return ErrInvalidDate
	}
	if _, err := time.Parse("15:04:05", e.Time); err != nil {
		return ErrInvalidTime
	}
	return nil
}

// SortChronological returns a copy of entries ordered oldest to newest by
// date+time. The sort is stable so entries sharing a timestamp keep their
// provided order, which keeps tie-breaks in downstream analysis reproducible.
func SortChronological(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortKey() < sorted[j].SortKey()
	})
	return sorted
}
