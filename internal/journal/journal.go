package journal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aidanlsb/insight/internal/model"
)

// ErrDuplicateDate is returned when adding an entry whose date is already used.
var ErrDuplicateDate = errors.New("an entry with this date already exists")

// ErrEntryNotFound is returned when no entry has the requested date.
var ErrEntryNotFound = errors.New("entry not found")

// DuplicateDatesError reports dates used by more than one entry of a stored
// journal.
type DuplicateDatesError struct {
	Dates []string
}

func (e *DuplicateDatesError) Error() string {
	return fmt.Sprintf("journal has more than one entry dated %s", strings.Join(e.Dates, ", "))
}

func (e *DuplicateDatesError) Unwrap() error { return ErrDuplicateDate }

// Extractor fills in the references of an entry from its text.
type Extractor interface {
	Extract(entry *model.Entry)
}

// Journal is an ordered collection of entries keyed by date.
type Journal struct {
	entries []*model.Entry
}

// New returns a journal holding entries in the given order. Dates must be
// unique; every repeated date is listed in a *DuplicateDatesError.
func New(entries []*model.Entry) (*Journal, error) {
	j := &Journal{}
	var dup []string
	for _, e := range entries {
		if err := j.Add(e); err != nil {
			if !containsDate(dup, e.Date) {
				dup = append(dup, e.Date)
			}
		}
	}
	if len(dup) > 0 {
		return nil, &DuplicateDatesError{Dates: dup}
	}
	return j, nil
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

// Entries returns the entries in journal order.
func (j *Journal) Entries() []*model.Entry {
	return append([]*model.Entry(nil), j.entries...)
}

// Len returns the number of entries.
func (j *Journal) Len() int { return len(j.entries) }

// Dates returns the entry dates in journal order.
func (j *Journal) Dates() []string {
	dates := make([]string, len(j.entries))
	for i, e := range j.entries {
		dates[i] = e.Date
	}
	return dates
}

// Add appends an entry. Dates are unique within a journal.
func (j *Journal) Add(entry *model.Entry) error {
	if _, ok := j.Find(entry.Date); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDate, entry.Date)
	}
	j.entries = append(j.entries, entry)
	return nil
}

// Find returns the entry with the given date.
func (j *Journal) Find(date string) (*model.Entry, bool) {
	i := j.indexOf(date)
	if i < 0 {
		return nil, false
	}
	return j.entries[i], true
}

// Replace swaps the entry with the same date for entry, keeping its position.
func (j *Journal) Replace(entry *model.Entry) error {
	i := j.indexOf(entry.Date)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, entry.Date)
	}
	j.entries[i] = entry
	return nil
}

// Upsert replaces the entry with the same date or appends entry when there is none.
// It reports whether an existing entry was replaced.
func (j *Journal) Upsert(entry *model.Entry) bool {
	if i := j.indexOf(entry.Date); i >= 0 {
		j.entries[i] = entry
		return true
	}
	j.entries = append(j.entries, entry)
	return false
}

// Remove deletes the entry with the given date.
func (j *Journal) Remove(date string) error {
	i := j.indexOf(date)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, date)
	}
	j.entries = append(j.entries[:i], j.entries[i+1:]...)
	return nil
}

func (j *Journal) indexOf(date string) int {
	for i, e := range j.entries {
		if e.Date == date {
			return i
		}
	}
	return -1
}

// ExtractAll re-runs extraction over every entry, replacing earlier results.
func ExtractAll(x Extractor, entries []*model.Entry) {
	for _, e := range entries {
		x.Extract(e)
	}
}
