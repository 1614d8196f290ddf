package vpmobil

import (
	"fmt"
	"strings"
	"time"
)

// Snapshot is the parsed plan of one school for one day. It is never modified
// after BuildSnapshot returns; every accessor hands out copies.
type Snapshot struct {
	date      time.Time
	header    Header
	offDays   []OffDay
	extraInfo []string
	classes   map[string]*ClassSchedule
	order     []string // class names in feed order
	raw       RawFeed
}

// Date is the plan date at midnight
func (s *Snapshot) Date() time.Time {
	return s.date
}

// Header returns the metadata of the feed
func (s *Snapshot) Header() Header {
	return s.header
}

// OffDays returns every off-day the feed reports. The service lists the free
// days of the surrounding school year, not only the queried date.
func (s *Snapshot) OffDays() []OffDay {
	return append([]OffDay{}, s.offDays...)
}

// IsOffDay reports whether date is one of the listed off-days
func (s *Snapshot) IsOffDay(date time.Time) bool {
	y, m, d := date.Date()
	for _, od := range s.offDays {
		oy, om, odd := od.Date.Date()
		if oy == y && om == m && odd == d {
			return true
		}
	}
	return false
}

// ExtraInfo returns the notice lines in feed order
func (s *Snapshot) ExtraInfo() []string {
	return append([]string{}, s.extraInfo...)
}

// ExtraInfoText joins the notice lines with newlines
func (s *Snapshot) ExtraInfoText() string {
	return strings.Join(s.extraInfo, "\n")
}

// Raw returns the decoded feed tree for callers that need unmapped fields.
// The tree is shared; callers must treat it as read-only.
func (s *Snapshot) Raw() RawFeed {
	return s.raw
}

// Classes returns the class names in the order the feed lists them
func (s *Snapshot) Classes() []string {
	return append([]string{}, s.order...)
}

// HasClass reports whether the plan lists a class of exactly that name
func (s *Snapshot) HasClass(name string) bool {
	_, ok := s.classes[name]
	return ok
}

// Class looks up a class by its exact, case-sensitive name
func (s *Snapshot) Class(name string) (*ClassTimetable, error) {
	cs, ok := s.classes[name]
	if !ok {
		return nil, fmt.Errorf("%w: class %q does not exist", ErrInvalidClassName, name)
	}
	return newClassTimetable(cs), nil
}
