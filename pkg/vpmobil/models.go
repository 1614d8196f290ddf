package vpmobil

import (
	"fmt"
	"strings"
	"time"
)

// Credentials identify a school account on stundenplan24.de
type Credentials struct {
	SchoolCode int
	Username   string
	Password   string
}

// Validate checks the credentials the same way the service would reject them early.
func (c Credentials) Validate() error {
	if c.SchoolCode <= 0 {
		return fmt.Errorf("%w: school code must be a positive integer, got %d", ErrInvalidArgument, c.SchoolCode)
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("%w: username and password cannot be empty", ErrInvalidArgument)
	}
	return nil
}

// FetchRequest asks for the plan of a single calendar day
type FetchRequest struct {
	Date        time.Time
	Credentials Credentials
}

// FileName is the feed document name for the request date, e.g. "PlanKl20261017.xml"
func (r FetchRequest) FileName() string {
	return feedFileName(r.Date)
}

func feedFileName(date time.Time) string {
	return fmt.Sprintf("PlanKl%s.xml", date.Format("20060102"))
}

// RawFeed is the generic tree decoded from a feed document.
// Values are strings, nested RawFeed-shaped maps or []interface{} for repeated elements.
type RawFeed map[string]interface{}

// OffDay is a day without lessons reported by the feed
type OffDay struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label,omitempty"`
}

// TimeOfDay is a wall clock time. The zero value means the feed gave no time.
type TimeOfDay struct {
	Hour   int
	Minute int
	Valid  bool
}

// ParseTimeOfDay accepts "H:MM" or "HH:MM". It returns an invalid TimeOfDay for anything else.
func ParseTimeOfDay(s string) TimeOfDay {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeOfDay{}
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Valid: true}
}

func (t TimeOfDay) String() string {
	if !t.Valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On places the time of day on the given date in loc
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, loc)
}

// MarshalText renders the time as "HH:MM" (empty when unset)
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ChangeSet marks which lesson fields differ from the regular plan
type ChangeSet struct {
	Subject bool `json:"subject,omitempty"`
	Teacher bool `json:"teacher,omitempty"`
	Room    bool `json:"room,omitempty"`
}

// Any reports whether at least one field changed
func (c ChangeSet) Any() bool {
	return c.Subject || c.Teacher || c.Room
}

// Lesson represents a single entry of a class plan
type Lesson struct {
	Period       string    `json:"period"`       // "1", "2a"
	Subject      string    `json:"subject"`      // short code, e.g. "MA"
	Teacher      string    `json:"teacher"`      // may be empty if unassigned
	Room         string    `json:"room"`         // may be empty
	Start        TimeOfDay `json:"start"`
	End          TimeOfDay `json:"end"`
	CourseNumber string    `json:"course_number,omitempty"`
	Info         string    `json:"info,omitempty"` // substitution note
	Changed      bool      `json:"changed"`
	Changes      ChangeSet `json:"changes"`
}

// Cancelled reports whether the lesson was marked as changed and has no subject left
func (l Lesson) Cancelled() bool {
	return l.Changed && (l.Subject == "" || l.Subject == "---")
}

// PeriodTime is the regular time slot of a period for one class
type PeriodTime struct {
	Period string    `json:"period"`
	Start  TimeOfDay `json:"start"`
	End    TimeOfDay `json:"end"`
}

// ClassSchedule holds the lessons of one class in feed order
type ClassSchedule struct {
	Name    string       `json:"name"`
	Lessons []Lesson     `json:"lessons"`
	Periods []PeriodTime `json:"periods,omitempty"`
}

// Header carries the metadata of the feed's Kopf section
type Header struct {
	PlanType     string `json:"plan_type,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
	PlanDate     string `json:"plan_date,omitempty"`
	FileName     string `json:"file_name,omitempty"`
	SchoolNumber string `json:"school_number,omitempty"`
	DaysPerWeek  int    `json:"days_per_week,omitempty"`
}
