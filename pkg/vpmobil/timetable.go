package vpmobil

import "strings"

// ClassTimetable is a read-only view over the lessons of one class
type ClassTimetable struct {
	name    string
	lessons []Lesson
	periods []PeriodTime
}

func newClassTimetable(cs *ClassSchedule) *ClassTimetable {
	return &ClassTimetable{
		name:    cs.Name,
		lessons: append([]Lesson{}, cs.Lessons...),
		periods: append([]PeriodTime{}, cs.Periods...),
	}
}

// ClassName returns the name of the class, e.g. "10a"
func (t *ClassTimetable) ClassName() string {
	return t.name
}

// Timetable returns all lessons in feed order
func (t *ClassTimetable) Timetable() []Lesson {
	return append([]Lesson{}, t.lessons...)
}

// Periods returns the regular period slots of the class
func (t *ClassTimetable) Periods() []PeriodTime {
	return append([]PeriodTime{}, t.periods...)
}

// LessonsByPeriod returns the lessons whose period equals period exactly
func (t *ClassTimetable) LessonsByPeriod(period string) []Lesson {
	return t.filter(func(l Lesson) bool { return l.Period == period })
}

// LessonsBySubject returns the lessons whose subject equals subject exactly (case-sensitive)
func (t *ClassTimetable) LessonsBySubject(subject string) []Lesson {
	return t.filter(func(l Lesson) bool { return l.Subject == subject })
}

// SearchSubject matches subjects containing query, ignoring case
func (t *ClassTimetable) SearchSubject(query string) []Lesson {
	q := strings.ToLower(query)
	return t.filter(func(l Lesson) bool { return strings.Contains(strings.ToLower(l.Subject), q) })
}

// ChangedLessons returns substituted, moved or cancelled lessons
func (t *ClassTimetable) ChangedLessons() []Lesson {
	return t.filter(func(l Lesson) bool { return l.Changed })
}

func (t *ClassTimetable) filter(keep func(Lesson) bool) []Lesson {
	out := []Lesson{}
	for _, l := range t.lessons {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
