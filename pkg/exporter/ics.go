package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"vpctl/pkg/vpmobil"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// GenerateICS writes one event per lesson of the timetable on the given date.
// Lessons without start or end time are skipped.
func GenerateICS(tt *vpmobil.ClassTimetable, date time.Time, w io.Writer) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//vpctl//VpMobil timetable//DE")

	// Timezone location for Germany
	loc := vpmobil.Location()

	now := time.Now()
	for i, l := range tt.Timetable() {
		if !l.Start.Valid || !l.End.Valid || l.Cancelled() {
			continue
		}

		startTime := l.Start.On(date, loc)
		endTime := l.End.On(date, loc)

		event := cal.AddEvent(eventUID(tt.ClassName(), date, l, i))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetModifiedAt(now)
		event.SetStartAt(startTime)
		event.SetEndAt(endTime)
		event.SetSummary(summary(l))
		event.SetLocation(l.Room)
		event.SetDescription(description(tt.ClassName(), l))
	}

	return cal.SerializeTo(w)
}

// eventUID is stable across exports so calendar apps update instead of duplicating
func eventUID(class string, date time.Time, l vpmobil.Lesson, i int) string {
	key := fmt.Sprintf("%s|%s|%s|%d", class, date.Format("20060102"), l.Period, i)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + "@vpctl"
}

func summary(l vpmobil.Lesson) string {
	if l.Teacher == "" {
		return l.Subject
	}
	return fmt.Sprintf("%s (%s)", l.Subject, l.Teacher)
}

func description(class string, l vpmobil.Lesson) string {
	lines := []string{
		fmt.Sprintf("Class: %s", class),
		fmt.Sprintf("Period: %s", l.Period),
	}
	if l.Changed {
		lines = append(lines, "Changed")
	}
	if l.Info != "" {
		lines = append(lines, l.Info)
	}
	return strings.Join(lines, "\n")
}
