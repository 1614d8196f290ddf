package vpmobil

import (
	"fmt"
	"strconv"
	"time"
	_ "time/tzdata"
)

// rootElement is the envelope every plan document is wrapped in
const rootElement = "VpMobil"

// offDayLayout is the "yymmdd" format of FreieTage entries
const offDayLayout = "060102"

// BuildSnapshot maps a decoded feed onto the typed model.
// Absent sections produce empty collections. Only a missing envelope is an error.
func BuildSnapshot(feed RawFeed, date time.Time) (*Snapshot, error) {
	return buildSnapshot(feed, date, Location())
}

func buildSnapshot(feed RawFeed, date time.Time, loc *time.Location) (*Snapshot, error) {
	v, present := feed[rootElement]
	root, ok := asMap(v)
	if !ok {
		// <VpMobil/> decodes to an empty scalar
		if !present || text(v) != "" {
			return nil, fmt.Errorf("%w: missing %s envelope", ErrDataNotFound, rootElement)
		}
		root = map[string]interface{}{}
	}

	s := &Snapshot{
		date:      time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc),
		header:    parseHeader(root),
		offDays:   parseOffDays(root, loc),
		extraInfo: parseExtraInfo(root),
		classes:   make(map[string]*ClassSchedule),
		raw:       feed,
	}

	klassen, _ := child(root, "Klassen")
	for _, kl := range list(klassen["Kl"]) {
		cs, ok := parseClass(kl)
		if !ok {
			continue
		}
		if existing, dup := s.classes[cs.Name]; dup {
			// Repeated class nodes are merged into the first occurrence
			existing.Lessons = append(existing.Lessons, cs.Lessons...)
			continue
		}
		s.classes[cs.Name] = cs
		s.order = append(s.order, cs.Name)
	}

	return s, nil
}

func parseHeader(root map[string]interface{}) Header {
	kopf, ok := child(root, "Kopf")
	if !ok {
		return Header{}
	}
	days, _ := strconv.Atoi(text(kopf["tageprowoche"]))
	return Header{
		PlanType:     text(kopf["planart"]),
		Timestamp:    text(kopf["zeitstempel"]),
		PlanDate:     text(kopf["DatumPlan"]),
		FileName:     text(kopf["datei"]),
		SchoolNumber: text(kopf["schulnummer"]),
		DaysPerWeek:  days,
	}
}

func parseOffDays(root map[string]interface{}, loc *time.Location) []OffDay {
	offDays := []OffDay{}
	freieTage, ok := child(root, "FreieTage")
	if !ok {
		return offDays
	}

	seen := make(map[string]bool)
	for _, ft := range list(freieTage["ft"]) {
		raw := text(ft)
		if raw == "" || seen[raw] {
			continue
		}
		d, err := time.ParseInLocation(offDayLayout, raw, loc)
		if err != nil {
			continue
		}
		seen[raw] = true
		offDays = append(offDays, OffDay{Date: d})
	}
	return offDays
}

func parseExtraInfo(root map[string]interface{}) []string {
	lines := []string{}
	info, ok := child(root, "ZusatzInfo")
	if !ok {
		return lines
	}
	for _, z := range list(info["ZiZeile"]) {
		if line := text(z); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func parseClass(node interface{}) (*ClassSchedule, bool) {
	kl, ok := asMap(node)
	if !ok {
		return nil, false
	}
	name := text(kl["Kurz"])
	if name == "" {
		return nil, false
	}

	cs := &ClassSchedule{
		Name:    name,
		Lessons: []Lesson{},
		Periods: parsePeriods(kl),
	}

	slots := make(map[string]PeriodTime, len(cs.Periods))
	for _, p := range cs.Periods {
		slots[p.Period] = p
	}

	pl, _ := child(kl, "Pl")
	for _, std := range list(pl["Std"]) {
		lesson, ok := parseLesson(std)
		if !ok {
			continue
		}
		if slot, found := slots[lesson.Period]; found {
			if !lesson.Start.Valid {
				lesson.Start = slot.Start
			}
			if !lesson.End.Valid {
				lesson.End = slot.End
			}
		}
		cs.Lessons = append(cs.Lessons, lesson)
	}

	return cs, true
}

// parsePeriods reads KlStunden, e.g. <KlSt ZeitVon="07:30" ZeitBis="08:15">1</KlSt>
func parsePeriods(kl map[string]interface{}) []PeriodTime {
	stunden, ok := child(kl, "KlStunden")
	if !ok {
		return nil
	}
	var periods []PeriodTime
	for _, st := range list(stunden["KlSt"]) {
		p := text(st)
		if p == "" {
			continue
		}
		periods = append(periods, PeriodTime{
			Period: p,
			Start:  ParseTimeOfDay(attr(st, "ZeitVon")),
			End:    ParseTimeOfDay(attr(st, "ZeitBis")),
		})
	}
	return periods
}

func parseLesson(node interface{}) (Lesson, bool) {
	std, ok := asMap(node)
	if !ok {
		return Lesson{}, false
	}

	changes := ChangeSet{
		Subject: attr(std["Fa"], "FaAe") != "",
		Teacher: attr(std["Le"], "LeAe") != "",
		Room:    attr(std["Ra"], "RaAe") != "",
	}

	return Lesson{
		Period:       text(std["St"]),
		Subject:      text(std["Fa"]),
		Teacher:      text(std["Le"]),
		Room:         text(std["Ra"]),
		Start:        ParseTimeOfDay(text(std["Beginn"])),
		End:          ParseTimeOfDay(text(std["Ende"])),
		CourseNumber: text(std["Nr"]),
		Info:         text(std["If"]),
		Changed:      changes.Any(),
		Changes:      changes,
	}, true
}

// Location is the time zone the service publishes plans in. The zone database
// is embedded, so time.Local is only used if Europe/Berlin cannot be loaded at all.
func Location() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return time.Local
	}
	return loc
}
