package tui

import (
	"fmt"
	"strings"

	"vpctl/pkg/vpmobil"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(1, 0)
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	strikeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Strikethrough(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

// weekdays are the German day names, indexed by time.Weekday
var weekdays = []string{"sonntag", "montag", "dienstag", "mittwoch", "donnerstag", "freitag", "samstag"}

// RenderLessons formats lessons as one line each, changes highlighted
func RenderLessons(lessons []vpmobil.Lesson) string {
	if len(lessons) == 0 {
		return "No lessons.\n"
	}

	var b strings.Builder
	for _, l := range lessons {
		times := "  --:-- - --:--"
		if l.Start.Valid && l.End.Valid {
			times = fmt.Sprintf("  %s - %s", l.Start, l.End)
		}

		line := fmt.Sprintf("%-4s %-6s %-6s %s", l.Period+".", l.Subject, l.Teacher, l.Room)
		switch {
		case l.Cancelled():
			line = strikeStyle.Render(line)
		case l.Changed:
			line = changedStyle.Render(line)
		}

		fmt.Fprintf(&b, "%s  %s\n", timeStyle.Render(times), line)
		if l.Info != "" {
			fmt.Fprintf(&b, "%s\n", infoStyle.Render("                   "+l.Info))
		}
	}
	return b.String()
}

// RenderTimetable formats the full plan of a class
func RenderTimetable(tt *vpmobil.ClassTimetable) string {
	title := headerStyle.Foreground(accentColor()).Render(fmt.Sprintf("Timetable for class %s", tt.ClassName()))
	return title + "\n" + RenderLessons(tt.Timetable())
}

// RenderDayInfo formats the header, notices and off-days of a snapshot
func RenderDayInfo(s *vpmobil.Snapshot) string {
	var b strings.Builder

	heading := s.Header().PlanDate
	if heading == "" {
		heading = s.Date().Format("02.01.2006")
	}
	b.WriteString(headerStyle.Foreground(accentColor()).Render(fmt.Sprintf("Plan for %s", heading)))
	b.WriteString("\n")

	if ts := s.Header().Timestamp; ts != "" {
		fmt.Fprintf(&b, "Last updated: %s\n", ts)
	}

	info := s.ExtraInfo()
	if len(info) == 0 {
		b.WriteString("\nNo notices.\n")
	} else {
		b.WriteString("\nNotices:\n")
		for _, line := range info {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	offDays := s.OffDays()
	if len(offDays) == 0 {
		b.WriteString("\nNo off-days reported.\n")
		return b.String()
	}

	title := cases.Title(language.German)
	b.WriteString("\nOff-days:\n")
	for _, od := range offDays {
		fmt.Fprintf(&b, "  %s %s", title.String(weekdays[od.Date.Weekday()]), od.Date.Format("02.01.2006"))
		if od.Label != "" {
			fmt.Fprintf(&b, " (%s)", od.Label)
		}
		b.WriteString("\n")
	}
	return b.String()
}
