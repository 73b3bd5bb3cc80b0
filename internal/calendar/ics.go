// Package calendar exports the planned hike day as an iCalendar file.
package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/trailday/internal/trail"
)

const (
	startHour = 8
	endHour   = 17
	// maxLineOctets is the RFC 5545 content line limit, excluding CRLF.
	maxLineOctets = 75
)

var now = time.Now

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// ParseDay parses a YYYY-MM-DD date. An empty string means tomorrow.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		t := now().AddDate(0, 0, 1)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
	}
	day, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return day, nil
}

// GenerateICS builds a calendar with one event covering the hike day,
// 08:00 to 17:00 in floating local time. The description carries the trail
// stats followed by the itinerary text.
func GenerateICS(rec *trail.Record, itineraryText string, day time.Time) string {
	if rec == nil {
		rec = trail.New()
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, time.UTC)
	end := time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, time.UTC)

	var ics strings.Builder
	line := func(format string, args ...interface{}) {
		ics.WriteString(foldLine(fmt.Sprintf(format, args...)))
		ics.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//trailday//trailday//EN")
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	line("BEGIN:VEVENT")
	line("UID:%s", eventUID(rec, day))
	line("DTSTAMP:%s", formatICSTime(now()))
	line("DTSTART:%s", formatFloating(start))
	line("DTEND:%s", formatFloating(end))
	line("SUMMARY:%s", escapeICS("Hike: "+rec.DisplayName()))
	if loc := trail.CleanLocation(rec.Location); loc != "" {
		line("LOCATION:%s", escapeICS(loc))
	}
	line("DESCRIPTION:%s", escapeICS(describe(rec, itineraryText)))
	line("STATUS:CONFIRMED")
	line("SEQUENCE:0")
	line("TRANSP:OPAQUE")
	line("END:VEVENT")
	line("END:VCALENDAR")

	return ics.String()
}

func describe(rec *trail.Record, itineraryText string) string {
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}
	add("Difficulty", rec.Difficulty)
	add("Length", rec.Length)
	add("Elevation gain", rec.ElevationGain)
	add("Route type", rec.RouteType)
	add("Rating", rec.Rating)

	desc := strings.Join(parts, "\n")
	if text := strings.TrimSpace(itineraryText); text != "" {
		if desc != "" {
			desc += "\n\n"
		}
		desc += text
	}
	return desc
}

func eventUID(rec *trail.Record, day time.Time) string {
	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(rec.DisplayName()), "-"), "-")
	if slug == "" {
		slug = "hike"
	}
	return fmt.Sprintf("%s-%s@trailday", slug, day.Format("20060102"))
}

// formatICSTime formats a time.Time as a UTC iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatFloating drops the zone so the event stays at the same wall-clock
// time wherever the calendar is opened.
func formatFloating(t time.Time) string {
	return t.Format("20060102T150405")
}

// escapeICS escapes special characters for iCalendar text values
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// foldLine splits a content line into 75-octet chunks joined by CRLF and a
// space, never cutting through a UTF-8 sequence.
func foldLine(s string) string {
	if len(s) <= maxLineOctets {
		return s
	}

	var b strings.Builder
	limit := maxLineOctets
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		b.WriteString(s[:cut])
		b.WriteString("\r\n ")
		s = s[cut:]
		// continuation lines lose one octet to the leading space
		limit = maxLineOctets - 1
	}
	b.WriteString(s)
	return b.String()
}
