package service

import (
	"fmt"
	"strings"
	"time"

	"alcyxob/trainer-scheduler/internal/domain"
)

const (
	icsLocalLayout = "20060102T150405"
	icsUTCLayout   = "20060102T150405Z"
	icsMaxLine     = 75
)

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

// renderICS writes sessions as an iCalendar feed with floating local times.
func renderICS(sessions []domain.Session, stamp time.Time, loc *time.Location) []byte {
	var b strings.Builder
	line := func(format string, args ...any) {
		writeFolded(&b, fmt.Sprintf(format, args...))
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//trainer-scheduler//sessions//EN")
	line("CALSCALE:GREGORIAN")
	for _, s := range sessions {
		line("BEGIN:VEVENT")
		line("UID:%s@trainer-scheduler", s.ID)
		line("DTSTAMP:%s", stamp.UTC().Format(icsUTCLayout))
		line("DTSTART:%s", s.StartsAt(loc).Format(icsLocalLayout))
		line("DTEND:%s", s.EndsAt(loc).Format(icsLocalLayout))
		line("SUMMARY:%s", icsEscaper.Replace(s.Title+" - "+s.ClientName))
		if s.SessionType != "" {
			line("CATEGORIES:%s", icsEscaper.Replace(s.SessionType))
		}
		if s.Description != "" {
			line("DESCRIPTION:%s", icsEscaper.Replace(s.Description))
		}
		line("STATUS:%s", icsStatus(s.StoredStatus()))
		line("END:VEVENT")
	}
	line("END:VCALENDAR")
	return []byte(b.String())
}

func icsStatus(st domain.SessionStatus) string {
	if st == domain.SessionScheduled {
		return "TENTATIVE"
	}
	return "CONFIRMED"
}

// writeFolded splits content lines longer than 75 octets, continuing with a
// leading space, without breaking UTF-8 sequences.
func writeFolded(b *strings.Builder, s string) {
	limit := icsMaxLine
	for len(s) > limit {
		cut := limit
		for cut > 0 && !startsRune(s[cut]) {
			cut--
		}
		b.WriteString(s[:cut])
		b.WriteString("\r\n ")
		s = s[cut:]
		limit = icsMaxLine - 1
	}
	b.WriteString(s)
	b.WriteString("\r\n")
}

func startsRune(c byte) bool {
	return c&0xC0 != 0x80
}
