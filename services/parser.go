package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Best-effort extraction of canonical numbers from scraped text. Every parser
// returns ok=false instead of an error when nothing usable is found.

var (
	// intRegexp captures the first digit run, thousands separators included
	intRegexp = regexp.MustCompile(`\d[\d,]*`)
	// ratingRegexp captures the first integer or decimal numeral
	ratingRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)

	clockRegexp        = regexp.MustCompile(`^\s*(\d{1,2})\s*[:\-]\s*(\d{2})\s*(AM|PM)?\s*$`)
	hourOnlyRegexp     = regexp.MustCompile(`^\s*(\d{1,2})\s*(AM|PM)\s*$`)
	compactClockRegexp = regexp.MustCompile(`^\s*(\d{2})(\d{2})\s*$`)

	durationHoursRegexp = regexp.MustCompile(`(\d+)\s*h`)
	durationMinsRegexp  = regexp.MustCompile(`(\d+)\s*m`)
	durationClockRegexp = regexp.MustCompile(`^(\d{1,2})[:\-](\d{2})$`)
	bareNumberRegexp    = regexp.MustCompile(`\d+`)
)

const minutesPerDay = 24 * 60

// ParseInt extracts the first integer from s, e.g. "₹ 1,250 onwards" → 1250.
func ParseInt(s string) (int, bool) {
	match := intRegexp.FindString(s)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseRating extracts the first numeral from s, e.g. "4.2 out of 5" → 4.2.
func ParseRating(s string) (float64, bool) {
	match := ratingRegexp.FindString(s)
	if match == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseClock converts a time of day into minutes since midnight. Accepted
// forms, tried in order: "HH:MM" or "HH-MM" with an optional AM/PM marker,
// "H AM/PM", and "HHMM". Results outside [0, 1439] are rejected.
func ParseClock(s string) (int, bool) {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), ".", ""))
	if s == "" {
		return 0, false
	}

	if m := clockRegexp.FindStringSubmatch(s); m != nil {
		return clockMinutes(m[1], m[2], m[3])
	}
	if m := hourOnlyRegexp.FindStringSubmatch(s); m != nil {
		return clockMinutes(m[1], "0", m[2])
	}
	if m := compactClockRegexp.FindStringSubmatch(s); m != nil {
		return clockMinutes(m[1], m[2], "")
	}
	return 0, false
}

func clockMinutes(hourText, minuteText, meridiem string) (int, bool) {
	hour, okH := atoi(hourText)
	minute, okM := atoi(minuteText)
	if !okH || !okM {
		return 0, false
	}

	switch meridiem {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	total := hour*60 + minute
	if minute > 59 || total < 0 || total >= minutesPerDay {
		return 0, false
	}
	return total, true
}

// ParseDuration converts elapsed-time text into minutes. "10h 30m", "45m" and
// "2 hrs" use the unit markers; "10:30" and "10-30" are read as H:MM. A bare
// number is taken as hours when it is at most 24 and as minutes otherwise, so
// "18" is 1080 minutes and "90" is 90 minutes. That threshold is a heuristic:
// "20" could equally mean twenty minutes.
func ParseDuration(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	hours := durationHoursRegexp.FindStringSubmatch(s)
	mins := durationMinsRegexp.FindStringSubmatch(s)
	if hours != nil || mins != nil {
		h, m := "0", "0"
		if hours != nil {
			h = hours[1]
		}
		if mins != nil {
			m = mins[1]
		}
		return hoursAndMinutes(h, m)
	}

	if m := durationClockRegexp.FindStringSubmatch(s); m != nil {
		return hoursAndMinutes(m[1], m[2])
	}

	if match := bareNumberRegexp.FindString(s); match != "" {
		n, ok := atoi(match)
		if !ok {
			return 0, false
		}
		if n <= 24 {
			return n * 60, true
		}
		return n, true
	}
	return 0, false
}

// hoursAndMinutes totals two digit groups in minutes, failing on overflow.
func hoursAndMinutes(hourText, minuteText string) (int, bool) {
	h, okH := atoi(hourText)
	m, okM := atoi(minuteText)
	if !okH || !okM || h > (math.MaxInt-m)/60 {
		return 0, false
	}
	return h*60 + m, true
}

// atoi parses a regexp digit group. Runs too long for an int are rejected.
func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
