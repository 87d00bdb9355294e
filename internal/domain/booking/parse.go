package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The reply grammar is a small fixed set of patterns, e.g.
//
//	"tomorrow 2pm 1 player"
//	"02/08 10:00 am 2 players"
//	"saturday 7am"
//	"what's available today"
var (
	reTime12  = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	reTime24  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	reDate    = regexp.MustCompile(`(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?`)
	rePlayers = regexp.MustCompile(`(\d)\s*player`)
	reDigit   = regexp.MustCompile(`\b([1-4])\b`)
)

var searchKeywords = []string{"available", "what's", "whats", "search", "show", "list", "check"}

// weekdays are indexed Monday=0, matching the resolution rule below.
var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Parse turns a free-form reply into a Request. It never fails: anything it
// cannot read degrades to a default instead, because the sender cannot be
// interrupted to fix a typo. Deterministic for a given text and now.
func Parse(text string, now time.Time) Request {
	text = strings.ToLower(strings.TrimSpace(text))

	req := Request{
		TimeOfDay: DefaultTime,
		Players:   1,
	}
	for _, kw := range searchKeywords {
		if strings.Contains(text, kw) {
			req.SearchOnly = true
			break
		}
	}

	req.Date = parseDate(text, now)

	if t, ok := parseTime(text); ok {
		req.TimeOfDay = t
	} else {
		// No stated time: a booking cannot be committed, so this becomes
		// a search regardless of intent keywords.
		req.SearchOnly = true
	}

	req.Players = parsePlayers(text)

	return req
}

func parseDate(text string, now time.Time) time.Time {
	today := midnight(now)

	if strings.Contains(text, "tomorrow") {
		return today.AddDate(0, 0, 1)
	}
	if strings.Contains(text, "today") {
		return today
	}

	// Weekday names resolve to the next strictly-future occurrence. Naming
	// today's weekday means next week: a same-day request must say "today".
	fields := strings.Fields(text)
	for i, name := range weekdays {
		if strings.Contains(text, name) || containsToken(fields, name[:3]) {
			current := (int(now.Weekday()) + 6) % 7 // Monday=0
			ahead := ((i-current)%7 + 7) % 7
			if ahead == 0 {
				ahead = 7
			}
			return today.AddDate(0, 0, ahead)
		}
	}

	if m := reDate.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	}

	return today.AddDate(0, 0, 1)
}

func parseTime(text string) (string, bool) {
	if m := reTime12.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		switch {
		case m[3] == "pm" && hour != 12:
			hour += 12
		case m[3] == "am" && hour == 12:
			hour = 0
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), true
	}

	if m := reTime24.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour <= 23 {
			return fmt.Sprintf("%02d:%02d", hour, minute), true
		}
	}

	return "", false
}

func parsePlayers(text string) int {
	if m := rePlayers.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}

	// A standalone digit counts only when its surrounding window shows it is
	// not a fragment of a date or time token.
	if loc := reDigit.FindStringSubmatchIndex(text); loc != nil {
		pos := loc[2]
		lo := pos - 2
		if lo < 0 {
			lo = 0
		}
		hi := pos + 3
		if hi > len(text) {
			hi = len(text)
		}
		window := text[lo:hi]
		if !strings.ContainsAny(window, ":/") &&
			!strings.Contains(window, "am") && !strings.Contains(window, "pm") {
			n, _ := strconv.Atoi(text[loc[2]:loc[3]])
			return n
		}
	}

	return 1
}

func containsToken(fields []string, tok string) bool {
	for _, f := range fields {
		if f == tok {
			return true
		}
	}
	return false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
