package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTime is used when a reply names no time. A request without a stated
// time is never committed, so the caller also gets SearchOnly=true.
const DefaultTime = "08:00"

// Request is the structured form of one parsed booking message. It is built
// once by Parse and read-only afterwards.
type Request struct {
	// Date is the resolved calendar date at midnight, local time.
	Date time.Time

	// TimeOfDay is 24-hour "HH:MM".
	TimeOfDay string

	// Players is the party size, 1..4.
	Players int

	// SearchOnly means report availability without committing a booking.
	SearchOnly bool
}

// DateText renders the date the way the reservation site's date filter
// expects it.
func (r Request) DateText() string {
	return r.Date.Format("01/02/2006")
}

// TimeDisplay renders TimeOfDay as "H:MM AM" for human-facing messages.
func (r Request) TimeDisplay() string {
	hour, minute := r.clock()
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}

func (r Request) clock() (hour, minute int) {
	parts := strings.SplitN(r.TimeOfDay, ":", 2)
	hour, _ = strconv.Atoi(parts[0])
	if len(parts) == 2 {
		minute, _ = strconv.Atoi(parts[1])
	}
	return hour, minute
}
