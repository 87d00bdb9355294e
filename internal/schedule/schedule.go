package schedule

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var reClock = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// NextRun returns the next wall-clock occurrence of at ("HH:MM", local)
// strictly after now. Release windows open at a fixed local time every day,
// so an at that already passed today means tomorrow.
func NextRun(now time.Time, at string) (time.Time, error) {
	m := reClock.FindStringSubmatch(at)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want HH:MM)", at)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid time %q (want HH:MM)", at)
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

// WaitUntil suspends until t or until ctx is cancelled. A single timer, not
// a poll.
func WaitUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
