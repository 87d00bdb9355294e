package usecases

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gwholdren-max/golfbook/internal/domain/booking"
	"github.com/gwholdren-max/golfbook/internal/domain/message"
)

// Reporter announces the outcome of an attempt. By the time it runs the
// booking has already happened or definitively failed, so a send failure is
// logged and swallowed rather than escalated.
type Reporter struct {
	Channel message.Channel
	Course  string
	Log     *zap.Logger
}

func (r Reporter) Report(ctx context.Context, recipient string, outcome booking.Outcome) {
	if recipient == "" {
		return
	}
	if err := r.Channel.Send(ctx, recipient, r.sentence(outcome)); err != nil {
		r.Log.Warn("result not delivered", zap.Error(err))
	}
}

func (r Reporter) sentence(outcome booking.Outcome) string {
	req := outcome.Request
	switch outcome.Status {
	case booking.StatusConfirmed:
		return fmt.Sprintf("Booked! Tee time at %s on %s at %s.",
			req.TimeDisplay(), req.DateText(), r.Course)
	case booking.StatusAvailable:
		return fmt.Sprintf("Found %d open tee time(s) for %s. First up: %s.",
			len(outcome.Slots), req.DateText(), outcome.Slots[0].Label)
	case booking.StatusNoAvailability:
		return fmt.Sprintf("No tee times available for %s at %s. Try a different date or time.",
			req.DateText(), req.TimeDisplay())
	case booking.StatusManualHold:
		return fmt.Sprintf("Tee time for %s at %s is in the cart. Finish the checkout in the open browser.",
			req.DateText(), req.TimeDisplay())
	default:
		return fmt.Sprintf("Booking failed for %s at %s. Check screenshots for details.",
			req.DateText(), req.TimeDisplay())
	}
}
