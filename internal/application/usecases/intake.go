package usecases

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gwholdren-max/golfbook/internal/domain/booking"
	"github.com/gwholdren-max/golfbook/internal/domain/message"
)

const promptText = message.PromptPrefix + " ready! Reply with:\n" +
	"  Book: 'tomorrow 7am 1 player'\n" +
	"  Search: 'what's available today'"

const timeoutText = message.PromptPrefix + " timed out waiting for your reply. Run again when ready."

// Intake prompts a recipient over the channel and waits for the reply that
// describes what to book. Waiting is the expected common path: the human
// answers whenever.
type Intake struct {
	Channel      message.Channel
	PollInterval time.Duration
	Timeout      time.Duration
	Log          *zap.Logger

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// Execute sends the prompt and polls until a qualifying reply arrives or the
// timeout elapses. A timeout returns ok=false with no error: no reply is a
// normal outcome, not a failure. A delivery failure of the prompt or the
// confirmation is a hard error of this step.
func (u Intake) Execute(ctx context.Context, recipient string) (booking.Request, bool, error) {
	clock := u.now
	if clock == nil {
		clock = time.Now
	}

	if err := u.Channel.Send(ctx, recipient, promptText); err != nil {
		return booking.Request{}, false, fmt.Errorf("send prompt: %w", err)
	}
	sentAt := clock()
	deadline := sentAt.Add(u.Timeout)

	u.Log.Info("waiting for reply",
		zap.String("recipient", recipient),
		zap.Duration("timeout", u.Timeout))

	for {
		// Cooperative suspend between checks; the channel only supports
		// point-in-time reads, so this polls rather than subscribing.
		select {
		case <-ctx.Done():
			return booking.Request{}, false, ctx.Err()
		case <-time.After(u.PollInterval):
		}

		if clock().After(deadline) {
			u.Log.Warn("timed out waiting for reply", zap.String("recipient", recipient))
			if err := u.Channel.Send(ctx, recipient, timeoutText); err != nil {
				u.Log.Warn("timeout notice not delivered", zap.Error(err))
			}
			return booking.Request{}, false, nil
		}

		reply, ok, err := u.Channel.PollForReply(ctx, recipient, sentAt)
		if err != nil {
			// A poll is a side-effect-free read; transient store errors are
			// retried on the next interval.
			u.Log.Warn("poll failed", zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		u.Log.Info("received reply", zap.String("text", reply))
		req := booking.Parse(reply, clock())
		if err := u.Channel.Send(ctx, recipient, confirmationText(req)); err != nil {
			return booking.Request{}, false, fmt.Errorf("send confirmation: %w", err)
		}
		return req, true, nil
	}
}

func confirmationText(req booking.Request) string {
	if req.SearchOnly {
		return fmt.Sprintf("Searching available tee times for %s...", req.DateText())
	}
	return fmt.Sprintf("Booking: %s at %s for %d player(s). Starting now...",
		req.DateText(), req.TimeDisplay(), req.Players)
}
