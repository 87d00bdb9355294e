package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gwholdren-max/golfbook/internal/domain/booking"
)

func outcomeReq() booking.Request {
	return booking.Request{
		Date:      time.Date(2026, 2, 14, 0, 0, 0, 0, time.Local),
		TimeOfDay: "07:00",
		Players:   2,
	}
}

func TestReporterSentences(t *testing.T) {
	cases := []struct {
		name    string
		outcome booking.Outcome
		want    string
	}{
		{"confirmed", booking.Confirmed(outcomeReq()), "Booked! Tee time at 7:00 AM on 02/14/2026 at Charleston Municipal."},
		{"no availability", booking.NoAvailability(outcomeReq()), "No tee times available for 02/14/2026 at 7:00 AM. Try a different date or time."},
		{"failed", booking.Failed(outcomeReq(), "navigation failed"), "Booking failed for 02/14/2026 at 7:00 AM. Check screenshots for details."},
		{"available", booking.Available(outcomeReq(), []booking.SlotCandidate{{Label: "7:00 am Municipal Available", Available: true}}), "Found 1 open tee time(s) for 02/14/2026. First up: 7:00 am Municipal Available."},
		{"manual hold", booking.ManualHold(outcomeReq()), "Tee time for 02/14/2026 at 7:00 AM is in the cart. Finish the checkout in the open browser."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ch := &fakeChannel{}
			r := Reporter{Channel: ch, Course: "Charleston Municipal", Log: zap.NewNop()}
			r.Report(context.Background(), "+15551234567", tc.outcome)

			sent := ch.sentTexts()
			require.Len(t, sent, 1)
			assert.Equal(t, tc.want, sent[0])
		})
	}
}

func TestReporterSwallowsDeliveryFailure(t *testing.T) {
	ch := &fakeChannel{sendErr: errors.New("transport down")}
	r := Reporter{Channel: ch, Course: "Charleston Municipal", Log: zap.NewNop()}

	// The booking already happened; a failed announcement must not panic or
	// propagate.
	r.Report(context.Background(), "+15551234567", booking.Confirmed(outcomeReq()))
}

func TestReporterSkipsEmptyRecipient(t *testing.T) {
	ch := &fakeChannel{}
	r := Reporter{Channel: ch, Course: "Charleston Municipal", Log: zap.NewNop()}
	r.Report(context.Background(), "", booking.Confirmed(outcomeReq()))
	assert.Empty(t, ch.sentTexts())
}
