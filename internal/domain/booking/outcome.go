package booking

// Status tags the terminal result of one booking attempt.
type Status string

const (
	// StatusConfirmed means the finalize control was activated.
	StatusConfirmed Status = "confirmed"

	// StatusAvailable means a search-only run found open slots and stopped
	// without booking.
	StatusAvailable Status = "available"

	// StatusNoAvailability means no open row existed for the filters. This
	// is a valid result, not a failure.
	StatusNoAvailability Status = "no_availability"

	// StatusManualHold means auto-submit was off: the page was held open for
	// a human to finish and success was never asserted.
	StatusManualHold Status = "manual_hold"

	// StatusFailed means a driver-level failure ended the attempt.
	StatusFailed Status = "failed"
)

// Outcome is produced exactly once per attempt and consumed by the reporter.
type Outcome struct {
	Status  Status
	Request Request

	// Slots holds the open candidates found by a search-only run.
	Slots []SlotCandidate

	// Reason explains a StatusFailed outcome.
	Reason string
}

func Confirmed(req Request) Outcome {
	return Outcome{Status: StatusConfirmed, Request: req}
}

func Available(req Request, slots []SlotCandidate) Outcome {
	return Outcome{Status: StatusAvailable, Request: req, Slots: slots}
}

func NoAvailability(req Request) Outcome {
	return Outcome{Status: StatusNoAvailability, Request: req}
}

func ManualHold(req Request) Outcome {
	return Outcome{Status: StatusManualHold, Request: req}
}

func Failed(req Request, reason string) Outcome {
	return Outcome{Status: StatusFailed, Request: req, Reason: reason}
}
