package usecases

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/gwholdren-max/golfbook/internal/domain/booking"
)

// Attempt drives one booking run through the site driver:
//
//	search -> select slot -> (login -> re-search -> re-select)?
//	       -> member confirm? -> final review -> submit | hold open
//
// The target site is not under our control: any step may demand a login or
// an extra confirmation, and logging in discards the in-progress search. The
// machine recovers from every such interruption the same way, by replaying
// search and selection from scratch, never by resuming mid-flow.
type Attempt struct {
	Driver     booking.SiteDriver
	Creds      booking.Credentials
	AutoSubmit bool

	// HoldOpen is how long the page stays open for a human to finish when
	// AutoSubmit is off.
	HoldOpen time.Duration

	Log *zap.Logger
}

// Execute runs the attempt to a terminal Outcome. Driver failures never
// escape: they are converted to a failed outcome after a best-effort
// diagnostic capture.
func (u Attempt) Execute(ctx context.Context, req booking.Request) booking.Outcome {
	outcome, err := u.run(ctx, req)
	if err != nil {
		u.Log.Error("booking attempt failed", zap.Error(err))
		u.Driver.CaptureDiagnostic(ctx, "failure")
		return booking.Failed(req, reasonOf(err))
	}
	return outcome
}

func (u Attempt) run(ctx context.Context, req booking.Request) (booking.Outcome, error) {
	filters := booking.SearchFilters{
		Date:    req.DateText(),
		Time:    req.TimeOfDay,
		Players: req.Players,
	}

	if err := u.Driver.OpenSearch(ctx, filters); err != nil {
		return booking.Outcome{}, err
	}

	rows, err := u.Driver.ListResultRows(ctx)
	if err != nil {
		return booking.Outcome{}, err
	}

	if req.SearchOnly {
		open := booking.OpenSlots(rows)
		if len(open) == 0 {
			u.Log.Info("no open tee times", zap.String("date", filters.Date))
			return booking.NoAvailability(req), nil
		}
		u.Log.Info("open tee times found", zap.Int("count", len(open)))
		return booking.Available(req, open), nil
	}

	slot, ok := booking.ChooseSlot(rows)
	if !ok {
		u.Log.Info("no open tee times", zap.String("date", filters.Date))
		return booking.NoAvailability(req), nil
	}
	u.Log.Info("selecting tee time", zap.String("slot", slot.Label))
	if err := u.Driver.SelectSlot(ctx, slot); err != nil {
		return booking.Outcome{}, err
	}

	// Selecting a slot may redirect to a login page, or one may already be
	// showing. Authenticating invalidates the search and the selection, so
	// after a successful login the whole search is replayed.
	authed, err := u.Driver.IsAuthPrompted(ctx)
	if err != nil {
		return booking.Outcome{}, err
	}
	if authed {
		if err := u.authenticate(ctx); err != nil {
			return booking.Outcome{}, err
		}

		u.Log.Info("logged in, replaying search")
		if err := u.Driver.OpenSearch(ctx, filters); err != nil {
			return booking.Outcome{}, err
		}
		rows, err = u.Driver.ListResultRows(ctx)
		if err != nil {
			return booking.Outcome{}, err
		}
		slot, ok = booking.ChooseSlot(rows)
		if !ok {
			u.Log.Warn("tee time gone after login", zap.String("date", filters.Date))
			return booking.NoAvailability(req), nil
		}
		if err := u.Driver.SelectSlot(ctx, slot); err != nil {
			return booking.Outcome{}, err
		}
	}

	// Member selection shows up with or without a login having happened.
	member, err := u.Driver.IsMemberConfirmPrompted(ctx)
	if err != nil {
		return booking.Outcome{}, err
	}
	if member {
		u.Log.Info("confirming member selection")
		if err := u.Driver.ConfirmMember(ctx); err != nil {
			return booking.Outcome{}, err
		}
	}

	review, err := u.Driver.IsFinalReviewReached(ctx)
	if err != nil {
		return booking.Outcome{}, err
	}
	if !review {
		u.Log.Warn("final review page not detected, continuing anyway")
	}

	if !u.AutoSubmit {
		// Hold the page for manual completion. Nothing was submitted on the
		// human's behalf, so success is not asserted.
		u.Log.Info("auto-submit off, holding page open", zap.Duration("for", u.HoldOpen))
		select {
		case <-ctx.Done():
		case <-time.After(u.HoldOpen):
		}
		return booking.ManualHold(req), nil
	}

	if err := u.Driver.Finalize(ctx); err != nil {
		return booking.Outcome{}, err
	}
	u.Log.Info("booking confirmed",
		zap.String("date", filters.Date), zap.String("time", filters.Time))
	return booking.Confirmed(req), nil
}

func (u Attempt) authenticate(ctx context.Context) error {
	u.Log.Info("login required, signing in", zap.String("user", u.Creds.Username))
	if err := u.Driver.Authenticate(ctx, u.Creds); err != nil {
		return err
	}

	conflict, err := u.Driver.IsSessionConflictPrompted(ctx)
	if err != nil {
		return err
	}
	if conflict {
		// A stale session elsewhere loses to this login.
		u.Log.Info("active session conflict, continuing with new login")
		if err := u.Driver.ResolveSessionConflict(ctx); err != nil {
			return err
		}
	}
	return nil
}

func reasonOf(err error) string {
	var derr *booking.DriverError
	if errors.As(err, &derr) {
		return derr.Reason
	}
	return err.Error()
}
