package booking

import (
	"context"
	"fmt"
)

// SearchFilters are the values applied to the reservation site's search
// surface. Applying them is best-effort: the adapter logs a filter it cannot
// set and searches with whatever stuck.
type SearchFilters struct {
	Date    string // MM/DD/YYYY
	Time    string // HH:MM, 24h
	Players int
}

// SlotCandidate is one result row discovered by a search. Candidates are not
// retained past the attempt that found them.
type SlotCandidate struct {
	Label     string
	Available bool
}

// Credentials identify the account used when the site demands a login
// mid-flow.
type Credentials struct {
	Username string
	Password string
}

// SiteDriver is the capability surface for operating the reservation page.
// The attempt state machine is its only consumer; raw page structure never
// crosses this boundary. Implementations return *DriverError for page-level
// failures.
type SiteDriver interface {
	OpenSearch(ctx context.Context, filters SearchFilters) error
	ListResultRows(ctx context.Context) ([]SlotCandidate, error)
	SelectSlot(ctx context.Context, candidate SlotCandidate) error

	IsAuthPrompted(ctx context.Context) (bool, error)
	Authenticate(ctx context.Context, creds Credentials) error
	IsSessionConflictPrompted(ctx context.Context) (bool, error)
	ResolveSessionConflict(ctx context.Context) error

	IsMemberConfirmPrompted(ctx context.Context) (bool, error)
	ConfirmMember(ctx context.Context) error

	IsFinalReviewReached(ctx context.Context) (bool, error)
	Finalize(ctx context.Context) error

	// CaptureDiagnostic is best-effort and never fails.
	CaptureDiagnostic(ctx context.Context, label string)
}

// DriverError wraps a failed driver operation.
type DriverError struct {
	Op     string
	Reason string
	Err    error
}

func (e *DriverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *DriverError) Unwrap() error { return e.Err }

// ChooseSlot returns the first candidate whose availability marker is open.
// Header and unavailable rows are already excluded by the marker.
func ChooseSlot(candidates []SlotCandidate) (SlotCandidate, bool) {
	for _, c := range candidates {
		if c.Available {
			return c, true
		}
	}
	return SlotCandidate{}, false
}

// OpenSlots filters candidates down to the available ones.
func OpenSlots(candidates []SlotCandidate) []SlotCandidate {
	var open []SlotCandidate
	for _, c := range candidates {
		if c.Available {
			open = append(open, c)
		}
	}
	return open
}
