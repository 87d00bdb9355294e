// Package webtrac drives the course's WebTrac reservation pages through a
// Chromium instance. All of the structural guessing (which select is the
// player dropdown, which rows are results) lives here; the core machine only
// sees the SiteDriver capabilities.
package webtrac

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/gwholdren-max/golfbook/internal/domain/booking"
)

type Config struct {
	URL      string
	Headless bool
	DiagDir  string
}

// Driver implements booking.SiteDriver over the chromedp protocol. One
// Driver owns one browser; operations are strictly sequential because the
// page has single shared mutable state.
type Driver struct {
	cfg Config
	log *zap.Logger

	ctx     context.Context
	cancels []context.CancelFunc
	shots   int
}

func New(cfg Config, log *zap.Logger) *Driver {
	return &Driver{cfg: cfg, log: log}
}

// Start launches the browser. The ctx bounds the whole browser lifetime.
func (d *Driver) Start(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.cfg.Headless),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	d.ctx = browserCtx
	d.cancels = []context.CancelFunc{cancelBrowser, cancelAlloc}

	if err := chromedp.Run(d.ctx); err != nil {
		d.Close()
		return &booking.DriverError{Op: "start", Reason: "browser launch failed", Err: err}
	}
	return nil
}

func (d *Driver) Close() {
	for _, cancel := range d.cancels {
		cancel()
	}
	d.cancels = nil
}

func (d *Driver) OpenSearch(ctx context.Context, filters booking.SearchFilters) error {
	d.log.Info("opening search page", zap.String("url", d.cfg.URL))
	if err := d.run(ctx, "open_search", "navigation failed",
		chromedp.Navigate(d.cfg.URL),
		chromedp.Sleep(2*time.Second),
	); err != nil {
		return err
	}

	// Filters are best-effort: a dropdown or input we cannot find is logged
	// and the search still runs with whatever stuck.
	var set setResult
	if err := d.eval(ctx, "open_search", jsCall(jsSetPlayers, fmt.Sprintf("%d", filters.Players)), &set); err != nil {
		return err
	}
	if set.Found {
		d.log.Info("set player count", zap.String("control", set.Name), zap.String("value", set.Selected))
	} else {
		d.log.Warn("player count dropdown not found")
	}

	if err := d.eval(ctx, "open_search", jsCall(jsSetDate, filters.Date), &set); err != nil {
		return err
	}
	if set.Found {
		d.log.Info("set date", zap.String("value", filters.Date))
	} else {
		d.log.Warn("date input not found")
	}

	if err := d.eval(ctx, "open_search", jsCall(jsSetTime, timeVariants(filters.Time)), &set); err != nil {
		return err
	}
	if set.Found {
		d.log.Info("set begin time", zap.String("value", set.Selected))
	} else {
		d.log.Warn("begin time not selectable", zap.String("wanted", filters.Time))
	}

	var clicked bool
	if err := d.eval(ctx, "open_search", jsClickSearch, &clicked); err != nil {
		return err
	}
	if !clicked {
		return &booking.DriverError{Op: "open_search", Reason: "search control not found"}
	}
	return d.run(ctx, "open_search", "results did not load",
		chromedp.Sleep(3*time.Second))
}

func (d *Driver) ListResultRows(ctx context.Context) ([]booking.SlotCandidate, error) {
	var rows []struct {
		Label     string `json:"label"`
		Available bool   `json:"available"`
	}
	if err := d.eval(ctx, "list_results", jsListRows, &rows); err != nil {
		return nil, err
	}
	out := make([]booking.SlotCandidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, booking.SlotCandidate{Label: r.Label, Available: r.Available})
	}
	return out, nil
}

func (d *Driver) SelectSlot(ctx context.Context, candidate booking.SlotCandidate) error {
	var clicked bool
	if err := d.eval(ctx, "select_slot", jsCall(jsSelectSlot, candidate.Label), &clicked); err != nil {
		return err
	}
	if !clicked {
		return &booking.DriverError{Op: "select_slot", Reason: "slot control not found"}
	}
	return d.run(ctx, "select_slot", "selection did not settle",
		chromedp.Sleep(3*time.Second))
}

func (d *Driver) IsAuthPrompted(ctx context.Context) (bool, error) {
	var loc string
	var hasPassword bool
	if err := d.run(ctx, "auth_check", "page inspection failed",
		chromedp.Location(&loc),
		chromedp.Evaluate(`!!document.querySelector('input[type="password"]')`, &hasPassword),
	); err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(loc), "login") || hasPassword, nil
}

func (d *Driver) Authenticate(ctx context.Context, creds booking.Credentials) error {
	var done bool
	if err := d.eval(ctx, "authenticate",
		jsCall2(jsLogin, creds.Username, creds.Password), &done); err != nil {
		return err
	}
	if !done {
		return &booking.DriverError{Op: "authenticate", Reason: "login form not found"}
	}
	return d.run(ctx, "authenticate", "login did not settle",
		chromedp.Sleep(3*time.Second))
}

func (d *Driver) IsSessionConflictPrompted(ctx context.Context) (bool, error) {
	var present bool
	err := d.eval(ctx, "session_check", jsCall(jsHasControlWithText, "Continue with Login"), &present)
	return present, err
}

func (d *Driver) ResolveSessionConflict(ctx context.Context) error {
	var clicked bool
	if err := d.eval(ctx, "session_conflict", jsCall(jsClickControlWithText, "Continue with Login"), &clicked); err != nil {
		return err
	}
	if !clicked {
		return &booking.DriverError{Op: "session_conflict", Reason: "continue control not found"}
	}
	return d.run(ctx, "session_conflict", "conflict dismissal did not settle",
		chromedp.Sleep(3*time.Second))
}

func (d *Driver) IsMemberConfirmPrompted(ctx context.Context) (bool, error) {
	var present bool
	err := d.eval(ctx, "member_check", jsCall(jsHasControlWithText, "Continue"), &present)
	return present, err
}

func (d *Driver) ConfirmMember(ctx context.Context) error {
	var clicked bool
	if err := d.eval(ctx, "member_confirm", jsCall(jsClickControlWithText, "Continue"), &clicked); err != nil {
		return err
	}
	if !clicked {
		return &booking.DriverError{Op: "member_confirm", Reason: "continue control not found"}
	}
	return d.run(ctx, "member_confirm", "member confirm did not settle",
		chromedp.Sleep(3*time.Second))
}

func (d *Driver) IsFinalReviewReached(ctx context.Context) (bool, error) {
	var present bool
	err := d.eval(ctx, "final_check", jsHasFinalControl, &present)
	return present, err
}

func (d *Driver) Finalize(ctx context.Context) error {
	var clicked bool
	if err := d.eval(ctx, "finalize", jsClickFinalControl, &clicked); err != nil {
		return err
	}
	if !clicked {
		return &booking.DriverError{Op: "finalize", Reason: "final control not found"}
	}
	d.log.Info("clicked final confirmation")
	return d.run(ctx, "finalize", "confirmation did not settle",
		chromedp.Sleep(5*time.Second))
}

// CaptureDiagnostic saves a full-page screenshot. Best-effort only; a failed
// capture is logged and swallowed.
func (d *Driver) CaptureDiagnostic(ctx context.Context, label string) {
	if d.ctx == nil {
		return
	}
	var buf []byte
	if err := chromedp.Run(d.ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		d.log.Warn("diagnostic capture failed", zap.String("label", label), zap.Error(err))
		return
	}
	d.shots++
	path := filepath.Join(d.cfg.DiagDir, fmt.Sprintf("booking_%s_%d.png", label, d.shots))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		d.log.Warn("diagnostic write failed", zap.String("path", path), zap.Error(err))
		return
	}
	d.log.Info("diagnostic saved", zap.String("path", path))
}

func (d *Driver) run(ctx context.Context, op, reason string, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return &booking.DriverError{Op: op, Reason: "cancelled", Err: err}
	}
	if err := chromedp.Run(d.ctx, actions...); err != nil {
		return &booking.DriverError{Op: op, Reason: reason, Err: err}
	}
	return nil
}

func (d *Driver) eval(ctx context.Context, op, js string, res any) error {
	return d.run(ctx, op, "page script failed", chromedp.Evaluate(js, res))
}

// timeVariants lists the textual spellings of a 24h "HH:MM" the site's
// begin-time dropdown has been seen to use, tried in order.
func timeVariants(t24 string) []string {
	parts := strings.SplitN(t24, ":", 2)
	if len(parts) != 2 {
		return []string{t24}
	}
	hour := 0
	fmt.Sscanf(parts[0], "%d", &hour)
	minute := parts[1]

	period := "am"
	if hour >= 12 {
		period = "pm"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}

	return []string{
		fmt.Sprintf("%02d:%s %s", display, minute, period),
		fmt.Sprintf("%d:%s %s", display, minute, period),
		fmt.Sprintf("%02d:%s %s", display, minute, strings.ToUpper(period)),
		fmt.Sprintf("%d:%s %s", display, minute, strings.ToUpper(period)),
		t24,
	}
}
