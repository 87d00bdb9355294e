package cmd

import (
	"context"

	"go.uber.org/zap"

	"github.com/gwholdren-max/golfbook/internal/application/usecases"
	"github.com/gwholdren-max/golfbook/internal/config"
	"github.com/gwholdren-max/golfbook/internal/domain/booking"
	"github.com/gwholdren-max/golfbook/internal/infrastructure/webtrac"
)

// runAttempt launches a browser, runs one booking attempt, and tears the
// browser down. Every run gets a fresh browser: stale page state from a
// previous attempt must never leak into the next.
func runAttempt(ctx context.Context, cfg config.Config, log *zap.Logger, req booking.Request) booking.Outcome {
	driver := webtrac.New(webtrac.Config{
		URL:      cfg.BookingURL,
		Headless: cfg.Headless,
		DiagDir:  cfg.DiagDir,
	}, log.Named("webtrac"))

	if err := driver.Start(ctx); err != nil {
		log.Error("browser start failed", zap.Error(err))
		return booking.Failed(req, "browser did not start")
	}
	defer driver.Close()

	attempt := usecases.Attempt{
		Driver: driver,
		Creds: booking.Credentials{
			Username: cfg.Username,
			Password: cfg.Password,
		},
		AutoSubmit: cfg.AutoSubmit,
		HoldOpen:   cfg.HoldOpen,
		Log:        log.Named("attempt"),
	}
	return attempt.Execute(ctx, req)
}
