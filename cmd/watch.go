package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gwholdren-max/golfbook/internal/application/usecases"
	"github.com/gwholdren-max/golfbook/internal/config"
	"github.com/gwholdren-max/golfbook/internal/infrastructure/imessage"
	"github.com/gwholdren-max/golfbook/internal/logging"
	"github.com/gwholdren-max/golfbook/internal/schedule"
)

// watch sleeps until a release time and then runs a single attempt. Courses
// release new tee sheets at a fixed local hour; the point is to be first in
// line, once, not to poll all night.
func newWatchCmd() *cobra.Command {
	var (
		at         string
		dateText   string
		timeText   string
		players    int
		autoSubmit bool
	)

	c := &cobra.Command{
		Use:   "watch",
		Short: "Sleep until a wall-clock release time, then run one booking attempt",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("auto-submit") {
				cfg.AutoSubmit = autoSubmit
			}

			req, err := buildRequest(dateText, timeText, players, false)
			if err != nil {
				return err
			}

			log, err := logging.New(cfg.DevMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			next, err := schedule.NextRun(time.Now(), at)
			if err != nil {
				return err
			}
			log.Info("sleeping until release time",
				zap.Time("until", next),
				zap.Duration("for", time.Until(next)))
			if err := schedule.WaitUntil(ctx, next); err != nil {
				return err
			}

			log.Info("release time reached, booking",
				zap.String("date", req.DateText()),
				zap.String("time", req.TimeOfDay),
				zap.Int("players", req.Players))

			outcome := runAttempt(ctx, cfg, log, req)
			fmt.Fprintf(os.Stdout, "outcome=%s reason=%q\n", outcome.Status, outcome.Reason)

			if cfg.Phone != "" {
				reporter := usecases.Reporter{
					Channel: imessage.New(cfg.ChatDBPath, log.Named("imessage")),
					Course:  cfg.Course,
					Log:     log.Named("report"),
				}
				reporter.Report(ctx, cfg.Phone, outcome)
			}
			return nil
		},
	}

	c.Flags().StringVar(&at, "at", "07:00", "local release time HH:MM to wake up at")
	c.Flags().StringVar(&dateText, "date", "", "date MM/DD/YYYY")
	c.Flags().StringVar(&timeText, "time", "08:00", "begin time HH:MM (24h)")
	c.Flags().IntVar(&players, "players", 1, "player count 1-4")
	c.Flags().BoolVar(&autoSubmit, "auto-submit", true, "click the final confirmation automatically")

	_ = c.MarkFlagRequired("date")
	return c
}
