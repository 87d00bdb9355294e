package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gwholdren-max/golfbook/internal/application/usecases"
	"github.com/gwholdren-max/golfbook/internal/config"
	"github.com/gwholdren-max/golfbook/internal/domain/booking"
	"github.com/gwholdren-max/golfbook/internal/infrastructure/imessage"
	"github.com/gwholdren-max/golfbook/internal/logging"
)

func newBookCmd() *cobra.Command {
	var (
		dateText   string
		timeText   string
		players    int
		searchOnly bool
		autoSubmit bool
	)

	c := &cobra.Command{
		Use:   "book",
		Short: "Run one booking attempt now for an explicit date/time/players",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("auto-submit") {
				cfg.AutoSubmit = autoSubmit
			}

			req, err := buildRequest(dateText, timeText, players, searchOnly)
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

	c.Flags().StringVar(&dateText, "date", "", "date MM/DD/YYYY")
	c.Flags().StringVar(&timeText, "time", "08:00", "begin time HH:MM (24h)")
	c.Flags().IntVar(&players, "players", 1, "player count 1-4")
	c.Flags().BoolVar(&searchOnly, "search-only", false, "report availability without booking")
	c.Flags().BoolVar(&autoSubmit, "auto-submit", false, "click the final confirmation instead of holding the page open")

	_ = c.MarkFlagRequired("date")
	return c
}

func buildRequest(dateText, timeText string, players int, searchOnly bool) (booking.Request, error) {
	date, err := time.ParseInLocation("01/02/2006", dateText, time.Local)
	if err != nil {
		return booking.Request{}, fmt.Errorf("invalid --date (want MM/DD/YYYY)")
	}
	if players < 1 || players > 4 {
		return booking.Request{}, fmt.Errorf("invalid --players (want 1-4)")
	}
	parts := strings.SplitN(timeText, ":", 2)
	if len(parts) != 2 {
		return booking.Request{}, fmt.Errorf("invalid --time (want HH:MM)")
	}
	return booking.Request{
		Date:       date,
		TimeOfDay:  timeText,
		Players:    players,
		SearchOnly: searchOnly,
	}, nil
}
