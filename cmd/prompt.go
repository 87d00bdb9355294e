package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gwholdren-max/golfbook/internal/application/usecases"
	"github.com/gwholdren-max/golfbook/internal/config"
	"github.com/gwholdren-max/golfbook/internal/infrastructure/imessage"
	"github.com/gwholdren-max/golfbook/internal/logging"
)

func newPromptCmd() *cobra.Command {
	var intakeOnly bool

	c := &cobra.Command{
		Use:   "prompt",
		Short: "Text the booking prompt, wait for the reply, then book and report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.Phone == "" {
				return fmt.Errorf("BOOKING_PHONE is required")
			}

			log, err := logging.New(cfg.DevMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			channel := imessage.New(cfg.ChatDBPath, log.Named("imessage"))

			intake := usecases.Intake{
				Channel:      channel,
				PollInterval: cfg.PollInterval,
				Timeout:      cfg.ReplyTimeout,
				Log:          log.Named("intake"),
			}
			req, ok, err := intake.Execute(ctx, cfg.Phone)
			if err != nil {
				return err
			}
			if !ok {
				log.Info("no reply before timeout, nothing to do")
				return nil
			}

			log.Info("request acquired",
				zap.String("date", req.DateText()),
				zap.String("time", req.TimeOfDay),
				zap.Int("players", req.Players),
				zap.Bool("search_only", req.SearchOnly))

			if intakeOnly {
				fmt.Fprintf(os.Stdout, "date=%s time=%s players=%d search_only=%v\n",
					req.DateText(), req.TimeOfDay, req.Players, req.SearchOnly)
				return nil
			}

			outcome := runAttempt(ctx, cfg, log, req)

			reporter := usecases.Reporter{
				Channel: channel,
				Course:  cfg.Course,
				Log:     log.Named("report"),
			}
			reporter.Report(ctx, cfg.Phone, outcome)
			return nil
		},
	}

	c.Flags().BoolVar(&intakeOnly, "intake-only", false, "stop after parsing the reply; print the request instead of booking")
	return c
}
