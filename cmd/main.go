package main

import (
	"context"
	"log/slog"
	"os"

	"calendly-lead-sync/cmd/bootstrap"
	"calendly-lead-sync/internal/infra/calendly"
	"calendly-lead-sync/internal/pkg/errs"
	"calendly-lead-sync/internal/usecase"

	"go.uber.org/fx"
)

// runWorker executes one sync pass followed by the analytics report, then
// shuts the fx app down with the appropriate exit code.
func runWorker(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	syncer *usecase.Syncer,
	reporter *usecase.AnalyticsReporter,
	user calendly.User,
	logger *slog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				code := 0
				if err := runOnce(context.Background(), syncer, reporter, user, logger); err != nil {
					code = 1
				}
				_ = shutdowner.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
	})
}

func runOnce(
	ctx context.Context,
	syncer *usecase.Syncer,
	reporter *usecase.AnalyticsReporter,
	user calendly.User,
	logger *slog.Logger,
) error {
	logger.Info("calendly worker starting")

	stats, err := syncer.Run(ctx, user.URI)
	if err != nil {
		logger.Error("calendly worker failed", "error", err.Error())
		for _, line := range errs.ExtractStackLines(err, 20) {
			logger.Error(line)
		}
		return err
	}

	analytics, err := reporter.Report(ctx)
	if err != nil {
		logger.Error("failed to build booking analytics", "error", err.Error())
		return err
	}
	analytics.LogSummary(logger)

	logger.Info("calendly worker finished",
		"events_processed", stats.EventsProcessed,
		"events_skipped", stats.EventsSkipped,
		"bookings_found", stats.BookingsFound,
		"leads_matched", stats.LeadsMatched,
		"leads_updated", stats.LeadsUpdated)
	return nil
}

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Invoke(runWorker),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("worker startup failed", "error", err)
		os.Exit(1)
	}

	sig := <-app.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		slog.Error("worker shutdown failed", "error", err)
		os.Exit(1)
	}

	os.Exit(sig.ExitCode)
}
