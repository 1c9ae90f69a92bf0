package components

import (
	"calendly-lead-sync/internal/infra/calendly"
	"calendly-lead-sync/internal/pkg/clock"
	"calendly-lead-sync/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		fx.Annotate(
			func(client *calendly.Client) *calendly.Client { return client },
			fx.As(new(usecase.EventSource)),
		),
		fx.Annotate(
			usecase.NewLeadMatcher,
			fx.As(new(usecase.Matcher)),
		),
		usecase.NewSyncer,
		usecase.NewAnalyticsReporter,
	),
)
