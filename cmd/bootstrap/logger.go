package bootstrap

import (
	"calendly-lead-sync/internal/pkg/logging"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		logging.NewLogger,
	),
)
