package bootstrap

import (
	"calendly-lead-sync/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	CalendlyModule,
	components.RepositoryModule,
	components.UseCaseModule,
)
