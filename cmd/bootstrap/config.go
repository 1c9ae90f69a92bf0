package bootstrap

import (
	"calendly-lead-sync/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.CalendlyConfig { return cfg.Calendly },
		func(cfg config.Config) config.SyncConfig { return cfg.Sync },
		func(cfg config.Config) config.LogConfig { return cfg.Log },
	),
)
