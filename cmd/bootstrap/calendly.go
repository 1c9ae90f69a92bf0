package bootstrap

import (
	"context"
	"log/slog"

	"calendly-lead-sync/internal/infra/calendly"
	"calendly-lead-sync/internal/pkg/config"

	"go.uber.org/fx"
)

var CalendlyModule = fx.Module("calendly",
	fx.Provide(
		calendly.NewClient,
		ResolveCurrentUser,
	),
)

// ResolveCurrentUser resolves the authenticated Calendly user once at
// startup. Every dependent component receives the resolved value instead of
// the client memoizing it lazily.
func ResolveCurrentUser(client *calendly.Client, cfg config.Config, logger *slog.Logger) (calendly.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Calendly.HTTPTimeout)
	defer cancel()

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return calendly.User{}, err
	}

	logger.Info("connected to calendly", "name", user.Name, "email", user.Email)
	return user, nil
}
