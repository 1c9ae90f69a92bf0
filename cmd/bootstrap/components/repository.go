package components

import (
	"calendly-lead-sync/internal/infra/repository"
	"calendly-lead-sync/internal/pkg/config"
	"calendly-lead-sync/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			NewLeadRepository,
			fx.As(new(usecase.LeadStore)),
		),
		fx.Annotate(
			NewBookingRecordRepository,
			fx.As(new(usecase.BookingRecordStore)),
		),
		fx.Annotate(
			repository.NewSendLogRepository,
			fx.As(new(usecase.SendLogStore)),
		),
	),
)

func NewLeadRepository(pool *pgxpool.Pool, cfg config.SyncConfig) *repository.LeadRepository {
	return repository.NewLeadRepository(pool, cfg.LeadsTable)
}

func NewBookingRecordRepository(pool *pgxpool.Pool, cfg config.SyncConfig) *repository.BookingRecordRepository {
	return repository.NewBookingRecordRepository(pool, cfg.BookingsTable)
}
