package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"calendly-lead-sync/internal/infra"
)

// sendLogTable is the outreach pipeline's per-variant send log. It may not
// exist in every deployment; callers treat a failure here as "source absent".
const sendLogTable = "email_stats"

type SendLogRepository struct {
	pool *pgxpool.Pool
}

func NewSendLogRepository(pool *pgxpool.Pool) *SendLogRepository {
	return &SendLogRepository{pool: pool}
}

// TotalSendCount sums send_count over the whole send log, the denominator of
// the overall conversion rate.
func (r *SendLogRepository) TotalSendCount(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, "SELECT COALESCE(SUM(send_count), 0) FROM "+sendLogTable).Scan(&total)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sum send log", err)
	}
	return total, nil
}
