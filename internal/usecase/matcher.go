package usecase

import (
	"context"
	"log/slog"

	"calendly-lead-sync/internal/domain/lead"
	"calendly-lead-sync/internal/infra"
	"calendly-lead-sync/internal/pkg/errs"
)

// matchStrategy is one way of resolving an email to a lead. A strategy
// reports a definitive outcome (lead or nil miss) or an error, in which case
// the next strategy in order is tried.
type matchStrategy struct {
	name string
	find func(ctx context.Context, email string) (*lead.Lead, error)
}

// LeadMatcher tries an ordered list of strategies until one reaches a
// definitive outcome. Order: the server-side containment query first, then
// the in-memory scan over emailed leads for stores where the containment
// filter is unavailable.
type LeadMatcher struct {
	strategies []matchStrategy
	logger     *slog.Logger
}

func NewLeadMatcher(leads LeadStore, logger *slog.Logger) *LeadMatcher {
	return &LeadMatcher{
		logger: logger,
		strategies: []matchStrategy{
			{name: "containment", find: containmentStrategy(leads)},
			{name: "emailed-scan", find: emailedScanStrategy(leads)},
		},
	}
}

// Match returns the first lead whose emails include the given address, nil
// when no lead matches. The email must already be normalized (the extractor
// guarantees this). An error is returned only when every strategy failed.
func (m *LeadMatcher) Match(ctx context.Context, email string) (*lead.Lead, error) {
	var lastErr error
	for _, s := range m.strategies {
		l, err := s.find(ctx, email)
		if err == nil {
			return l, nil
		}
		m.logger.Debug("match strategy failed, trying next",
			"strategy", s.name, "error", err.Error())
		lastErr = err
	}
	return nil, errs.Mark(lastErr, errs.ErrLeadMatchFailed)
}

func containmentStrategy(leads LeadStore) func(ctx context.Context, email string) (*lead.Lead, error) {
	return func(ctx context.Context, email string) (*lead.Lead, error) {
		l, err := leads.FindByEmailContains(ctx, email)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, nil // definitive miss
			}
			return nil, err
		}
		return l, nil
	}
}

func emailedScanStrategy(leads LeadStore) func(ctx context.Context, email string) (*lead.Lead, error) {
	return func(ctx context.Context, email string) (*lead.Lead, error) {
		all, err := leads.ListEmailed(ctx)
		if err != nil {
			return nil, err
		}
		for i := range all {
			if all[i].HasEmail(email) {
				return &all[i], nil
			}
		}
		return nil, nil
	}
}
