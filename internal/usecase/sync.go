package usecase

import (
	"context"
	"log/slog"
	"time"

	"calendly-lead-sync/internal/domain/booking"
	"calendly-lead-sync/internal/domain/lead"
	"calendly-lead-sync/internal/pkg/clock"
	"calendly-lead-sync/internal/pkg/config"
	"calendly-lead-sync/internal/pkg/errs"
)

// SyncStats is the run summary logged and returned after one sync pass.
type SyncStats struct {
	EventsProcessed int
	EventsSkipped   int
	BookingsFound   int
	LeadsMatched    int
	LeadsUpdated    int
	RecordsUpserted int
	Events          []EventResult
}

// EventResult records the per-event outcome: processed, or skipped with the
// reason. A skipped event never aborts the run.
type EventResult struct {
	EventURI  string
	EventName string
	Processed bool
	Bookings  int
	Reason    string
}

// Syncer drives one full pass: events -> invitees -> extract -> match ->
// persist. Strictly sequential; a pacing sleep after each processed event
// keeps the provider's rate limiter happy.
type Syncer struct {
	source  EventSource
	leads   LeadStore
	records BookingRecordStore
	matcher Matcher
	clock   clock.Clock
	cfg     config.SyncConfig
	logger  *slog.Logger
}

func NewSyncer(
	source EventSource,
	leads LeadStore,
	records BookingRecordStore,
	matcher Matcher,
	clk clock.Clock,
	cfg config.SyncConfig,
	logger *slog.Logger,
) *Syncer {
	return &Syncer{
		source:  source,
		leads:   leads,
		records: records,
		matcher: matcher,
		clock:   clk,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run syncs all active events in the lookback window for the given user.
// Event listing failures are fatal; everything below the per-event level is
// isolated into EventResult entries.
func (s *Syncer) Run(ctx context.Context, userURI string) (SyncStats, error) {
	var stats SyncStats

	now := s.clock.Now().UTC()
	minStart := now.AddDate(0, 0, -s.cfg.LookbackDays)

	s.logger.Info("fetching scheduled events",
		"min_start_time", minStart.Format(time.RFC3339),
		"max_start_time", now.Format(time.RFC3339),
		"lookback_days", s.cfg.LookbackDays)

	events, err := s.source.ListScheduledEvents(ctx, userURI, minStart, now, booking.EventStatusActive)
	if err != nil {
		return stats, errs.Wrap(err, "failed to list scheduled events")
	}
	s.logger.Info("found scheduled events", "count", len(events))

	for _, event := range events {
		result := EventResult{EventURI: event.URI, EventName: event.Name}

		if err := s.processEvent(ctx, event, &stats, &result); err != nil {
			result.Reason = err.Error()
			stats.EventsSkipped++
			stats.Events = append(stats.Events, result)
			s.logger.Error("skipping event after error",
				"event_name", event.Name, "event_uri", event.URI, "error", err.Error())
			continue
		}

		result.Processed = true
		stats.EventsProcessed++
		stats.Events = append(stats.Events, result)

		if s.cfg.EventPacing > 0 {
			time.Sleep(s.cfg.EventPacing)
		}
	}

	s.logSummary(stats)
	return stats, nil
}

func (s *Syncer) processEvent(ctx context.Context, event booking.ScheduledEvent, stats *SyncStats, result *EventResult) error {
	s.logger.Debug("processing event", "event_name", event.Name)

	invitees, err := s.source.ListInvitees(ctx, event.URI)
	if err != nil {
		return errs.Wrap(err, "failed to list invitees")
	}
	s.logger.Debug("found invitees", "event_name", event.Name, "count", len(invitees))

	bookings := booking.Extract(event, invitees)
	stats.BookingsFound += len(bookings)
	result.Bookings = len(bookings)

	for _, b := range bookings {
		s.logger.Info("processing booking", "invitee_email", b.InviteeEmail, "event_name", b.EventName)

		matched, err := s.matcher.Match(ctx, b.InviteeEmail)
		if err != nil {
			return errs.Wrap(err, "failed to match lead")
		}

		if matched != nil {
			stats.LeadsMatched++
			s.logger.Info("matched lead",
				"domain", matched.Domain, "lead_id", matched.ID.String())

			if !matched.Booked {
				upd := lead.BookingUpdate{
					BookedAt:     b.EventStartTime,
					EventURI:     b.EventURI,
					EventName:    b.EventName,
					InviteeEmail: b.InviteeEmail,
				}
				if err := s.leads.MarkBooked(ctx, matched.ID, upd); err != nil {
					return errs.Mark(errs.Wrap(err, "failed to update lead"), errs.ErrLeadUpdateFailed)
				}
				stats.LeadsUpdated++
				s.logger.Info("updated lead with booking info", "lead_id", matched.ID.String())
			} else {
				s.logger.Debug("lead already marked as booked", "lead_id", matched.ID.String())
			}
		} else {
			s.logger.Debug("no matching lead found", "invitee_email", b.InviteeEmail)
		}

		if err := s.records.Upsert(ctx, booking.NewRecord(b, matched)); err != nil {
			return errs.Mark(errs.Wrap(err, "failed to upsert booking record"), errs.ErrRecordUpsertFailed)
		}
		stats.RecordsUpserted++
	}

	return nil
}

func (s *Syncer) logSummary(stats SyncStats) {
	s.logger.Info("sync complete",
		"events_processed", stats.EventsProcessed,
		"events_skipped", stats.EventsSkipped,
		"bookings_found", stats.BookingsFound,
		"leads_matched", stats.LeadsMatched,
		"leads_updated", stats.LeadsUpdated,
		"records_upserted", stats.RecordsUpserted)
}
