package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"calendly-lead-sync/internal/domain/booking"
	"calendly-lead-sync/internal/domain/lead"
)

// EventSource yields scheduled events and their invitees from the booking
// provider. Implemented by infra/calendly.
type EventSource interface {
	ListScheduledEvents(ctx context.Context, userURI string, minStart, maxStart time.Time, status string) ([]booking.ScheduledEvent, error)
	ListInvitees(ctx context.Context, eventURI string) ([]booking.Invitee, error)
}

// LeadStore reads leads and applies the one-time booking update.
type LeadStore interface {
	FindByEmailContains(ctx context.Context, email string) (*lead.Lead, error)
	ListEmailed(ctx context.Context) ([]lead.Lead, error)
	MarkBooked(ctx context.Context, id uuid.UUID, upd lead.BookingUpdate) error
}

// BookingRecordStore persists and loads analytics rows.
type BookingRecordStore interface {
	Upsert(ctx context.Context, rec booking.Record) error
	ListAll(ctx context.Context) ([]booking.Record, error)
}

// SendLogStore is the optional conversion-rate denominator source.
type SendLogStore interface {
	TotalSendCount(ctx context.Context) (int64, error)
}

// Matcher resolves an invitee email to a lead, or reports a definitive miss.
type Matcher interface {
	Match(ctx context.Context, email string) (*lead.Lead, error)
}
