// Package usecasemock provides hand-written testify mocks for the usecase
// ports.
package usecasemock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"calendly-lead-sync/internal/domain/booking"
	"calendly-lead-sync/internal/domain/lead"
)

type EventSource struct {
	mock.Mock
}

func (m *EventSource) ListScheduledEvents(ctx context.Context, userURI string, minStart, maxStart time.Time, status string) ([]booking.ScheduledEvent, error) {
	args := m.Called(ctx, userURI, minStart, maxStart, status)
	var events []booking.ScheduledEvent
	if v := args.Get(0); v != nil {
		events = v.([]booking.ScheduledEvent)
	}
	return events, args.Error(1)
}

func (m *EventSource) ListInvitees(ctx context.Context, eventURI string) ([]booking.Invitee, error) {
	args := m.Called(ctx, eventURI)
	var invitees []booking.Invitee
	if v := args.Get(0); v != nil {
		invitees = v.([]booking.Invitee)
	}
	return invitees, args.Error(1)
}

type LeadStore struct {
	mock.Mock
}

func (m *LeadStore) FindByEmailContains(ctx context.Context, email string) (*lead.Lead, error) {
	args := m.Called(ctx, email)
	var l *lead.Lead
	if v := args.Get(0); v != nil {
		l = v.(*lead.Lead)
	}
	return l, args.Error(1)
}

func (m *LeadStore) ListEmailed(ctx context.Context) ([]lead.Lead, error) {
	args := m.Called(ctx)
	var leads []lead.Lead
	if v := args.Get(0); v != nil {
		leads = v.([]lead.Lead)
	}
	return leads, args.Error(1)
}

func (m *LeadStore) MarkBooked(ctx context.Context, id uuid.UUID, upd lead.BookingUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

type BookingRecordStore struct {
	mock.Mock
}

func (m *BookingRecordStore) Upsert(ctx context.Context, rec booking.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *BookingRecordStore) ListAll(ctx context.Context) ([]booking.Record, error) {
	args := m.Called(ctx)
	var records []booking.Record
	if v := args.Get(0); v != nil {
		records = v.([]booking.Record)
	}
	return records, args.Error(1)
}

type SendLogStore struct {
	mock.Mock
}

func (m *SendLogStore) TotalSendCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type Matcher struct {
	mock.Mock
}

func (m *Matcher) Match(ctx context.Context, email string) (*lead.Lead, error) {
	args := m.Called(ctx, email)
	var l *lead.Lead
	if v := args.Get(0); v != nil {
		l = v.(*lead.Lead)
	}
	return l, args.Error(1)
}
