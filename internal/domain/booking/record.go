package booking

import (
	"time"

	"github.com/google/uuid"

	"calendly-lead-sync/internal/domain/lead"
)

// Record is the persisted analytics row, keyed by (event_uuid, invitee_email).
// Lead-match and campaign fields are a point-in-time snapshot taken when the
// booking was synced, not a live reference to the lead.
type Record struct {
	InviteeEmail   string
	InviteeName    string
	EventURI       string
	EventUUID      string
	EventName      string
	EventStartTime time.Time
	EventEndTime   time.Time
	EventStatus    string
	InviteeStatus  string

	MatchedLeadID *uuid.UUID
	MatchedDomain *string

	Persona      *string
	PersonaEmail *string
	VariantID    *string
	MainTech     *string

	CalendlyCreatedAt *time.Time
}

// NewRecord snapshots a booking and its (possibly nil) matched lead into the
// row shape the bookings table stores.
func NewRecord(b Booking, matched *lead.Lead) Record {
	rec := Record{
		InviteeEmail:      b.InviteeEmail,
		InviteeName:       b.InviteeName,
		EventURI:          b.EventURI,
		EventUUID:         b.EventUUID,
		EventName:         b.EventName,
		EventStartTime:    b.EventStartTime,
		EventEndTime:      b.EventEndTime,
		EventStatus:       b.EventStatus,
		InviteeStatus:     b.InviteeStatus,
		CalendlyCreatedAt: b.CreatedAt,
	}

	if matched == nil {
		return rec
	}

	id := matched.ID
	rec.MatchedLeadID = &id
	if matched.Domain != "" {
		d := matched.Domain
		rec.MatchedDomain = &d
	}

	if ge := matched.GeneratedEmail; ge != nil {
		rec.Persona = strPtr(ge.Persona)
		rec.PersonaEmail = strPtr(ge.PersonaEmail)
		rec.VariantID = strPtr(ge.VariantID)
		rec.MainTech = strPtr(ge.MainTech)
	}

	return rec
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
