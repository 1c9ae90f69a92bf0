package booking

import (
	"strings"
	"time"
)

// Event statuses as reported by the scheduling provider.
const (
	EventStatusActive   = "active"
	EventStatusCanceled = "canceled"
)

// ScheduledEvent is a read-only event resource fetched from the provider.
type ScheduledEvent struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	EventType string    `json:"event_type"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

// Invitee is a read-only invitee resource attached to a scheduled event.
type Invitee struct {
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	URI       string     `json:"uri"`
	CreatedAt *time.Time `json:"created_at"`
	Answers   []Answer   `json:"questions_and_answers"`
}

// Answer is a single questions_and_answers entry from the booking form.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Position int    `json:"position"`
}

// Booking is the normalized event+invitee pair flowing through one sync
// iteration. It is never stored directly; persistence happens via Record.
type Booking struct {
	InviteeEmail   string
	InviteeName    string
	EventURI       string
	EventUUID      string
	EventName      string
	EventType      string
	EventStartTime time.Time
	EventEndTime   time.Time
	EventStatus    string
	InviteeStatus  string
	InviteeURI     string
	CreatedAt      *time.Time
	Answers        []Answer
}

// NormalizeEmail lowercases and trims an email for matching. All email
// comparisons in the pipeline go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EventUUIDFromURI returns the last path segment of an event URI
// (https://api.calendly.com/scheduled_events/{uuid}). A URI without a
// separator yields "" rather than an error; downstream upserts still work,
// they just key on the invitee email alone within the empty-uuid bucket.
func EventUUIDFromURI(eventURI string) string {
	if eventURI == "" || !strings.Contains(eventURI, "/") {
		return ""
	}
	return eventURI[strings.LastIndex(eventURI, "/")+1:]
}

// Extract builds one Booking per invitee, in input order. Invitees whose
// email is empty after normalization are dropped. Duplicate invitees are
// passed through untouched; the record upsert is the dedup layer.
func Extract(event ScheduledEvent, invitees []Invitee) []Booking {
	bookings := make([]Booking, 0, len(invitees))

	for _, inv := range invitees {
		email := NormalizeEmail(inv.Email)
		if email == "" {
			continue
		}

		bookings = append(bookings, Booking{
			InviteeEmail:   email,
			InviteeName:    inv.Name,
			EventURI:       event.URI,
			EventUUID:      EventUUIDFromURI(event.URI),
			EventName:      event.Name,
			EventType:      event.EventType,
			EventStartTime: event.StartTime,
			EventEndTime:   event.EndTime,
			EventStatus:    event.Status,
			InviteeStatus:  inv.Status,
			InviteeURI:     inv.URI,
			CreatedAt:      inv.CreatedAt,
			Answers:        inv.Answers,
		})
	}

	return bookings
}
