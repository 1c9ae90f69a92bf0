package lead

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead is the slice of a tech_scans row this system reads and conditionally
// writes. The table is owned by the outreach pipeline; fields outside this
// struct are never touched.
type Lead struct {
	ID             uuid.UUID
	Domain         string
	Emails         []string
	Emailed        bool
	Booked         bool
	GeneratedEmail *GeneratedEmail
}

// GeneratedEmail carries the campaign attribution captured when the outreach
// email for this lead was generated.
type GeneratedEmail struct {
	Persona      string `json:"persona"`
	PersonaEmail string `json:"persona_email"`
	VariantID    string `json:"variant_id"`
	MainTech     string `json:"main_tech"`
}

// HasEmail reports whether any of the lead's stored emails equals the target
// after normalization. Target must already be normalized.
func (l *Lead) HasEmail(normalized string) bool {
	for _, e := range l.Emails {
		if strings.ToLower(strings.TrimSpace(e)) == normalized {
			return true
		}
	}
	return false
}

// BookingUpdate is the write applied to a matched lead the first time a
// booking lands. Once Booked is set the lead is never rewritten by a later
// sync pass.
type BookingUpdate struct {
	BookedAt     time.Time
	EventURI     string
	EventName    string
	InviteeEmail string
}
