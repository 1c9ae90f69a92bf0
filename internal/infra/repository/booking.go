package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"calendly-lead-sync/internal/domain/booking"
	"calendly-lead-sync/internal/infra"
	"calendly-lead-sync/internal/pkg/pgconv"
)

// BookingRecordRepository persists analytics rows in the bookings table.
// (event_uuid, invitee_email) is the conflict key: re-syncing the same
// window replaces rows in place instead of duplicating them.
type BookingRecordRepository struct {
	pool  *pgxpool.Pool
	table string
}

func NewBookingRecordRepository(pool *pgxpool.Pool, table string) *BookingRecordRepository {
	return &BookingRecordRepository{pool: pool, table: table}
}

func (r *BookingRecordRepository) Upsert(ctx context.Context, rec booking.Record) error {
	query := "INSERT INTO " + pgx.Identifier{r.table}.Sanitize() + ` (
		invitee_email, invitee_name, event_uri, event_uuid, event_name,
		event_start_time, event_end_time, event_status, invitee_status,
		matched_lead_id, matched_domain, persona, persona_email, variant_id,
		main_tech, calendly_created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (event_uuid, invitee_email) DO UPDATE SET
		invitee_name = EXCLUDED.invitee_name,
		event_uri = EXCLUDED.event_uri,
		event_name = EXCLUDED.event_name,
		event_start_time = EXCLUDED.event_start_time,
		event_end_time = EXCLUDED.event_end_time,
		event_status = EXCLUDED.event_status,
		invitee_status = EXCLUDED.invitee_status,
		matched_lead_id = EXCLUDED.matched_lead_id,
		matched_domain = EXCLUDED.matched_domain,
		persona = EXCLUDED.persona,
		persona_email = EXCLUDED.persona_email,
		variant_id = EXCLUDED.variant_id,
		main_tech = EXCLUDED.main_tech,
		calendly_created_at = EXCLUDED.calendly_created_at,
		synced_at = now()`

	_, err := r.pool.Exec(ctx, query,
		rec.InviteeEmail,
		rec.InviteeName,
		rec.EventURI,
		rec.EventUUID,
		rec.EventName,
		pgconv.TimeToPgtype(rec.EventStartTime),
		pgconv.TimeToPgtype(rec.EventEndTime),
		rec.EventStatus,
		rec.InviteeStatus,
		pgconv.UUIDPtrToPgtype(rec.MatchedLeadID),
		pgconv.StringPtrToPgtype(rec.MatchedDomain),
		pgconv.StringPtrToPgtype(rec.Persona),
		pgconv.StringPtrToPgtype(rec.PersonaEmail),
		pgconv.StringPtrToPgtype(rec.VariantID),
		pgconv.StringPtrToPgtype(rec.MainTech),
		pgconv.TimePtrToPgtype(rec.CalendlyCreatedAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert booking record", err)
	}
	return nil
}

// ListAll loads every persisted booking record for aggregation.
func (r *BookingRecordRepository) ListAll(ctx context.Context) ([]booking.Record, error) {
	query := `SELECT invitee_email, invitee_name, event_uri, event_uuid, event_name,
		event_start_time, event_end_time, event_status, invitee_status,
		matched_lead_id, matched_domain, persona, persona_email, variant_id,
		main_tech, calendly_created_at
	FROM ` + pgx.Identifier{r.table}.Sanitize()

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking records", err)
	}
	defer rows.Close()

	var records []booking.Record
	for rows.Next() {
		var (
			rec           booking.Record
			inviteeName   pgtype.Text
			eventURI      pgtype.Text
			eventName     pgtype.Text
			startTime     pgtype.Timestamptz
			endTime       pgtype.Timestamptz
			eventStatus   pgtype.Text
			inviteeStatus pgtype.Text
			matchedID     pgtype.UUID
			createdAt     pgtype.Timestamptz
		)
		var matchedDomain, persona, personaEmail, variantID, mainTech pgtype.Text

		err := rows.Scan(
			&rec.InviteeEmail, &inviteeName, &eventURI, &rec.EventUUID, &eventName,
			&startTime, &endTime, &eventStatus, &inviteeStatus,
			&matchedID, &matchedDomain, &persona, &personaEmail, &variantID,
			&mainTech, &createdAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking record", err)
		}

		rec.InviteeName = inviteeName.String
		rec.EventURI = eventURI.String
		rec.EventName = eventName.String
		rec.EventStartTime = pgconv.TimeFromPgtype(startTime)
		rec.EventEndTime = pgconv.TimeFromPgtype(endTime)
		rec.EventStatus = eventStatus.String
		rec.InviteeStatus = inviteeStatus.String
		rec.MatchedLeadID = pgconv.UUIDPtrFromPgtype(matchedID)
		rec.MatchedDomain = pgconv.StringPtrFromPgtype(matchedDomain)
		rec.Persona = pgconv.StringPtrFromPgtype(persona)
		rec.PersonaEmail = pgconv.StringPtrFromPgtype(personaEmail)
		rec.VariantID = pgconv.StringPtrFromPgtype(variantID)
		rec.MainTech = pgconv.StringPtrFromPgtype(mainTech)
		rec.CalendlyCreatedAt = pgconv.TimePtrFromPgtype(createdAt)

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking records", err)
	}
	return records, nil
}
