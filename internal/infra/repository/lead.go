package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"calendly-lead-sync/internal/domain/lead"
	"calendly-lead-sync/internal/infra"
	"calendly-lead-sync/internal/pkg/pgconv"
)

const leadColumns = "id, domain, emails, emailed, booked, generated_email"

// LeadRepository reads and conditionally updates rows of the leads table
// (tech_scans by default). The table is external; only the booking-related
// columns are ever written.
type LeadRepository struct {
	pool  *pgxpool.Pool
	table string
}

func NewLeadRepository(pool *pgxpool.Pool, table string) *LeadRepository {
	return &LeadRepository{pool: pool, table: table}
}

// FindByEmailContains runs the JSONB containment query: first lead whose
// emails array includes the (already normalized) email. Ordering is whatever
// the store returns; with more than one matching lead the first row wins.
func (r *LeadRepository) FindByEmailContains(ctx context.Context, email string) (*lead.Lead, error) {
	needle, err := json.Marshal([]string{email})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to encode containment needle", err)
	}

	query := "SELECT " + leadColumns + " FROM " + pgx.Identifier{r.table}.Sanitize() +
		" WHERE emails @> $1::jsonb LIMIT 1"

	row := r.pool.QueryRow(ctx, query, needle)
	l, err := scanLead(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("no lead contains email", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("containment query failed", err, infra.KindUnsupportedFilter)
	}
	return l, nil
}

// ListEmailed returns every lead flagged emailed=true. This is the fallback
// matching source; the caller scans emails in memory.
func (r *LeadRepository) ListEmailed(ctx context.Context) ([]lead.Lead, error) {
	query := "SELECT " + leadColumns + " FROM " + pgx.Identifier{r.table}.Sanitize() +
		" WHERE emailed = true"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list emailed leads", err)
	}
	defer rows.Close()

	var leads []lead.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan lead row", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate emailed leads", err)
	}
	return leads, nil
}

// MarkBooked writes the booking flag and identifying fields onto a lead.
// Plain overwrite, no version check: two overlapping runs race last-write-wins
// here, which the sync loop tolerates because it only calls this while
// booked is still false.
func (r *LeadRepository) MarkBooked(ctx context.Context, id uuid.UUID, upd lead.BookingUpdate) error {
	query := "UPDATE " + pgx.Identifier{r.table}.Sanitize() + " SET " +
		"booked = true, booked_at = $2, calendly_event_uri = $3, " +
		"calendly_invitee_email = $4, calendly_event_name = $5 WHERE id = $1"

	tag, err := r.pool.Exec(ctx, query, id,
		pgconv.TimeToPgtype(upd.BookedAt),
		upd.EventURI, upd.InviteeEmail, upd.EventName)
	if err != nil {
		return infra.WrapRepoErr("failed to mark lead booked", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("lead row disappeared before update", nil, infra.KindNotFound)
	}
	return nil
}

func scanLead(row pgx.Row) (*lead.Lead, error) {
	var (
		id             uuid.UUID
		domain         pgtype.Text
		emailsRaw      []byte
		emailed        pgtype.Bool
		booked         pgtype.Bool
		generatedEmail []byte
	)
	if err := row.Scan(&id, &domain, &emailsRaw, &emailed, &booked, &generatedEmail); err != nil {
		return nil, err
	}

	l := &lead.Lead{
		ID:      id,
		Domain:  domain.String,
		Emailed: emailed.Bool,
		Booked:  booked.Bool,
	}

	if len(emailsRaw) > 0 {
		if err := json.Unmarshal(emailsRaw, &l.Emails); err != nil {
			return nil, err
		}
	}
	if len(generatedEmail) > 0 {
		var ge lead.GeneratedEmail
		if err := json.Unmarshal(generatedEmail, &ge); err != nil {
			return nil, err
		}
		l.GeneratedEmail = &ge
	}
	return l, nil
}
