//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"calendly-lead-sync/internal/domain/booking"
	"calendly-lead-sync/internal/domain/lead"
	"calendly-lead-sync/internal/infra"
	"calendly-lead-sync/internal/infra/db"
	"calendly-lead-sync/internal/infra/repository"
	"calendly-lead-sync/internal/pkg/config"
)

var (
	containerOnce sync.Once
	container     testcontainers.Container
	containerErr  error

	testUser     = "test"
	testPassword = "testpass"
)

// leadsFixtureDDL mirrors the slice of the external tech_scans table the
// worker reads and writes. The real table has many more columns.
const leadsFixtureDDL = `
CREATE TABLE IF NOT EXISTS tech_scans (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    domain text,
    emails jsonb,
    emailed boolean DEFAULT false,
    booked boolean DEFAULT false,
    booked_at timestamptz,
    calendly_event_uri text,
    calendly_invitee_email text,
    calendly_event_name text,
    generated_email jsonb
);
CREATE TABLE IF NOT EXISTS email_stats (
    variant_id text PRIMARY KEY,
    send_count integer NOT NULL DEFAULT 0
);
`

func startPostgres(t *testing.T) (host string, port nat.Port) {
	t.Helper()
	containerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=256m",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testUser, testPassword, host, port.Port())
			}),
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		container, containerErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
	})
	require.NoError(t, containerErr, "failed to start postgres container")

	ctx := context.Background()
	h, err := container.Host(ctx)
	require.NoError(t, err)
	p, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	return h, p
}

// setupDB creates a fresh database per test, applies the goose migrations and
// the fixture DDL, and returns a connected pool.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	host, port := startPostgres(t)

	dbName := "testdb_" + uuid.New().String()[:8]
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, host, port.Port())
	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err)
	defer adminPool.Close()
	_, err = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
	require.NoError(t, err)

	cfg := config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
	}

	require.NoError(t, db.RunMigrations(cfg))

	pool, cleanup, err := db.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	_, err = pool.Exec(ctx, leadsFixtureDDL)
	require.NoError(t, err)

	return pool
}

func insertLead(t *testing.T, pool *pgxpool.Pool, l lead.Lead) uuid.UUID {
	t.Helper()
	emails, err := json.Marshal(l.Emails)
	require.NoError(t, err)

	var ge []byte
	if l.GeneratedEmail != nil {
		ge, err = json.Marshal(l.GeneratedEmail)
		require.NoError(t, err)
	}

	var id uuid.UUID
	err = pool.QueryRow(context.Background(),
		`INSERT INTO tech_scans (domain, emails, emailed, booked, generated_email)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		l.Domain, emails, l.Emailed, l.Booked, ge).Scan(&id)
	require.NoError(t, err)
	return id
}

func sampleRecord(eventUUID, email string) booking.Record {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	return booking.Record{
		InviteeEmail:   email,
		InviteeName:    "Jane",
		EventURI:       "https://api.calendly.com/scheduled_events/" + eventUUID,
		EventUUID:      eventUUID,
		EventName:      "Intro Call",
		EventStartTime: start,
		EventEndTime:   start.Add(30 * time.Minute),
		EventStatus:    booking.EventStatusActive,
		InviteeStatus:  "active",
	}
}

func TestBookingRecordRepository_UpsertIsIdempotent(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := repository.NewBookingRecordRepository(pool, "calendly_bookings")

	rec := sampleRecord("ev-1", "jane@co.com")
	require.NoError(t, repo.Upsert(ctx, rec))
	require.NoError(t, repo.Upsert(ctx, rec))

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM calendly_bookings").Scan(&count))
	assert.Equal(t, 1, count, "re-upserting the same key must not create a second row")
}

func TestBookingRecordRepository_UpsertReplacesInPlace(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := repository.NewBookingRecordRepository(pool, "calendly_bookings")

	rec := sampleRecord("ev-1", "jane@co.com")
	require.NoError(t, repo.Upsert(ctx, rec))

	leadID := uuid.New()
	rec.MatchedLeadID = &leadID
	persona := "CTO"
	rec.Persona = &persona
	require.NoError(t, repo.Upsert(ctx, rec))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].MatchedLeadID)
	assert.Equal(t, leadID, *records[0].MatchedLeadID)
	require.NotNil(t, records[0].Persona)
	assert.Equal(t, "CTO", *records[0].Persona)
}

func TestBookingRecordRepository_DistinctKeysCoexist(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := repository.NewBookingRecordRepository(pool, "calendly_bookings")

	require.NoError(t, repo.Upsert(ctx, sampleRecord("ev-1", "jane@co.com")))
	require.NoError(t, repo.Upsert(ctx, sampleRecord("ev-1", "other@co.com")))
	require.NoError(t, repo.Upsert(ctx, sampleRecord("ev-2", "jane@co.com")))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLeadRepository_FindByEmailContains(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := repository.NewLeadRepository(pool, "tech_scans")

	wantID := insertLead(t, pool, lead.Lead{
		Domain:  "co.com",
		Emails:  []string{"other@co.com", "jane@co.com"},
		Emailed: true,
		GeneratedEmail: &lead.GeneratedEmail{
			Persona: "CTO", VariantID: "v1", MainTech: "React",
		},
	})
	insertLead(t, pool, lead.Lead{Domain: "x.com", Emails: []string{"someone@x.com"}, Emailed: true})

	got, err := repo.FindByEmailContains(ctx, "jane@co.com")
	require.NoError(t, err)
	assert.Equal(t, wantID, got.ID)
	assert.Equal(t, "co.com", got.Domain)
	require.NotNil(t, got.GeneratedEmail)
	assert.Equal(t, "CTO", got.GeneratedEmail.Persona)

	_, err = repo.FindByEmailContains(ctx, "nobody@co.com")
	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestLeadRepository_ListEmailed(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := repository.NewLeadRepository(pool, "tech_scans")

	insertLead(t, pool, lead.Lead{Domain: "a.com", Emails: []string{"a@a.com"}, Emailed: true})
	insertLead(t, pool, lead.Lead{Domain: "b.com", Emails: []string{"b@b.com"}, Emailed: false})

	leads, err := repo.ListEmailed(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "a.com", leads[0].Domain)
}

func TestLeadRepository_MarkBooked(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := repository.NewLeadRepository(pool, "tech_scans")

	id := insertLead(t, pool, lead.Lead{Domain: "co.com", Emails: []string{"jane@co.com"}, Emailed: true})

	bookedAt := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	err := repo.MarkBooked(ctx, id, lead.BookingUpdate{
		BookedAt:     bookedAt,
		EventURI:     "https://api.calendly.com/scheduled_events/ev-1",
		EventName:    "Intro Call",
		InviteeEmail: "jane@co.com",
	})
	require.NoError(t, err)

	var (
		booked    bool
		gotAt     time.Time
		eventName string
	)
	err = pool.QueryRow(ctx,
		"SELECT booked, booked_at, calendly_event_name FROM tech_scans WHERE id = $1", id).
		Scan(&booked, &gotAt, &eventName)
	require.NoError(t, err)
	assert.True(t, booked)
	assert.True(t, bookedAt.Equal(gotAt))
	assert.Equal(t, "Intro Call", eventName)
}

func TestLeadRepository_MarkBooked_MissingRow(t *testing.T) {
	pool := setupDB(t)
	repo := repository.NewLeadRepository(pool, "tech_scans")

	err := repo.MarkBooked(context.Background(), uuid.New(), lead.BookingUpdate{})
	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestSendLogRepository_TotalSendCount(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	repo := repository.NewSendLogRepository(pool)

	_, err := pool.Exec(ctx,
		"INSERT INTO email_stats (variant_id, send_count) VALUES ('v1', 120), ('v2', 80)")
	require.NoError(t, err)

	total, err := repo.TotalSendCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(200), total)
}
