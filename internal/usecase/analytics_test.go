package usecase_test

import (
	"context"
	"testing"

	cr "github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calendly-lead-sync/internal/domain/booking"
	"calendly-lead-sync/internal/usecase"
	usecasemock "calendly-lead-sync/tests/mock/usecase"
)

func strp(s string) *string { return &s }

func sampleRecords() []booking.Record {
	leadID := uuid.New()
	return []booking.Record{
		{InviteeEmail: "a@co.com", EventUUID: "ev-1", MatchedLeadID: &leadID,
			Persona: strp("CTO"), VariantID: strp("v1"), MainTech: strp("React")},
		{InviteeEmail: "b@co.com", EventUUID: "ev-1", MatchedLeadID: &leadID,
			Persona: strp("CTO"), VariantID: strp("v2"), MainTech: strp("Vue")},
		{InviteeEmail: "c@co.com", EventUUID: "ev-2"}, // unmatched, no campaign fields
	}
}

func TestAggregate_Buckets(t *testing.T) {
	a := usecase.Aggregate(sampleRecords(), -1)

	assert.Equal(t, 3, a.TotalBookings)
	assert.Equal(t, 2, a.MatchedBookings)

	wantPersona := map[string]int{"CTO": 2, usecase.UnknownBucket: 1}
	if diff := cmp.Diff(wantPersona, a.ByPersona); diff != "" {
		t.Errorf("ByPersona mismatch (-want +got):\n%s", diff)
	}
	wantVariant := map[string]int{"v1": 1, "v2": 1, usecase.UnknownBucket: 1}
	if diff := cmp.Diff(wantVariant, a.ByVariant); diff != "" {
		t.Errorf("ByVariant mismatch (-want +got):\n%s", diff)
	}
	wantTech := map[string]int{"React": 1, "Vue": 1, usecase.UnknownBucket: 1}
	if diff := cmp.Diff(wantTech, a.ByTech); diff != "" {
		t.Errorf("ByTech mismatch (-want +got):\n%s", diff)
	}
}

// Every record lands in exactly one bucket per dimension, so bucket counts
// always sum to the total.
func TestAggregate_BucketsSumToTotal(t *testing.T) {
	a := usecase.Aggregate(sampleRecords(), -1)

	sum := 0
	for _, c := range a.ByPersona {
		sum += c
	}
	assert.Equal(t, a.TotalBookings, sum)
}

func TestAggregate_EmptyPersonaFallsIntoUnknown(t *testing.T) {
	records := []booking.Record{
		{InviteeEmail: "a@co.com", Persona: strp("")},
		{InviteeEmail: "b@co.com", Persona: nil},
	}

	a := usecase.Aggregate(records, -1)

	assert.Equal(t, 2, a.ByPersona[usecase.UnknownBucket])
}

func TestAggregate_ConversionRate(t *testing.T) {
	t.Run("computed from send total", func(t *testing.T) {
		a := usecase.Aggregate(sampleRecords(), 200)

		require.NotNil(t, a.OverallConversionRate)
		assert.InDelta(t, 0.01, *a.OverallConversionRate, 1e-9) // 2 matched / 200 sends
	})

	t.Run("omitted when source unavailable", func(t *testing.T) {
		a := usecase.Aggregate(sampleRecords(), -1)
		assert.Nil(t, a.OverallConversionRate)
	})

	t.Run("omitted when zero sends", func(t *testing.T) {
		a := usecase.Aggregate(sampleRecords(), 0)
		assert.Nil(t, a.OverallConversionRate)
	})
}

func TestAggregate_NoRecords(t *testing.T) {
	a := usecase.Aggregate(nil, 100)

	assert.Zero(t, a.TotalBookings)
	assert.Zero(t, a.MatchedBookings)
	assert.Empty(t, a.ByPersona)
	// 0 matched / 100 sends is still a reportable rate of zero.
	require.NotNil(t, a.OverallConversionRate)
	assert.Zero(t, *a.OverallConversionRate)
}

func TestAnalyticsReporter_Report(t *testing.T) {
	ctx := context.Background()

	t.Run("send log available", func(t *testing.T) {
		records := &usecasemock.BookingRecordStore{}
		sendLog := &usecasemock.SendLogStore{}
		records.On("ListAll", ctx).Return(sampleRecords(), nil).Once()
		sendLog.On("TotalSendCount", ctx).Return(int64(100), nil).Once()

		reporter := usecase.NewAnalyticsReporter(records, sendLog, testLogger())
		a, err := reporter.Report(ctx)

		require.NoError(t, err)
		require.NotNil(t, a.OverallConversionRate)
		assert.InDelta(t, 0.02, *a.OverallConversionRate, 1e-9)
	})

	t.Run("send log missing degrades to omitted rate", func(t *testing.T) {
		records := &usecasemock.BookingRecordStore{}
		sendLog := &usecasemock.SendLogStore{}
		records.On("ListAll", ctx).Return(sampleRecords(), nil).Once()
		sendLog.On("TotalSendCount", ctx).Return(int64(0), cr.New(`relation "email_stats" does not exist`)).Once()

		reporter := usecase.NewAnalyticsReporter(records, sendLog, testLogger())
		a, err := reporter.Report(ctx)

		require.NoError(t, err, "a missing send log is not an error")
		assert.Nil(t, a.OverallConversionRate)
		assert.Equal(t, 3, a.TotalBookings)
	})

	t.Run("record listing failure propagates", func(t *testing.T) {
		records := &usecasemock.BookingRecordStore{}
		sendLog := &usecasemock.SendLogStore{}
		records.On("ListAll", ctx).Return(nil, cr.New("connection lost")).Once()

		reporter := usecase.NewAnalyticsReporter(records, sendLog, testLogger())
		_, err := reporter.Report(ctx)

		require.Error(t, err)
	})
}
