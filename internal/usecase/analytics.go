package usecase

import (
	"context"
	"log/slog"
	"sort"

	"calendly-lead-sync/internal/domain/booking"
)

// UnknownBucket collects records whose grouping field is absent, so every
// record lands in exactly one bucket per dimension.
const UnknownBucket = "Unknown"

// Analytics is the aggregate over all persisted booking records.
type Analytics struct {
	TotalBookings   int
	MatchedBookings int
	ByPersona       map[string]int
	ByVariant       map[string]int
	ByTech          map[string]int
	// OverallConversionRate is matched / total sends; nil when the send log
	// source is unavailable.
	OverallConversionRate *float64
}

// Aggregate folds booking records into per-dimension counts. totalSends < 0
// means the send log was unavailable and the rate is omitted.
func Aggregate(records []booking.Record, totalSends int64) Analytics {
	a := Analytics{
		TotalBookings: len(records),
		ByPersona:     make(map[string]int),
		ByVariant:     make(map[string]int),
		ByTech:        make(map[string]int),
	}

	for _, rec := range records {
		if rec.MatchedLeadID != nil {
			a.MatchedBookings++
		}
		a.ByPersona[bucket(rec.Persona)]++
		a.ByVariant[bucket(rec.VariantID)]++
		a.ByTech[bucket(rec.MainTech)]++
	}

	if totalSends > 0 {
		rate := float64(a.MatchedBookings) / float64(totalSends)
		a.OverallConversionRate = &rate
	}

	return a
}

func bucket(v *string) string {
	if v == nil || *v == "" {
		return UnknownBucket
	}
	return *v
}

// AnalyticsReporter loads persisted records and the optional send log and
// produces the aggregate.
type AnalyticsReporter struct {
	records BookingRecordStore
	sendLog SendLogStore
	logger  *slog.Logger
}

func NewAnalyticsReporter(records BookingRecordStore, sendLog SendLogStore, logger *slog.Logger) *AnalyticsReporter {
	return &AnalyticsReporter{records: records, sendLog: sendLog, logger: logger}
}

func (r *AnalyticsReporter) Report(ctx context.Context) (Analytics, error) {
	records, err := r.records.ListAll(ctx)
	if err != nil {
		return Analytics{}, err
	}

	totalSends := int64(-1)
	if sends, err := r.sendLog.TotalSendCount(ctx); err != nil {
		// The send log table may simply not exist; the rate is omitted.
		r.logger.Debug("send log unavailable, omitting conversion rate", "error", err.Error())
	} else {
		totalSends = sends
	}

	return Aggregate(records, totalSends), nil
}

// LogSummary writes the post-sync analytics block: totals, per-persona
// counts, and the top ten variants and technologies.
func (a Analytics) LogSummary(logger *slog.Logger) {
	logger.Info("booking analytics",
		"total_bookings", a.TotalBookings,
		"matched_bookings", a.MatchedBookings)

	for _, kv := range sortedByCount(a.ByPersona, 0) {
		logger.Info("bookings by persona", "persona", kv.key, "count", kv.count)
	}
	for _, kv := range sortedByCount(a.ByVariant, 10) {
		logger.Info("bookings by variant", "variant", kv.key, "count", kv.count)
	}
	for _, kv := range sortedByCount(a.ByTech, 10) {
		logger.Info("bookings by technology", "tech", kv.key, "count", kv.count)
	}

	if a.OverallConversionRate != nil {
		logger.Info("overall conversion rate", "rate", *a.OverallConversionRate)
	}
}

type keyCount struct {
	key   string
	count int
}

func sortedByCount(m map[string]int, limit int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, c := range m {
		out = append(out, keyCount{key: k, count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
