package observability

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	prescriptionsGenerated = prescriptionCounterVec("prescriptions_generated_total",
		"Number of prescriptions generated, by risk category.", "risk_category")

	validationFailures = prescriptionCounterVec("validation_failures_total",
		"Number of rejected assessments or feedback payloads, by offending field.", "field")

	feedbackAdjustments = prescriptionCounterVec("feedback_adjustments_total",
		"Number of feedback driven adjustments, by RPE delta.", "delta")

	cacheInvalidationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exerciserx",
		Subsystem: "cache",
		Name:      "invalidation_failures_total",
		Help:      "Number of cache invalidation calls that failed after a prescription was stored.",
	})

	// PublishFailures counts domain events that could not be written to the broker, by event type.
	PublishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exerciserx",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Number of domain events that failed to publish.",
	}, []string{"event_type"})

	generationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "exerciserx",
		Subsystem: "engine",
		Name:      "generation_duration_seconds",
		Help:      "Time spent generating a prescription.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05},
	})

	lastStoredGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exerciserx",
		Subsystem: "persistence",
		Name:      "last_prescription_stored_timestamp_seconds",
		Help:      "Unix timestamp of the most recent prescription persisted.",
	})
)

func prescriptionCounterVec(name, help, label string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exerciserx",
		Subsystem: "prescription",
		Name:      name,
		Help:      help,
	}, []string{label})
}

func init() {
	prometheus.MustRegister(
		prescriptionsGenerated,
		validationFailures,
		feedbackAdjustments,
		cacheInvalidationFailures,
		PublishFailures,
		generationDuration,
		lastStoredGauge,
	)
}

// RecordGenerated counts a generated prescription and observes how long generation took.
func RecordGenerated(riskCategory string, took time.Duration) {
	prescriptionsGenerated.WithLabelValues(riskCategory).Inc()
	generationDuration.Observe(took.Seconds())
}

// RecordValidationFailure counts a rejected input by field name. List indexes are dropped, so
// "conditions[3]" is counted as "conditions".
func RecordValidationFailure(field string) {
	if name, _, indexed := strings.Cut(field, "["); indexed {
		field = name
	}
	validationFailures.WithLabelValues(field).Inc()
}

// RecordFeedbackAdjustment counts an applied feedback delta.
func RecordFeedbackAdjustment(delta int) {
	feedbackAdjustments.WithLabelValues(strconv.Itoa(delta)).Inc()
}

// RecordCacheInvalidationFailure counts a failed invalidation call.
func RecordCacheInvalidationFailure() {
	cacheInvalidationFailures.Inc()
}

// RecordPublishFailure counts an event that could not be published.
func RecordPublishFailure(eventType string) {
	PublishFailures.WithLabelValues(eventType).Inc()
}

// RecordPrescriptionStored updates the persistence watermark gauge.
func RecordPrescriptionStored(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastStoredGauge.Set(float64(ts.Unix()))
}
