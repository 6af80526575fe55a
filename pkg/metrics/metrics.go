package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CertificateMetrics records issuance and verification outcomes.
type CertificateMetrics struct {
	issuance       *prometheus.CounterVec
	renderDuration prometheus.Histogram
	verifications  *prometheus.CounterVec
	deliveries     *prometheus.CounterVec
}

// Issuance outcome labels.
const (
	OutcomeIssued        = "issued"
	OutcomeAlreadyIssued = "already_issued"
	OutcomeRejected      = "rejected"
	OutcomeFailed        = "failed"

	ResultHit  = "hit"
	ResultMiss = "miss"

	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)

// NewCertificateMetrics registers the certificate metrics on the provided
// registerer. A nil registerer yields a no-op collector set, matching the
// nil-safe method receivers below.
func NewCertificateMetrics(reg prometheus.Registerer) *CertificateMetrics {
	if reg == nil {
		return &CertificateMetrics{}
	}
	issuance := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "certificate_issuance_total",
		Help: "Certificate issuance attempts by outcome.",
	}, []string{"outcome"})
	renderDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "certificate_render_duration_seconds",
		Help:    "Wall time spent rendering and packaging one certificate PDF.",
		Buckets: prometheus.DefBuckets,
	})
	verifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "certificate_verification_total",
		Help: "Public verification lookups by result.",
	}, []string{"result"})
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "certificate_delivery_total",
		Help: "Certificate email delivery attempts by result.",
	}, []string{"result"})
	reg.MustRegister(issuance, renderDuration, verifications, deliveries)
	return &CertificateMetrics{
		issuance:       issuance,
		renderDuration: renderDuration,
		verifications:  verifications,
		deliveries:     deliveries,
	}
}

// IncIssuance increments the issuance counter for the given outcome.
func (m *CertificateMetrics) IncIssuance(outcome string) {
	if m == nil || m.issuance == nil {
		return
	}
	m.issuance.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveRenderDuration records the render+package wall time.
func (m *CertificateMetrics) ObserveRenderDuration(d time.Duration) {
	if m == nil || m.renderDuration == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}

// IncVerification increments the verification counter for the given result.
func (m *CertificateMetrics) IncVerification(result string) {
	if m == nil || m.verifications == nil {
		return
	}
	m.verifications.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncDelivery increments the delivery counter for the given result.
func (m *CertificateMetrics) IncDelivery(result string) {
	if m == nil || m.deliveries == nil {
		return
	}
	m.deliveries.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
