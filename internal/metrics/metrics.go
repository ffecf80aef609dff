package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for outbound API calls and inbound upload
// notifications.
type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	notifications *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pure360",
			Name:      "requests_total",
			Help:      "Outbound Pure360 API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pure360",
			Name:      "request_duration_seconds",
			Help:      "Latency of outbound Pure360 API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pure360",
			Name:      "upload_notifications_total",
			Help:      "List upload notifications received, by HTTP status returned.",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.notifications} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveRequest records one outbound request.
func (m *Metrics) ObserveRequest(endpoint, outcome string, d time.Duration) {
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.duration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveNotification records one inbound notification and the status it
// was answered with.
func (m *Metrics) ObserveNotification(status string) {
	m.notifications.WithLabelValues(status).Inc()
}
