package apiclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Операции удалённого API.
const (
	OperationValidate = "validate"
	OperationClaim    = "claim"
	OperationResults  = "results"
	OperationStatus   = "status"
)

// Исходы запросов.
const (
	OutcomeOK           = "ok"
	OutcomeSoftFailure  = "soft_failure"
	OutcomeNotFound     = "not_found"
	OutcomeServerError  = "server_error"
	OutcomeNetworkError = "network_error"
	OutcomeDecodeError  = "decode_error"
)

// Metrics - счётчики и гистограммы запросов к удалённому API.
// Нулевой указатель допустим: метрики просто не пишутся.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics создаёт метрики и регистрирует их в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goodhang",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Remote API calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "goodhang",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Remote API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(operation, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
