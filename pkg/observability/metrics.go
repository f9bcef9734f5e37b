package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	Port        int
}

// InitMetrics initializes the Prometheus metrics exporter.
// Returns the MeterProvider and an HTTP handler for the /metrics endpoint.
func InitMetrics(_ MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.Handler()

	return provider, handler, nil
}

// DecisionMetrics counts lending decisions by outcome. Registered once per
// process via NewDecisionMetrics.
type DecisionMetrics struct {
	CustomersRegistered prometheus.Counter
	LoansIssued         prometheus.Counter
	Decisions           *prometheus.CounterVec
}

// NewDecisionMetrics registers decision counters on the default registry.
func NewDecisionMetrics(service string) *DecisionMetrics {
	labels := prometheus.Labels{"service": service}
	return &DecisionMetrics{
		CustomersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "credit_customers_registered_total",
			Help:        "Customers registered since process start.",
			ConstLabels: labels,
		}),
		LoansIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "credit_loans_issued_total",
			Help:        "Loans issued since process start.",
			ConstLabels: labels,
		}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "credit_eligibility_decisions_total",
			Help:        "Eligibility decisions by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
	}
}
