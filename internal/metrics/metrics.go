package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the service's prometheus instruments.
type Collector struct {
	UnitsSizedTotal     *prometheus.CounterVec
	UnitsExcludedTotal  prometheus.Counter
	StagesDisabledTotal prometheus.Counter
	SizingDuration      prometheus.Histogram

	APIRequestsTotal *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	return &Collector{
		UnitsSizedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "units_sized_total",
				Help:      "Units sized, by sizing policy branch",
			},
			[]string{"branch"},
		),

		UnitsExcludedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "units_excluded_total",
				Help:      "Units excluded from sizing (unsupported equipment or invalid inputs)",
			},
		),

		StagesDisabledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stages_disabled_total",
				Help:      "Compressor stages disabled by the airflow-per-capacity repair",
			},
		),

		SizingDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sizing_duration_seconds",
				Help:      "Duration of one unit sizing call",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),

		APIRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
	}
}
