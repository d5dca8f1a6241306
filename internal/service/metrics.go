package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "farmtech"

// Metrics holds the simulation counters. Build it with NewMetrics; a nil
// registerer gives unregistered collectors, which is what tests use.
type Metrics struct {
	Ticks            prometheus.Counter
	Readings         *prometheus.CounterVec
	LastReading      *prometheus.GaugeVec
	Alerts           *prometheus.CounterVec
	Notifications    prometheus.Counter
	DispatchFailures prometheus.Counter
	Irrigations      prometheus.Counter
	StoreErrors      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: "ticks_total",
			Help: "Simulation ticks completed.",
		}),
		Readings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: "readings_total",
			Help: "Simulated readings by sensor kind.",
		}, []string{"kind"}),
		LastReading: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace, Name: "sensor_value",
			Help: "Latest simulated value per sensor.",
		}, []string{"sensor_id"}),
		Alerts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: "alerts_total",
			Help: "Alerts recorded by severity.",
		}, []string{"severity"}),
		Notifications: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: "notifications_total",
			Help: "Contacts reached by alert notifications.",
		}),
		DispatchFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: "dispatch_failures_total",
			Help: "Alert dispatches that reported an error.",
		}),
		Irrigations: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: "irrigation_events_total",
			Help: "Automatic irrigation activations.",
		}),
		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace, Name: "store_errors_total",
			Help: "Persistence failures by operation.",
		}, []string{"op"}),
	}
}

func (m *Metrics) storeError(op string) {
	m.StoreErrors.WithLabelValues(op).Inc()
}
