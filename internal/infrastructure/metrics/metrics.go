// Package metrics registra los colectores Prometheus del servicio en un Registry propio.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bizdesk"

// Registry registro privado; evita colisiones con el registro global en tests.
var Registry = prometheus.NewRegistry()

var (
	// HTTPRequests peticiones HTTP por método, ruta y status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de peticiones HTTP",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration duración de las peticiones en segundos.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// AnalyticsEvents eventos del pipeline de analítica por tipo y resultado
	// (enqueued, dropped, written, failed).
	AnalyticsEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "events_total",
			Help:      "Eventos de analítica por tipo y resultado",
		},
		[]string{"kind", "outcome"},
	)

	// AnalyticsQueueDepth eventos pendientes en la cola.
	AnalyticsQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "queue_depth",
			Help:      "Eventos en cola pendientes de escribir",
		},
	)

	// DBUp 1 si el último health check de la base respondió.
	DBUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "up",
			Help:      "Estado de cada base lógica (1 = ok)",
		},
		[]string{"store"},
	)

	// AuditFailures escrituras de auditoría fallidas (no bloquean la operación).
	AuditFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "write_failures_total",
			Help:      "Escrituras de auditoría fallidas",
		},
	)

	// RollupRuns ejecuciones del rollup de métricas por periodo y resultado.
	RollupRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rollup",
			Name:      "runs_total",
			Help:      "Ejecuciones del rollup de métricas",
		},
		[]string{"period", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests,
		HTTPDuration,
		AnalyticsEvents,
		AnalyticsQueueDepth,
		DBUp,
		AuditFailures,
		RollupRuns,
	)
}

// ObserveHTTP registra una petición terminada.
func ObserveHTTP(method, route string, status int, seconds float64) {
	s := strconv.Itoa(status)
	HTTPRequests.WithLabelValues(method, route, s).Inc()
	HTTPDuration.WithLabelValues(method, route, s).Observe(seconds)
}

// SetDBUp actualiza el gauge de salud de una base.
func SetDBUp(store string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	DBUp.WithLabelValues(store).Set(v)
}

// Handler expone el Registry en formato Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
