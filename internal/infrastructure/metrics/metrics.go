// Package metrics expone los colectores Prometheus del portal.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal_viviendas"

// Metrics agrupa el registro y los colectores. Una instancia por proceso.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	transitions  *prometheus.CounterVec
	purged       prometheus.Counter
	purgeRuns    *prometheus.CounterVec
}

// New crea un registro propio con los colectores de la aplicación, Go y proceso.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Solicitudes HTTP en curso.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Solicitudes HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las solicitudes HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		}, []string{"method", "route"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "anexo11",
			Name:      "transitions_total",
			Help:      "Transiciones aplicadas del Anexo 11.",
		}, []string{"accion"}),
		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registro",
			Name:      "prepostulantes_purged_total",
			Help:      "Pre-registros vencidos eliminados.",
		}),
		purgeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registro",
			Name:      "purge_runs_total",
			Help:      "Ejecuciones del job de purga.",
		}, []string{"success"}),
	}
	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.transitions,
		m.purged,
		m.purgeRuns,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// InFlight incrementa el gauge y devuelve la función que lo decrementa.
func (m *Metrics) InFlight() func() {
	m.httpInFlight.Inc()
	return m.httpInFlight.Dec
}

// ObserveHTTP registra una solicitud. route es el patrón (/api/anexo11/:id), no la URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	method = strings.ToUpper(method)
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordTransition cuenta una transición del Anexo 11 ("INICIADO→EN_INSPECCION").
func (m *Metrics) RecordTransition(accion string) {
	m.transitions.WithLabelValues(accion).Inc()
}

// RecordPurge registra una corrida del job de purga.
func (m *Metrics) RecordPurge(n int64, err error) {
	if err != nil {
		m.purgeRuns.WithLabelValues("false").Inc()
		return
	}
	m.purgeRuns.WithLabelValues("true").Inc()
	m.purged.Add(float64(n))
}
