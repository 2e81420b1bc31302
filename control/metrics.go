// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus metrics of a benchmark run.

package control

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one run on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	configurations *prometheus.CounterVec
	passSeconds    *prometheus.HistogramVec
	operations     *prometheus.CounterVec
	realSeconds    *prometheus.GaugeVec
}

// NewMetrics registers the benchmark collectors plus the Go runtime collector.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		configurations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "refbench",
			Name:      "configurations_total",
			Help:      "Benchmark configurations by flavor and outcome.",
		}, []string{"flavor", "outcome"}),
		passSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "refbench",
			Name:      "pass_seconds",
			Help:      "Wall time of one cohort pass.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"flavor", "phase"}),
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "refbench",
			Name:      "operations_total",
			Help:      "Pointer operations executed by workers.",
		}, []string{"flavor"}),
		realSeconds: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "refbench",
			Name:      "real_seconds",
			Help:      "Mean measured real time per configuration.",
		}, []string{"flavor", "threads"}),
	}
}

// RecordConfiguration counts a finished configuration.
func (m *Metrics) RecordConfiguration(flavor, outcome string) {
	m.configurations.WithLabelValues(flavor, outcome).Inc()
}

// ObservePass records one pass of the given phase.
func (m *Metrics) ObservePass(flavor, phase string, d time.Duration) {
	m.passSeconds.WithLabelValues(flavor, phase).Observe(d.Seconds())
}

// AddOperations counts worker operations.
func (m *Metrics) AddOperations(flavor string, n int) {
	m.operations.WithLabelValues(flavor).Add(float64(n))
}

// SetRealTime publishes the mean real time of a configuration.
func (m *Metrics) SetRealTime(flavor string, threads int, d time.Duration) {
	m.realSeconds.WithLabelValues(flavor, strconv.Itoa(threads)).Set(d.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
