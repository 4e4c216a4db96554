// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics defines the Prometheus collectors shared by the vault
// service, the blob stores, the blob server and the mirror worker.
//
// Every recording method is safe to call on a nil *Metrics, so components
// can be built without metrics in tests and in the CLI.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vault"

// Metrics owns a private registry and the collectors registered in it.
type Metrics struct {
	registry *prometheus.Registry

	vaultOperations *prometheus.CounterVec
	kdfDuration     *prometheus.HistogramVec
	blobOperations  *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	mirrorCopies    *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		vaultOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Vault operations by operation and result kind.",
		}, []string{"op", "result"}),
		kdfDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kdf_duration_seconds",
			Help:      "Time spent sealing or opening, dominated by key derivation.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"op"}),
		blobOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blob_operations_total",
			Help: "Blob store calls by backend, operation and result.",
		}, []string{"backend", "op", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		mirrorCopies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mirror_copies_total",
			Help:      "Blobs handled by the mirror worker by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.vaultOperations,
		m.kdfDuration,
		m.blobOperations,
		m.httpRequests,
		m.httpDuration,
		m.mirrorCopies,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordVault counts one vault operation.
func (m *Metrics) RecordVault(op, result string) {
	if m == nil {
		return
	}
	m.vaultOperations.WithLabelValues(op, result).Inc()
}

// ObserveKDF records how long a seal or open took.
func (m *Metrics) ObserveKDF(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.kdfDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordBlob counts one blob store call.
func (m *Metrics) RecordBlob(backend, op, result string) {
	if m == nil {
		return
	}
	m.blobOperations.WithLabelValues(backend, op, result).Inc()
}

// RecordHTTP counts one served request and its latency.
func (m *Metrics) RecordHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordMirror counts one blob handled by the mirror worker. Result is
// "copied", "skipped" or "failed".
func (m *Metrics) RecordMirror(result string) {
	if m == nil {
		return
	}
	m.mirrorCopies.WithLabelValues(result).Inc()
}
