// Package observe provides application-wide observability primitives for
// sonicgate: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all sonicgate metrics.
const meterName = "github.com/MrWong99/sonicgate"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// TTSDuration tracks end-to-end synthesis latency as observed by the
	// Broker, from request validation through completed audio.
	TTSDuration metric.Float64Histogram

	// DialDuration tracks Upstream Dialer latency: the time from dial
	// start to a handshake-complete, preamble-sent session.
	DialDuration metric.Float64Histogram

	// BackendRequests counts synthesis calls by backend kind. Use with
	// attribute.String("backend", ...).
	BackendRequests metric.Int64Counter

	// BackendErrors counts failed synthesis calls by backend kind.
	BackendErrors metric.Int64Counter

	// ActiveSessions tracks the number of currently open Backend
	// Sessions, by backend kind.
	ActiveSessions metric.Int64UpDownCounter

	// PendingCalls tracks the number of in-flight PendingCalls across
	// all sessions, by backend kind.
	PendingCalls metric.Int64UpDownCounter

	// RoundRobinIndex reports the current round-robin credential index
	// for the Subscription pool, as an observable gauge value recorded
	// on demand (not a running counter).
	RoundRobinIndex metric.Int64Counter

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for voice-synthesis latencies.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TTSDuration, err = m.Float64Histogram("sonicgate.tts.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.DialDuration, err = m.Float64Histogram("sonicgate.dial.duration",
		metric.WithDescription("Latency of upstream WebSocket dial and preamble."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.BackendRequests, err = m.Int64Counter("sonicgate.backend.requests",
		metric.WithDescription("Total synthesis requests by backend kind."),
	); err != nil {
		return nil, err
	}
	if met.BackendErrors, err = m.Int64Counter("sonicgate.backend.errors",
		metric.WithDescription("Total failed synthesis requests by backend kind."),
	); err != nil {
		return nil, err
	}

	if met.ActiveSessions, err = m.Int64UpDownCounter("sonicgate.active_sessions",
		metric.WithDescription("Number of currently open backend sessions, by backend kind."),
	); err != nil {
		return nil, err
	}
	if met.PendingCalls, err = m.Int64UpDownCounter("sonicgate.pending_calls",
		metric.WithDescription("Number of in-flight synthesis calls, by backend kind."),
	); err != nil {
		return nil, err
	}
	if met.RoundRobinIndex, err = m.Int64Counter("sonicgate.subscription.round_robin_advances",
		metric.WithDescription("Count of round-robin credential advances in the Subscription pool."),
	); err != nil {
		return nil, err
	}

	if met.HTTPRequestDuration, err = m.Float64Histogram("sonicgate.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordBackendRequest is a convenience method that records a backend
// request counter increment.
func (m *Metrics) RecordBackendRequest(ctx context.Context, backend string) {
	m.BackendRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", backend)))
}

// RecordBackendError is a convenience method that records a backend
// error counter increment.
func (m *Metrics) RecordBackendError(ctx context.Context, backend string) {
	m.BackendErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", backend)))
}

// SessionOpened records a new active session for backend.
func (m *Metrics) SessionOpened(ctx context.Context, backend string) {
	m.ActiveSessions.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", backend)))
}

// SessionClosed records a session teardown for backend.
func (m *Metrics) SessionClosed(ctx context.Context, backend string) {
	m.ActiveSessions.Add(ctx, -1, metric.WithAttributes(attribute.String("backend", backend)))
}
