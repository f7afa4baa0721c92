// Package ttsbroker implements the Broker: the public entry point that
// turns a validated SynthesisRequest into a SynthesisResponse by
// choosing a backend, acquiring a Session from its Pool, registering a
// PendingCall, writing the SSML frames, and awaiting completion.
package ttsbroker

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/MrWong99/sonicgate/internal/observe"
	"github.com/MrWong99/sonicgate/internal/ttspool"
	"github.com/MrWong99/sonicgate/pkg/tts"
)

// DefaultWaitTimeout is the broker-enforced deadline for a synthesis
// call to complete.
const DefaultWaitTimeout = 30 * time.Second

// Catalogs bundles the voice catalogs a Broker validates requests
// against, one per backend kind it serves.
type Catalogs struct {
	EdgeFree        *tts.VoiceCatalog
	OfficialPreview *tts.VoiceCatalog
	Subscription    *tts.VoiceCatalog
}

func (c Catalogs) forKind(kind tts.BackendKind) *tts.VoiceCatalog {
	switch kind {
	case tts.EdgeFree:
		return c.EdgeFree
	case tts.OfficialPreview:
		return c.OfficialPreview
	default:
		return c.Subscription
	}
}

// Pools bundles the Backend Pools a Broker dispatches to.
type Pools struct {
	EdgeFree        *ttspool.Pool
	OfficialPreview *ttspool.Pool
	Subscription    *ttspool.Pool
}

func (p Pools) forKind(kind tts.BackendKind) *ttspool.Pool {
	switch kind {
	case tts.EdgeFree:
		return p.EdgeFree
	case tts.OfficialPreview:
		return p.OfficialPreview
	default:
		return p.Subscription
	}
}

// Broker is the public TTS brokering entry point.
type Broker struct {
	catalogs    Catalogs
	pools       Pools
	waitTimeout time.Duration
	metrics     *observe.Metrics
}

// Option configures a Broker at construction time.
type Option func(*Broker)

// WithWaitTimeout overrides DefaultWaitTimeout.
func WithWaitTimeout(d time.Duration) Option {
	return func(b *Broker) { b.waitTimeout = d }
}

// WithMetrics attaches an observe.Metrics instance for synthesis
// duration and error-count instrumentation.
func WithMetrics(m *observe.Metrics) Option {
	return func(b *Broker) { b.metrics = m }
}

// New constructs a Broker. A nil catalog or pool for a given kind means
// that backend is disabled; Synthesize returns ErrBackendDisabled.
func New(catalogs Catalogs, pools Pools, opts ...Option) *Broker {
	b := &Broker{
		catalogs:    catalogs,
		pools:       pools,
		waitTimeout: DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Synthesize validates req against the resolved backend's catalog,
// acquires a Session, writes the SSML frames, and awaits the assembled
// audio, bounded by the Broker's wait timeout.
func (b *Broker) Synthesize(ctx context.Context, req tts.SynthesisRequest) (*tts.SynthesisResponse, error) {
	start := time.Now()
	resp, err := b.synthesize(ctx, req)
	if b.metrics != nil {
		b.metrics.RecordBackendRequest(ctx, req.Backend.String())
		b.metrics.TTSDuration.Record(ctx, time.Since(start).Seconds())
		if err != nil {
			b.metrics.RecordBackendError(ctx, req.Backend.String())
		}
	}
	return resp, err
}

func (b *Broker) synthesize(ctx context.Context, req tts.SynthesisRequest) (*tts.SynthesisResponse, error) {
	pool := b.pools.forKind(req.Backend)
	if pool == nil {
		return nil, fmt.Errorf("%w: %s", tts.ErrBackendDisabled, req.Backend)
	}

	req = b.validate(req)

	session, err := pool.Acquire(ctx, req.Credential)
	if err != nil {
		return nil, err
	}

	call := session.Register(req.RequestID)
	if b.metrics != nil {
		b.metrics.PendingCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", req.Backend.String())))
		defer b.metrics.PendingCalls.Add(context.Background(), -1, metric.WithAttributes(attribute.String("backend", req.Backend.String())))
	}
	if err := session.WriteSynthesis(ctx, req); err != nil {
		session.Unregister(req.RequestID)
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, b.waitTimeout)
	defer cancel()

	select {
	case <-call.Done():
		audio, mediaType, callErr := call.Wait()
		if callErr != nil {
			return nil, callErr
		}
		return &tts.SynthesisResponse{RequestID: req.RequestID, Audio: audio, MediaType: mediaType}, nil
	case <-waitCtx.Done():
		session.Unregister(req.RequestID)
		return nil, fmt.Errorf("%w: request %s", tts.ErrTimeout, req.RequestID)
	}
}

// validate coerces voice/style/rate/pitch/format to legal values,
// absorbing validation errors locally rather than propagating them.
func (b *Broker) validate(req tts.SynthesisRequest) tts.SynthesisRequest {
	catalog := b.catalogs.forKind(req.Backend)

	voice, ok := catalog.Get(req.Voice)
	if !ok {
		req.Voice = tts.DefaultVoice
		voice, _ = catalog.Get(tts.DefaultVoice)
	}
	req.Style = tts.CoerceStyle(voice, req.Style)
	req.Rate = tts.ClampRate(req.Rate)
	req.Pitch = tts.ClampPitch(req.Pitch)
	req.AudioFormat = tts.CoerceAudioFormat(req.AudioFormat)
	if req.RequestID == "" {
		req.RequestID = tts.NewRequestID()
	}
	return req
}

// VoicesFor returns the catalog for a backend kind, or nil if disabled.
func (b *Broker) VoicesFor(kind tts.BackendKind) *tts.VoiceCatalog {
	return b.catalogs.forKind(kind)
}

// PoolFor returns the pool for a backend kind, or nil if disabled.
func (b *Broker) PoolFor(kind tts.BackendKind) *ttspool.Pool {
	return b.pools.forKind(kind)
}
