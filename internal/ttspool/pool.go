package ttspool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/MrWong99/sonicgate/internal/observe"
	"github.com/MrWong99/sonicgate/internal/resilience"
	"github.com/MrWong99/sonicgate/internal/ttsdialer"
	"github.com/MrWong99/sonicgate/internal/ttssession"
	"github.com/MrWong99/sonicgate/pkg/tts"
)

// Pool is the Backend Pool for one backend kind. EdgeFree and
// OfficialPreview pools hold a single cell; Subscription pools hold a
// cell per configured credential plus a round-robin index.
type Pool struct {
	kind    tts.BackendKind
	dialer  *ttsdialer.Dialer
	metrics *observe.Metrics

	// single is used by EdgeFree/OfficialPreview.
	single *cell

	// credentials/cells/index are used by Subscription.
	mu          sync.Mutex
	credentials []tts.Credential
	cells       map[string]*cell
	rrIndex     atomic.Uint64
}

// NewSingle constructs a pool for a backend kind that needs no
// credential (EdgeFree, OfficialPreview). metrics may be nil, in which
// case dial/session instrumentation is skipped.
func NewSingle(kind tts.BackendKind, dialer *ttsdialer.Dialer, metrics *observe.Metrics) *Pool {
	return &Pool{
		kind:    kind,
		dialer:  dialer,
		metrics: metrics,
		single:  newCell(dialer, kind, tts.Credential{}, defaultBreaker(kind.String()), metrics),
	}
}

// NewSubscription constructs a Subscription pool seeded with the given
// credentials. At least one credential is required. metrics may be nil.
func NewSubscription(dialer *ttsdialer.Dialer, credentials []tts.Credential, metrics *observe.Metrics) *Pool {
	p := &Pool{
		kind:        tts.Subscription,
		dialer:      dialer,
		metrics:     metrics,
		credentials: append([]tts.Credential(nil), credentials...),
		cells:       make(map[string]*cell, len(credentials)),
	}
	for _, cred := range credentials {
		p.cells[cred.Hash()] = p.newSubscriptionCell(cred)
	}
	return p
}

// newSubscriptionCell builds a Subscription cell wired to advance the
// pool's round-robin index exactly once per real dial it performs.
func (p *Pool) newSubscriptionCell(cred tts.Credential) *cell {
	c := newCell(p.dialer, tts.Subscription, cred, defaultBreaker("subscription:"+cred.Hash()), p.metrics)
	c.onOpened = p.advanceRoundRobin
	return c
}

func defaultBreaker(name string) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: name})
}

// Acquire returns an open Session for this pool. For Subscription pools,
// cred pins a specific credential; a zero Credential selects the next
// round-robin entry. A pinned credential with no existing cell gets one
// created on the fly.
func (p *Pool) Acquire(ctx context.Context, cred tts.Credential) (*ttssession.Session, error) {
	if p.kind != tts.Subscription {
		return p.single.acquire(ctx)
	}
	return p.acquireSubscription(ctx, cred)
}

func (p *Pool) acquireSubscription(ctx context.Context, cred tts.Credential) (*ttssession.Session, error) {
	c := p.cellFor(cred)
	if c == nil {
		return nil, fmt.Errorf("ttspool: no subscription credentials configured")
	}
	return c.acquire(ctx)
}

// cellFor returns the cell to use, creating one on the fly for a pinned
// credential the pool has not seen before. The round-robin index is no
// longer advanced here: it advances from cell.onOpened, which the
// singleflight-protected dial invokes exactly once per real new-session
// open, regardless of how many concurrent callers were waiting on it.
func (p *Pool) cellFor(cred tts.Credential) *cell {
	if !cred.IsZero() {
		p.mu.Lock()
		defer p.mu.Unlock()
		existing, ok := p.cells[cred.Hash()]
		if !ok {
			existing = p.newSubscriptionCell(cred)
			p.cells[cred.Hash()] = existing
			p.credentials = append(p.credentials, cred)
		}
		return existing
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.credentials) == 0 {
		return nil
	}
	idx := p.rrIndex.Load() % uint64(len(p.credentials))
	selected := p.credentials[idx]
	return p.cells[selected.Hash()]
}

// advanceRoundRobin moves the round-robin index forward by one. Called
// from cell.onOpened after a real dial succeeds.
func (p *Pool) advanceRoundRobin() {
	p.mu.Lock()
	n := uint64(len(p.credentials))
	p.mu.Unlock()
	if n == 0 {
		return
	}
	newIndex := p.rrIndex.Add(1)
	if p.metrics != nil {
		p.metrics.RoundRobinIndex.Add(context.Background(), 1, metric.WithAttributes(
			attribute.Int64("index", int64(newIndex%n)),
		))
	}
}

// Credentials returns the pool's configured credentials (Subscription
// only); nil for single-cell pools.
func (p *Pool) Credentials() []tts.Credential {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]tts.Credential(nil), p.credentials...)
}

// Healthy reports whether at least one cell in the pool is not
// permanently tripped (used by the health checker).
func (p *Pool) Healthy() bool {
	if p.kind != tts.Subscription {
		return p.single.breaker.State() != resilience.StateOpen
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.cells {
		if c.breaker.State() != resilience.StateOpen {
			return true
		}
	}
	return len(p.cells) == 0
}

// String implements fmt.Stringer for diagnostics.
func (p *Pool) String() string {
	return fmt.Sprintf("Pool(%s)", p.kind)
}
