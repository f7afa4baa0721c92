// Package ttspool implements the Backend Pool: the holder of the
// currently-live Session for a backend, and the gate that prevents
// thundering-herd reconnects when many callers need a session at once.
//
// EdgeFree and OfficialPreview each get a single cell. Subscription gets
// a map of cells keyed by credential hash, with round-robin selection
// across configured credentials plus support for per-request credential
// pinning.
package ttspool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/MrWong99/sonicgate/internal/observe"
	"github.com/MrWong99/sonicgate/internal/resilience"
	"github.com/MrWong99/sonicgate/internal/ttsdialer"
	"github.com/MrWong99/sonicgate/internal/ttssession"
	"github.com/MrWong99/sonicgate/pkg/tts"
)

// spinInterval is the busy-wait interval spin-waiters use while another
// goroutine holds the opening latch.
const spinInterval = 200 * time.Millisecond

// cell holds the currently-live Session for one backend/credential, plus
// the machinery that serializes reconnect attempts.
//
// singleflight.Group collapses concurrent dial calls into one in-flight
// attempt: callers that lose the singleflight race block on Do's shared
// result rather than polling, which satisfies "only one task performs
// the dial" without needing a literal spin loop for the common case.
// The explicit spin-wait path remains for the case where a session dies
// between a waiter's wake-up and its re-check (see acquire).
type cell struct {
	dialer  *ttsdialer.Dialer
	breaker *resilience.CircuitBreaker
	kind    tts.BackendKind
	cred    tts.Credential
	metrics *observe.Metrics

	// onOpened, if set, is invoked exactly once per successful dial, from
	// within the singleflight-protected closure — never once per caller
	// blocked on that dial. The Subscription pool uses this to advance
	// its round-robin index only on real new-session opens.
	onOpened func()

	flight singleflight.Group

	mu      sync.Mutex
	session *ttssession.Session
}

func newCell(dialer *ttsdialer.Dialer, kind tts.BackendKind, cred tts.Credential, breaker *resilience.CircuitBreaker, metrics *observe.Metrics) *cell {
	return &cell{dialer: dialer, kind: kind, cred: cred, breaker: breaker, metrics: metrics}
}

// current returns the live session for this cell, if one is open.
func (c *cell) current() (*ttssession.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, false
	}
	select {
	case <-c.session.Done():
		c.session = nil
		return nil, false
	default:
		return c.session, true
	}
}

// acquire returns a usable Session for this cell, dialing a new one if
// necessary. Concurrent callers collapse onto a single dial via
// singleflight; callers that observe a session die right after it was
// installed retry the whole acquire loop as a spin-wait.
func (c *cell) acquire(ctx context.Context) (*ttssession.Session, error) {
	for {
		if s, ok := c.current(); ok {
			return s, nil
		}

		v, err, _ := c.flight.Do(c.cred.Hash(), func() (any, error) {
			return c.dial(ctx)
		})
		if err != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(ttsdialer.RetryBackoff):
			}
			return nil, err
		}

		s := v.(*ttssession.Session)
		c.mu.Lock()
		c.session = s
		c.mu.Unlock()

		select {
		case <-s.Done():
			// Died between install and our check; loop and redial.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(spinInterval):
			}
			continue
		default:
			return s, nil
		}
	}
}

func (c *cell) dial(ctx context.Context) (*ttssession.Session, error) {
	var session *ttssession.Session
	start := time.Now()
	err := c.breaker.Execute(func() error {
		conn, _, dialErr := c.dialer.Dial(ctx, c.kind, c.cred)
		if dialErr != nil {
			return dialErr
		}
		session = ttssession.New(conn, c.kind)
		go func() {
			_ = session.Run(context.Background())
		}()
		return nil
	})
	if c.metrics != nil {
		c.metrics.DialDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attribute.String("backend", c.kind.String())))
	}
	if err != nil {
		return nil, fmt.Errorf("ttspool: dial %s: %w", c.kind, err)
	}
	if c.metrics != nil {
		c.metrics.SessionOpened(ctx, c.kind.String())
		go func() {
			<-session.Done()
			c.metrics.SessionClosed(context.Background(), c.kind.String())
		}()
	}
	if c.onOpened != nil {
		c.onOpened()
	}
	return session, nil
}
