package ttspool

import (
	"testing"

	"github.com/MrWong99/sonicgate/internal/resilience"
	"github.com/MrWong99/sonicgate/internal/ttssession"
	"github.com/MrWong99/sonicgate/pkg/tts"
)

func TestCell_CurrentWithNoSession(t *testing.T) {
	t.Parallel()
	c := newCell(testDialer(), tts.EdgeFree, tts.Credential{}, resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{}), nil)
	if _, ok := c.current(); ok {
		t.Error("expected current() to report no session")
	}
}

func TestCell_CurrentWithLiveSession(t *testing.T) {
	t.Parallel()
	c := newCell(testDialer(), tts.EdgeFree, tts.Credential{}, resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{}), nil)
	s := ttssession.New(nil, tts.EdgeFree)
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	got, ok := c.current()
	if !ok || got != s {
		t.Fatal("expected current() to return the live session")
	}
}

