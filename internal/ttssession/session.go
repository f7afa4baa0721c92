// Package ttssession implements the Backend Session: one live upstream
// WebSocket, its write serializer, its per-requestId PendingCall map,
// and the read loop that parses the upstream framing protocol and
// dispatches completions.
//
// The read-loop/write-lock/lifecycle shape is grounded in the Realtime
// WebSocket session type in the example pack (a dedicated receive-loop
// goroutine dispatching on message type, idempotent close via
// sync.Once); the wire framing itself (text header blocks, the 2-byte
// big-endian binary header length, the no-data sentinel) is specific to
// this protocol and transcribed from the original service.
package ttssession

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

// Session owns one open upstream WebSocket connection. It must be
// started with Run in its own goroutine immediately after construction;
// Run blocks until the connection fails or Close is called.
type Session struct {
	conn *websocket.Conn
	kind tts.BackendKind

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]*PendingCall

	closeOnce sync.Once
	closeCh   chan struct{}
}

// New wraps an already-dialed connection as a Session. The caller must
// invoke Run to begin processing inbound frames.
func New(conn *websocket.Conn, kind tts.BackendKind) *Session {
	return &Session{
		conn:    conn,
		kind:    kind,
		pending: make(map[string]*PendingCall),
		closeCh: make(chan struct{}),
	}
}

// Done returns a channel that closes when the session's read loop has
// exited, whether due to a read error, peer close, or an explicit
// Close call.
func (s *Session) Done() <-chan struct{} {
	return s.closeCh
}

// Close tears the session down. Safe to call multiple times and
// concurrently with Run.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.conn.Close(websocket.StatusNormalClosure, "session closed")
		close(s.closeCh)
	})
}

// Register creates and stores a PendingCall for requestID. It must be
// called before the first outbound frame referencing requestID is
// written, per the session map invariant.
func (s *Session) Register(requestID string) *PendingCall {
	call := newPendingCall(requestID)
	s.pendingMu.Lock()
	s.pending[requestID] = call
	s.pendingMu.Unlock()
	return call
}

// Unregister removes requestID from the pending map, returning the call
// if present. Callers that give up waiting on a call (e.g. the broker's
// deadline) must call this so the pending map stays in sync with the
// set of calls actually in flight.
func (s *Session) Unregister(requestID string) (*PendingCall, bool) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	call, ok := s.pending[requestID]
	if ok {
		delete(s.pending, requestID)
	}
	return call, ok
}

// lookup returns the pending call for requestID without removing it.
func (s *Session) lookup(requestID string) (*PendingCall, bool) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	call, ok := s.pending[requestID]
	return call, ok
}

// PendingCount reports the number of calls currently registered. Used
// for the pending-call gauge.
func (s *Session) PendingCount() int {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return len(s.pending)
}

// Run reads frames from the upstream connection until it errors or
// Close is called, dispatching each to the appropriate PendingCall. Run
// never explicitly fails pending calls on exit: per the design's
// resolution of the source's ambiguous teardown behavior, abandoned
// calls simply rely on the broker's external deadline.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()

	for {
		msgType, payload, err := s.conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("%w: read: %v", tts.ErrUpstreamTransport, err)
		}

		switch msgType {
		case websocket.MessageText:
			s.handleText(payload)
		case websocket.MessageBinary:
			s.handleBinary(payload)
		}
	}
}

func (s *Session) handleText(payload []byte) {
	headers, _ := splitTextFrame(payload)
	path := headers.get("Path")
	requestID := headers.get("X-RequestId")

	switch path {
	case "turn.start":
		// No-op: stream has begun.
	case "turn.end":
		call, ok := s.Unregister(requestID)
		if !ok {
			slog.Debug("turn.end for unknown or already-resolved call", "request_id", requestID)
			return
		}
		call.complete()
	default:
		slog.Debug("unhandled text frame path", "path", path, "request_id", requestID)
	}
}

func (s *Session) handleBinary(frame []byte) {
	headers, payload, hasData := splitBinaryFrame(frame)
	requestID := headers.get("X-RequestId")
	if requestID == "" {
		slog.Debug("binary frame without X-RequestId")
		return
	}

	call, ok := s.lookup(requestID)
	if !ok {
		return
	}
	if !hasData {
		return
	}
	call.appendAudio(payload, headers.get("Content-Type"))
}
