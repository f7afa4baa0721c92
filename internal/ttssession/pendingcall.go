package ttssession

import "sync"

// PendingCall is the server-side state for one in-flight synthesis,
// keyed by requestId in a Session's call map. It accumulates audio
// payload slices in on-wire arrival order and is resolved exactly once,
// either by the read loop (on turn.end) or by the session tearing down.
type PendingCall struct {
	RequestID string

	mu        sync.Mutex
	buf       []byte
	mediaType string
	mediaSet  bool

	done   chan struct{}
	once   sync.Once
	err    error
}

// newPendingCall allocates a PendingCall registered under requestID.
func newPendingCall(requestID string) *PendingCall {
	return &PendingCall{
		RequestID: requestID,
		done:      make(chan struct{}),
	}
}

// appendAudio appends a payload slice to the accumulating buffer and,
// if this is the first data frame for the call, records mediaType.
func (c *PendingCall) appendAudio(payload []byte, mediaType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mediaSet && mediaType != "" {
		c.mediaType = mediaType
		c.mediaSet = true
	}
	c.buf = append(c.buf, payload...)
}

// complete resolves the call successfully. Safe to call at most
// meaningfully once; subsequent calls are no-ops.
func (c *PendingCall) complete() {
	c.once.Do(func() { close(c.done) })
}

// fail resolves the call with an error. Safe to call at most
// meaningfully once; subsequent calls are no-ops.
func (c *PendingCall) fail(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Wait blocks until the call is resolved (by completion or failure) or
// the done channel passed by the caller fires, returning the
// accumulated audio, media type, and any error.
func (c *PendingCall) Wait() (audio []byte, mediaType string, err error) {
	<-c.done
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf, c.mediaType, c.err
}

// Done returns the channel that closes when the call resolves, for use
// in a select alongside a deadline or cancellation.
func (c *PendingCall) Done() <-chan struct{} {
	return c.done
}
