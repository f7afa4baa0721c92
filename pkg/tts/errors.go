package tts

import "errors"

// Sentinel errors for the taxonomy described in the design's error
// handling section. Validation errors are generally absorbed by
// coercion rather than returned; the ones below are the cases that do
// propagate to a caller.
var (
	// ErrUnknownVoice is returned by catalog lookups; callers coerce to
	// a default voice rather than propagating this to HTTP callers.
	ErrUnknownVoice = errors.New("tts: unknown voice")

	// ErrAuthDenied indicates a terminal 401 from token issuance for a
	// Subscription credential.
	ErrAuthDenied = errors.New("tts: auth denied")

	// ErrAuthRetryable indicates a non-2xx, non-401 response from token
	// issuance, or a network failure reaching the token endpoint.
	ErrAuthRetryable = errors.New("tts: auth retryable failure")

	// ErrUpstreamTransport covers TCP/TLS/WebSocket handshake failure,
	// read error, or unexpected peer close.
	ErrUpstreamTransport = errors.New("tts: upstream transport error")

	// ErrUpstreamProtocol covers malformed framing or a missing
	// Content-Type header on the first data frame of a stream.
	ErrUpstreamProtocol = errors.New("tts: upstream protocol error")

	// ErrTimeout indicates the broker's wait for a completed
	// SynthesisResponse elapsed before turn.end arrived.
	ErrTimeout = errors.New("tts: synthesis timed out")

	// ErrConfiguration indicates a startup configuration error: all
	// backends disabled, or Subscription enabled with zero valid
	// credentials.
	ErrConfiguration = errors.New("tts: configuration error")

	// ErrBackendDisabled is returned when a request targets a backend
	// the running configuration has disabled.
	ErrBackendDisabled = errors.New("tts: backend disabled")
)
