// Package tts defines the core data types shared by the TTS brokering
// engine: requests and responses, backend identity, credentials, voices,
// and the sentinel errors that cross component boundaries.
package tts

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewRequestID returns a fresh 32-character hex request identifier, the
// same shape the upstream wire protocol expects for X-RequestId and
// ConnectionId values.
func NewRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// BackendKind identifies one of the upstream provider variants. It
// replaces inheritance-based polymorphism from the source implementation
// with a small tagged enum, per the re-architecture guidance in the
// design notes.
type BackendKind int

const (
	// EdgeFree is the unauthenticated Edge "read aloud" endpoint.
	EdgeFree BackendKind = iota
	// OfficialPreview is the preview Speech endpoint; no dial-time auth.
	OfficialPreview
	// Subscription is the paid Cognitive Services endpoint, gated by a
	// subscription key and bearer token.
	Subscription
)

// String implements fmt.Stringer.
func (k BackendKind) String() string {
	switch k {
	case EdgeFree:
		return "EdgeFree"
	case OfficialPreview:
		return "OfficialPreview"
	case Subscription:
		return "Subscription"
	default:
		return "Unknown"
	}
}

// ServerArea selects the upstream IP pool used for the EdgeFree backend.
type ServerArea int

const (
	AreaDefault ServerArea = iota
	AreaChina
	AreaChinaHK
	AreaChinaTW
)

// String implements fmt.Stringer.
func (a ServerArea) String() string {
	switch a {
	case AreaDefault:
		return "Default"
	case AreaChina:
		return "China"
	case AreaChinaHK:
		return "ChinaHK"
	case AreaChinaTW:
		return "ChinaTW"
	default:
		return "Default"
	}
}

// ParseServerArea parses a case-insensitive area name, defaulting to
// AreaDefault for unknown input.
func ParseServerArea(s string) ServerArea {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "china":
		return AreaChina
	case "chinahk":
		return AreaChinaHK
	case "chinatw":
		return AreaChinaTW
	default:
		return AreaDefault
	}
}

// Credential identifies a Subscription backend pool cell: a subscription
// key plus the Azure region it is provisioned in. The zero value is the
// credential used by backends that need none (EdgeFree, OfficialPreview).
type Credential struct {
	SubscriptionKey string
	Region          string
}

// IsZero reports whether c carries no subscription credential.
func (c Credential) IsZero() bool {
	return c.SubscriptionKey == "" && c.Region == ""
}

// Hash returns the pool map key for this credential.
func (c Credential) Hash() string {
	return c.SubscriptionKey + "@" + c.Region
}

// BearerToken is a cached auth token with its issue time, owned by an
// Auth Provider. Validity is backend-specific (see ttsauth).
type BearerToken struct {
	Value    string
	IssuedAt time.Time
}

// SynthesisRequest is a validated request to synthesize speech, as
// accepted by the Broker.
type SynthesisRequest struct {
	RequestID   string
	Text        string
	Voice       string
	Style       string
	Rate        int // percent, clamped to [-100, 200]
	Pitch       int // percent, clamped to [-50, 50]
	AudioFormat string
	Backend     BackendKind
	// Credential, if non-zero, pins the Subscription backend to a
	// specific subscription key/region instead of round-robin selection.
	Credential Credential
}

// SynthesisResponse is the assembled result of one SynthesisRequest.
type SynthesisResponse struct {
	RequestID string
	Audio     []byte
	MediaType string
}

// Voice describes one synthesizable voice as advertised by a backend's
// voice list.
type Voice struct {
	ShortName  string
	Locale     string
	Name       string
	Gender     string
	Styles     []string
	RolePlays  []string
	Properties map[string]string
}

// HasStyle reports whether v advertises the given style name.
func (v Voice) HasStyle(style string) bool {
	for _, s := range v.Styles {
		if strings.EqualFold(s, style) {
			return true
		}
	}
	return false
}
