// Package ttsauth implements the per-backend-kind Auth Provider strategy:
// EdgeFree and OfficialPreview need no dynamic credential, while
// Subscription exchanges a subscription key for a bearer token and
// caches it until it nears expiry.
//
// The token-issuance request shape (POST .../sts/v1.0/issueToken with
// Ocp-Apim-Subscription-Key) and its HTTP status handling are grounded
// in the refreshToken logic of the Azure TTS client in the example pack.
package ttsauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

// tokenTTL is the sliding window after which a cached Subscription
// bearer token is considered stale and re-issued.
const tokenTTL = 8 * time.Minute

// Provider produces whatever credential a Dialer needs for one backend
// kind. EdgeFree and OfficialPreview implementations return a fixed or
// empty token; Subscription fetches and caches a bearer token per
// credential.
type Provider interface {
	// Token returns the auth material to embed in the dial URL. For
	// EdgeFree this is the fixed trusted-client token; for
	// OfficialPreview it is empty; for Subscription it is a cached or
	// freshly issued bearer token.
	Token(ctx context.Context, cred tts.Credential) (string, error)
}

// edgeFreeTrustedClientToken is the fixed token Edge's free endpoint
// expects in place of real authentication.
const edgeFreeTrustedClientToken = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"

// EdgeFreeProvider returns the fixed trusted-client token; it performs
// no network activity.
type EdgeFreeProvider struct{}

// Token implements Provider.
func (EdgeFreeProvider) Token(context.Context, tts.Credential) (string, error) {
	return edgeFreeTrustedClientToken, nil
}

// OfficialPreviewProvider performs no dial-time auth; the preview
// endpoint accepts an empty authorization placeholder.
type OfficialPreviewProvider struct{}

// Token implements Provider.
func (OfficialPreviewProvider) Token(context.Context, tts.Credential) (string, error) {
	return "", nil
}

// cachedToken pairs a bearer token with a mutex, one per credential.
type cachedToken struct {
	mu    sync.Mutex
	value string
	at    time.Time
}

// SubscriptionProvider issues and caches Azure Cognitive Services bearer
// tokens per credential. It is safe for concurrent use; tokens for
// distinct credentials are cached and refreshed independently.
type SubscriptionProvider struct {
	httpClient *http.Client

	mu     sync.Mutex
	tokens map[string]*cachedToken
}

// NewSubscriptionProvider constructs a SubscriptionProvider. A nil
// client defaults to http.DefaultClient.
func NewSubscriptionProvider(client *http.Client) *SubscriptionProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &SubscriptionProvider{
		httpClient: client,
		tokens:     make(map[string]*cachedToken),
	}
}

// Token implements Provider. It returns a cached token when it is younger
// than tokenTTL, otherwise issues a fresh one.
func (p *SubscriptionProvider) Token(ctx context.Context, cred tts.Credential) (string, error) {
	if cred.IsZero() {
		return "", errors.New("ttsauth: subscription credential required")
	}

	entry := p.entryFor(cred)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.value != "" && time.Since(entry.at) < tokenTTL {
		return entry.value, nil
	}

	value, err := p.issueToken(ctx, cred)
	if err != nil {
		return "", err
	}
	entry.value = value
	entry.at = time.Now()
	return value, nil
}

func (p *SubscriptionProvider) entryFor(cred tts.Credential) *cachedToken {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := cred.Hash()
	if e, ok := p.tokens[key]; ok {
		return e
	}
	e := &cachedToken{}
	p.tokens[key] = e
	return e
}

func (p *SubscriptionProvider) issueToken(ctx context.Context, cred tts.Credential) (string, error) {
	url := fmt.Sprintf("https://%s.api.cognitive.microsoft.com/sts/v1.0/issueToken", cred.Region)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("ttsauth: build token request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", cred.SubscriptionKey)
	req.ContentLength = 0

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", tts.ErrAuthRetryable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading token response: %v", tts.ErrAuthRetryable, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return string(body), nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("%w: status %d", tts.ErrAuthDenied, resp.StatusCode)
	default:
		return "", fmt.Errorf("%w: status %d", tts.ErrAuthRetryable, resp.StatusCode)
	}
}
