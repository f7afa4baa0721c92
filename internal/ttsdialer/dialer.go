// Package ttsdialer produces an open, handshake-complete WebSocket
// session to a specific TTS backend, ready to accept SSML frames. It
// owns URL construction, optional IP pinning for the EdgeFree backend,
// the browser-like handshake headers Edge's free endpoint requires, and
// the "speech.config" preamble frame sent immediately after connect.
//
// The EdgeFree URL, header set, and IP-pin behavior are transcribed from
// the original service's ms_tts websocket dial path; the Subscription
// dial sequence (region resolution, bearer token, connection id) mirrors
// its azure_api get_text_to_speech_connection.
package ttsdialer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"

	"github.com/MrWong99/sonicgate/internal/ttsauth"
	"github.com/MrWong99/sonicgate/pkg/tts"
)

// edgeUserAgent is the exact desktop Chrome/Edge user agent string the
// free endpoint's handshake inspection expects.
const edgeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.212 Safari/537.36 Edg/90.0.818.62"

// previewUserAgent is the desktop Chrome/Edge user agent string the
// preview endpoint's handshake expects; distinct from edgeUserAgent
// because the two endpoints are fronted by different services.
const previewUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36 Edg/107.0.1379.1"

// RetryBackoff is the fixed delay between failed dial attempts.
const RetryBackoff = 1 * time.Second

// Dialer produces open WebSocket sessions for a given backend kind.
type Dialer struct {
	Area            tts.ServerArea
	EdgeFreeAuth    ttsauth.Provider
	PreviewAuth     ttsauth.Provider
	SubscriptionAuth ttsauth.Provider
}

// New constructs a Dialer with the given auth providers.
func New(area tts.ServerArea, edgeFree, preview, subscription ttsauth.Provider) *Dialer {
	return &Dialer{
		Area:             area,
		EdgeFreeAuth:     edgeFree,
		PreviewAuth:      preview,
		SubscriptionAuth: subscription,
	}
}

// Dial completes a TCP+TLS+WebSocket handshake to the backend identified
// by kind (and, for Subscription, cred), sends the speech.config
// preamble, and returns the open connection along with the
// ConnectionId used to open it.
func (d *Dialer) Dial(ctx context.Context, kind tts.BackendKind, cred tts.Credential) (*websocket.Conn, string, error) {
	connID := tts.NewRequestID()

	dialURL, header, httpClient, err := d.build(ctx, kind, cred, connID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", tts.ErrUpstreamTransport, err)
	}

	conn, _, err := websocket.Dial(ctx, dialURL, &websocket.DialOptions{
		HTTPClient: httpClient,
		HTTPHeader: header,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: dial: %v", tts.ErrUpstreamTransport, err)
	}
	conn.SetReadLimit(32 << 20)

	if err := d.sendPreamble(ctx, conn, kind); err != nil {
		conn.Close(websocket.StatusInternalError, "preamble failed")
		return nil, "", fmt.Errorf("%w: preamble: %v", tts.ErrUpstreamTransport, err)
	}

	return conn, connID, nil
}

func (d *Dialer) build(ctx context.Context, kind tts.BackendKind, cred tts.Credential, connID string) (string, http.Header, *http.Client, error) {
	switch kind {
	case tts.EdgeFree:
		return d.buildEdgeFree(ctx, connID)
	case tts.OfficialPreview:
		return d.buildPreview(ctx, connID)
	case tts.Subscription:
		return d.buildSubscription(ctx, cred, connID)
	default:
		return "", nil, nil, fmt.Errorf("unknown backend kind %v", kind)
	}
}

func (d *Dialer) buildEdgeFree(ctx context.Context, connID string) (string, http.Header, *http.Client, error) {
	token, err := d.EdgeFreeAuth.Token(ctx, tts.Credential{})
	if err != nil {
		return "", nil, nil, err
	}

	u := url.URL{
		Scheme: "wss",
		Host:   "speech.platform.bing.com",
		Path:   "/consumer/speech/synthesize/readaloud/edge/v1",
	}
	q := url.Values{}
	q.Set("TrustedClientToken", token)
	q.Set("ConnectionId", connID)
	u.RawQuery = q.Encode()

	header := edgeHeaders()
	client := httpClientForArea(d.Area, u.Host)
	return u.String(), header, client, nil
}

func (d *Dialer) buildPreview(ctx context.Context, connID string) (string, http.Header, *http.Client, error) {
	if _, err := d.PreviewAuth.Token(ctx, tts.Credential{}); err != nil {
		return "", nil, nil, err
	}
	u := url.URL{
		Scheme:   "wss",
		Host:     "eastus.api.speech.microsoft.com",
		Path:     "/cognitiveservices/websocket/v1",
		RawQuery: "TrafficType=AzureDemo&Authorization=bearer%20undefined&X-ConnectionId=" + connID,
	}
	return u.String(), previewHeaders(), nil, nil
}

func (d *Dialer) buildSubscription(ctx context.Context, cred tts.Credential, connID string) (string, http.Header, *http.Client, error) {
	if cred.IsZero() {
		return "", nil, nil, fmt.Errorf("subscription credential required")
	}
	if !tts.IsKnownRegion(cred.Region) {
		return "", nil, nil, fmt.Errorf("unknown region %q", cred.Region)
	}
	token, err := d.SubscriptionAuth.Token(ctx, cred)
	if err != nil {
		return "", nil, nil, err
	}

	u := url.URL{
		Scheme: "wss",
		Host:   fmt.Sprintf("%s.tts.speech.microsoft.com", cred.Region),
		Path:   "/cognitiveservices/websocket/v1",
	}
	q := url.Values{}
	q.Set("Authorization", "bearer "+token)
	q.Set("X-ConnectionId", connID)
	u.RawQuery = q.Encode()

	return u.String(), edgeHeaders(), nil, nil
}

// edgeHeaders returns the handshake header set the free endpoint
// requires to accept the upgrade, transcribed verbatim from the
// original service's hardcoded request.
func edgeHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "*/*")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8,en-GB;q=0.7,en-US;q=0.6")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	h.Set("User-Agent", edgeUserAgent)
	h.Set("Origin", "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold")
	return h
}

// previewHeaders returns the handshake header set the preview endpoint
// expects. Unlike edgeHeaders, it carries no Origin header: the preview
// endpoint is not an extension-fronted consumer surface and rejects the
// handshake if one is present.
func previewHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "*/*")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8,en-GB;q=0.7,en-US;q=0.6")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	h.Set("User-Agent", previewUserAgent)
	return h
}

// httpClientForArea returns an *http.Client whose transport dials a
// pinned IP instead of resolving host via DNS, when area selects a
// non-default pool. Certificate validation is disabled for the pinned
// path since the pinned IP will not match the upstream's certificate
// name, mirroring the original service's danger_accept_invalid_certs
// behavior for this specific path.
func httpClientForArea(area tts.ServerArea, host string) *http.Client {
	addr := pinnedAddr(area)
	if addr == "" {
		return nil
	}
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, net.JoinHostPort(addr, "443"))
		},
		TLSClientConfig: &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: true,
		},
	}
	return &http.Client{Transport: transport}
}
