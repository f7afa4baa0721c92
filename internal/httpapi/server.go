package httpapi

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/MrWong99/sonicgate/internal/ttsbroker"
	"github.com/MrWong99/sonicgate/pkg/tts"
)

// Config controls which routes Register exposes and how they're gated.
type Config struct {
	EdgeFreeEnabled        bool
	OfficialPreviewEnabled bool
	SubscriptionEnabled    bool

	// SubscribeAPIAuthToken, if non-empty, is the shared secret required
	// (header "token", query "token", or JSON field "token") to call
	// /api/tts-ms-subscribe.
	SubscribeAPIAuthToken string

	// RequestsPerSecond/Burst configure the per-remote-address token
	// bucket gating every route. Zero RequestsPerSecond disables
	// limiting.
	RequestsPerSecond float64
	Burst             int
}

// Register wires the front-door routes onto mux.
func Register(mux *http.ServeMux, broker *ttsbroker.Broker, cfg Config) {
	limiter := newLimiterSet(cfg.RequestsPerSecond, cfg.Burst)

	if cfg.EdgeFreeEnabled {
		mux.Handle("GET /api/tts-ms-edge", limiter.wrap(synthesizeHandler(broker, tts.EdgeFree, "")))
		mux.Handle("POST /api/tts-ms-edge", limiter.wrap(synthesizeHandler(broker, tts.EdgeFree, "")))
	}
	if cfg.SubscriptionEnabled {
		mux.Handle("GET /api/tts-ms-subscribe", limiter.wrap(synthesizeHandler(broker, tts.Subscription, cfg.SubscribeAPIAuthToken)))
		mux.Handle("POST /api/tts-ms-subscribe", limiter.wrap(synthesizeHandler(broker, tts.Subscription, cfg.SubscribeAPIAuthToken)))
	}

	mux.Handle("GET /api/list", limiter.wrap(listHandler(cfg)))
	mux.Handle("GET /api/ms-tts/informant/{backend}", limiter.wrap(informantHandler(broker)))
	mux.Handle("GET /api/ms-tts/style/{backend}/{voice}", limiter.wrap(styleHandler(broker)))
	mux.Handle("GET /api/ms-tts/quality", limiter.wrap(qualityHandler()))
}

func synthesizeHandler(broker *ttsbroker.Broker, backend tts.BackendKind, authToken string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseParams(r)
		if err != nil {
			writeFailure(w, err)
			return
		}

		if authToken != "" && params.Token != authToken {
			writeFailure(w, tts.ErrAuthDenied)
			return
		}

		req := params.toSynthesisRequest(backend)
		if req.Text == "" {
			writeSilence(w)
			return
		}

		resp, err := broker.Synthesize(r.Context(), req)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeAudio(w, resp.MediaType, resp.Audio)
	}
}

func listHandler(cfg Config) http.HandlerFunc {
	type paramSchema struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Required bool   `json:"required"`
		Default  any    `json:"default,omitempty"`
	}
	type route struct {
		Path   string        `json:"path"`
		Params []paramSchema `json:"params"`
	}

	commonParams := []paramSchema{
		{Name: "text", Type: "string", Required: true},
		{Name: "informant", Type: "string", Default: tts.DefaultVoice},
		{Name: "style", Type: "string", Default: tts.DefaultStyle},
		{Name: "rate", Type: "float", Default: defaultRate},
		{Name: "pitch", Type: "float", Default: defaultPitch},
		{Name: "quality", Type: "string", Default: tts.DefaultAudioFormat},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var routes []route
		if cfg.EdgeFreeEnabled {
			routes = append(routes, route{Path: "/api/tts-ms-edge", Params: commonParams})
		}
		if cfg.SubscriptionEnabled {
			params := commonParams
			if cfg.SubscribeAPIAuthToken != "" {
				params = append(append([]paramSchema(nil), commonParams...), paramSchema{Name: "token", Type: "string", Required: true})
			}
			routes = append(routes, route{Path: "/api/tts-ms-subscribe", Params: params})
		}
		writeJSON(w, http.StatusOK, routes)
	}
}

func informantHandler(broker *ttsbroker.Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := parseBackend(r.PathValue("backend"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown backend"})
			return
		}
		catalog := broker.VoicesFor(kind)
		writeJSON(w, http.StatusOK, catalog.ShortNames())
	}
}

func styleHandler(broker *ttsbroker.Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := parseBackend(r.PathValue("backend"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown backend"})
			return
		}
		voiceName := r.PathValue("voice")
		catalog := broker.VoicesFor(kind)
		voice, ok := catalog.Get(voiceName)
		if !ok {
			writeJSON(w, http.StatusOK, []string{tts.DefaultStyle})
			return
		}
		writeJSON(w, http.StatusOK, tts.ResolveStyles(voice))
	}
}

func qualityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tts.AudioFormats())
	}
}

func parseBackend(s string) (tts.BackendKind, bool) {
	switch strings.ToLower(s) {
	case "edge", "edgefree", "ms-edge":
		return tts.EdgeFree, true
	case "preview", "officialpreview":
		return tts.OfficialPreview, true
	case "subscribe", "subscription":
		return tts.Subscription, true
	default:
		return 0, false
	}
}

// limiterSet hands out a token-bucket rate.Limiter per remote address.
type limiterSet struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newLimiterSet(requestsPerSecond float64, burst int) *limiterSet {
	return &limiterSet{
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (s *limiterSet) wrap(next http.HandlerFunc) http.HandlerFunc {
	if s.rps <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiterFor(remoteAddr(r)).Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func (s *limiterSet) limiterFor(addr string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[addr]
	if !ok {
		l = rate.NewLimiter(s.rps, s.burst)
		s.limiters[addr] = l
	}
	return l
}

func remoteAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
