// Package app wires all sonicgate subsystems into a running application.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems (voice catalogs, upstream pools, the broker, and the HTTP
// front door), Run starts the HTTP listener and blocks until the
// context is cancelled, and Shutdown tears everything down in order.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/MrWong99/sonicgate/internal/config"
	"github.com/MrWong99/sonicgate/internal/health"
	"github.com/MrWong99/sonicgate/internal/httpapi"
	"github.com/MrWong99/sonicgate/internal/observe"
	"github.com/MrWong99/sonicgate/internal/ttsauth"
	"github.com/MrWong99/sonicgate/internal/ttsbroker"
	"github.com/MrWong99/sonicgate/internal/ttscatalog"
	"github.com/MrWong99/sonicgate/internal/ttsdialer"
	"github.com/MrWong99/sonicgate/internal/ttspool"
	"github.com/MrWong99/sonicgate/pkg/tts"
)

// App owns all subsystem lifetimes and the HTTP server.
type App struct {
	cfg    *config.Config
	broker *ttsbroker.Broker
	health *health.Handler
	server *http.Server

	metricsShutdown func(context.Context) error

	// closers are called in order during Shutdown.
	closers []func() error

	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*options)

type options struct {
	httpClient *http.Client
	metrics    *observe.Metrics
}

// WithHTTPClient overrides the client used for voice-catalog fetches and
// subscription-token issuance. Primarily for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithMetrics injects a Metrics instance instead of creating one from the
// default global MeterProvider. Primarily for tests.
func WithMetrics(m *observe.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates an App by wiring every subsystem together: the auth
// providers, the dialer, a voice catalog and pool per enabled backend,
// the broker, and the HTTP front door (synthesis routes, health, and
// metrics).
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{cfg: cfg}

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("app: init observability: %w", err)
	}
	a.metricsShutdown = shutdown

	metrics := o.metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}

	outboundClient := &http.Client{
		Timeout:   o.httpClient.Timeout,
		Transport: otelhttp.NewTransport(o.httpClient.Transport),
	}

	area := cfg.ServerAreaEnum()
	dialer := ttsdialer.New(area,
		ttsauth.EdgeFreeProvider{},
		ttsauth.OfficialPreviewProvider{},
		ttsauth.NewSubscriptionProvider(outboundClient),
	)

	catalogs := ttsbroker.Catalogs{}
	pools := ttsbroker.Pools{}
	var checkers []health.Checker

	if !cfg.Backends.CloseEdgeFreeApi {
		catalog, err := ttscatalog.Load(ctx, outboundClient, tts.EdgeFree, edgeFreeVoiceListURL, cfg.Backends.DoNotUpdateSpeakersList)
		if err != nil {
			return nil, fmt.Errorf("app: load EdgeFree catalog: %w", err)
		}
		catalogs.EdgeFree = catalog
		pools.EdgeFree = ttspool.NewSingle(tts.EdgeFree, dialer, metrics)
		checkers = append(checkers,
			health.CatalogChecker("catalog:edgefree", catalog),
			health.PoolChecker("pool:edgefree", pools.EdgeFree),
		)
	}

	if cfg.Backends.EnableOfficialPreview {
		catalog, err := ttscatalog.Load(ctx, outboundClient, tts.OfficialPreview, previewVoiceListURL, cfg.Backends.DoNotUpdateSpeakersList)
		if err != nil {
			return nil, fmt.Errorf("app: load preview catalog: %w", err)
		}
		catalogs.OfficialPreview = catalog
		pools.OfficialPreview = ttspool.NewSingle(tts.OfficialPreview, dialer, metrics)
		checkers = append(checkers,
			health.CatalogChecker("catalog:preview", catalog),
			health.PoolChecker("pool:preview", pools.OfficialPreview),
		)
	}

	if !cfg.Backends.CloseOfficialSubscribeApi {
		creds := cfg.ParsedCredentials()
		if len(creds) == 0 {
			return nil, fmt.Errorf("app: subscription backend enabled but no valid subscribe_key entries configured")
		}
		catalog, err := ttscatalog.MixedSubscriptionCatalog(ctx, outboundClient, creds, cfg.Backends.DoNotUpdateSpeakersList)
		if err != nil {
			return nil, fmt.Errorf("app: load subscription catalog: %w", err)
		}
		catalogs.Subscription = catalog
		pools.Subscription = ttspool.NewSubscription(dialer, creds, metrics)
		checkers = append(checkers,
			health.CatalogChecker("catalog:subscription", catalog),
			health.PoolChecker("pool:subscription", pools.Subscription),
		)
	}

	a.broker = ttsbroker.New(catalogs, pools, ttsbroker.WithMetrics(metrics))
	a.health = health.New(checkers...)

	mux := http.NewServeMux()
	httpapi.Register(mux, a.broker, httpapi.Config{
		EdgeFreeEnabled:        !cfg.Backends.CloseEdgeFreeApi,
		OfficialPreviewEnabled: cfg.Backends.EnableOfficialPreview,
		SubscriptionEnabled:    !cfg.Backends.CloseOfficialSubscribeApi,
		SubscribeAPIAuthToken:  cfg.Backends.SubscribeAPIAuthToken,
		RequestsPerSecond:      cfg.RateLimit.RequestsPerSecond,
		Burst:                  cfg.RateLimit.Burst,
	})
	a.health.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.ListenAddress, cfg.Server.ListenPort)
	a.server = &http.Server{
		Addr:    addr,
		Handler: observe.Middleware(metrics)(otelhttp.NewHandler(mux, "sonicgate")),
	}

	a.closers = append(a.closers, func() error { return a.metricsShutdown(context.Background()) })

	return a, nil
}

const (
	edgeFreeVoiceListURL = "https://speech.platform.bing.com/consumer/speech/synthesize/readaloud/voices/list"
	previewVoiceListURL  = "https://eastus.api.speech.microsoft.com/cognitiveservices/voices/list"
)

// Broker returns the broker, for use in tests.
func (a *App) Broker() *ttsbroker.Broker { return a.broker }

// Run starts the HTTP listener and blocks until ctx is cancelled or the
// server stops.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", a.server.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// Shutdown tears down the HTTP server and all registered subsystems.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		slog.Info("shutting down", "closers", len(a.closers))

		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http server shutdown error", "err", err)
		}

		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				slog.Warn("closer error", "index", i, "err", err)
			}
		}

		slog.Info("shutdown complete")
	})
	return shutdownErr
}
