// Package config provides the configuration schema and loader for the
// sonicgate TTS brokering service.
package config

import "github.com/MrWong99/sonicgate/pkg/tts"

// Config is the root configuration structure for sonicgate. It is
// typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Backends      BackendsConfig      `yaml:"backends"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Log           LogConfig           `yaml:"log"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds the HTTP front door's network settings and the
// upstream IP pool selector.
type ServerConfig struct {
	// ListenAddress is the interface the HTTP server binds to (e.g. "0.0.0.0").
	ListenAddress string `yaml:"listen_address"`

	// ListenPort is the HTTP bind port.
	ListenPort int `yaml:"listen_port"`

	// ServerArea selects the upstream IP pool used for the EdgeFree
	// backend: "Default", "China", "ChinaHK", or "ChinaTW".
	ServerArea string `yaml:"server_area"`
}

// BackendsConfig controls which upstream backends are enabled and the
// credentials the Subscription backend uses.
type BackendsConfig struct {
	// CloseEdgeFreeApi disables the EdgeFree backend and its routes.
	CloseEdgeFreeApi bool `yaml:"close_edge_free_api"`

	// CloseOfficialSubscribeApi disables the Subscription backend and
	// its routes.
	CloseOfficialSubscribeApi bool `yaml:"close_official_subscribe_api"`

	// EnableOfficialPreview opts into the (optional, older-snapshot)
	// Preview backend.
	EnableOfficialPreview bool `yaml:"enable_official_preview"`

	// SubscribeKey is repeatable; each entry is "{subscriptionKey},{region}".
	SubscribeKey []string `yaml:"subscribe_key"`

	// SubscribeAPIAuthToken, if set, is the shared secret gating
	// /api/tts-ms-subscribe.
	SubscribeAPIAuthToken string `yaml:"subscribe_api_auth_token"`

	// DoNotUpdateSpeakersList forces every backend to use its embedded
	// voices JSON instead of attempting a live fetch.
	DoNotUpdateSpeakersList bool `yaml:"do_not_update_speakers_list"`
}

// RateLimitConfig controls the HTTP front door's per-remote-address
// token bucket. Zero RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LogConfig controls process logging.
type LogConfig struct {
	Level   string `yaml:"level"`
	ToFile  bool   `yaml:"to_file"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig controls the OpenTelemetry provider setup.
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	MetricsAddr    string `yaml:"metrics_addr"`
}

// ParsedCredentials parses every SubscribeKey entry into a
// tts.Credential, skipping and logging malformed entries. Validate is
// responsible for rejecting a configuration with zero valid entries
// when Subscription is enabled.
func (c Config) ParsedCredentials() []tts.Credential {
	var creds []tts.Credential
	for _, raw := range c.Backends.SubscribeKey {
		cred, ok := parseSubscribeKey(raw)
		if !ok {
			continue
		}
		creds = append(creds, cred)
	}
	return creds
}

// ServerAreaEnum parses Server.ServerArea into a tts.ServerArea.
func (c Config) ServerAreaEnum() tts.ServerArea {
	return tts.ParseServerArea(c.Server.ServerArea)
}
