package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			ListenAddress: "0.0.0.0",
			ListenPort:    8080,
			ServerArea:    "Default",
		},
		Log: LogConfig{Level: "info"},
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.ListenPort <= 0 || cfg.Server.ListenPort > 65535 {
		errs = append(errs, fmt.Errorf("server.listen_port %d is out of range [1, 65535]", cfg.Server.ListenPort))
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: debug, info, warn, error", cfg.Log.Level))
	}

	if cfg.Log.ToFile && cfg.Log.Path == "" {
		errs = append(errs, errors.New("log.path is required when log.to_file is true"))
	}

	if cfg.Backends.CloseEdgeFreeApi && cfg.Backends.CloseOfficialSubscribeApi && !cfg.Backends.EnableOfficialPreview {
		errs = append(errs, errors.New("at least one backend must remain enabled"))
	}

	if !cfg.Backends.CloseOfficialSubscribeApi {
		creds := cfg.ParsedCredentials()
		if len(creds) == 0 {
			errs = append(errs, errors.New("backends.subscribe_key must contain at least one valid \"key,region\" entry when the subscription backend is enabled"))
		}
		for i, raw := range cfg.Backends.SubscribeKey {
			if _, ok := parseSubscribeKey(raw); !ok {
				errs = append(errs, fmt.Errorf("backends.subscribe_key[%d] %q is malformed; expected \"key,region\"", i, raw))
			}
		}
	}

	if cfg.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("rate_limit.requests_per_second must not be negative"))
	}
	if cfg.RateLimit.RequestsPerSecond > 0 && cfg.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate_limit.burst must be positive when requests_per_second is set"))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Server.ServerArea)) {
	case "", "default", "china", "chinahk", "chinatw":
	default:
		slog.Warn("unknown server_area, falling back to Default", "value", cfg.Server.ServerArea)
	}

	return errors.Join(errs...)
}

// parseSubscribeKey splits a raw "{subscriptionKey},{region}" entry into a
// tts.Credential, rejecting unknown regions.
func parseSubscribeKey(raw string) (tts.Credential, bool) {
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return tts.Credential{}, false
	}
	key := strings.TrimSpace(parts[0])
	region := strings.TrimSpace(parts[1])
	if key == "" || region == "" {
		return tts.Credential{}, false
	}
	if !tts.IsKnownRegion(region) {
		slog.Warn("subscribe_key names an unrecognized region", "region", region)
		return tts.Credential{}, false
	}
	return tts.Credential{SubscriptionKey: key, Region: region}, true
}
