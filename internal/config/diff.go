package config

import "github.com/MrWong99/sonicgate/pkg/tts"

// ConfigDiff describes what changed between two configs. Only fields that
// can be safely hot-reloaded are tracked; a listen-address/port change still
// requires a restart and is reported but not actionable by [Watcher].
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     string

	BackendsChanged    bool
	CredentialsChanged bool
	RateLimitChanged   bool

	ListenAddrChanged bool
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Log.Level != new.Log.Level {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Log.Level
	}

	if old.Backends.CloseEdgeFreeApi != new.Backends.CloseEdgeFreeApi ||
		old.Backends.CloseOfficialSubscribeApi != new.Backends.CloseOfficialSubscribeApi ||
		old.Backends.EnableOfficialPreview != new.Backends.EnableOfficialPreview {
		d.BackendsChanged = true
	}

	if !equalCredentialLists(old.ParsedCredentials(), new.ParsedCredentials()) {
		d.CredentialsChanged = true
	}

	if old.RateLimit != new.RateLimit {
		d.RateLimitChanged = true
	}

	if old.Server.ListenAddress != new.Server.ListenAddress || old.Server.ListenPort != new.Server.ListenPort {
		d.ListenAddrChanged = true
	}

	return d
}

func equalCredentialLists(a, b []tts.Credential) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
