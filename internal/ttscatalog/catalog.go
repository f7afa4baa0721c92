// Package ttscatalog implements the Voice Catalog: per-backend fetch
// with on-disk (embedded) fallback, lookup by short name and locale, and
// the Subscription backend's cross-credential intersection so
// round-robin routing never selects a voice one credential's region
// does not support.
//
// The fetch-with-typed-error, fall-back-to-bundled-data shape mirrors
// an Azure TTS client's voice-list fetch; the parallel per-credential
// fetch for the mixed catalog uses the same errgroup.WithContext
// concurrent fan-out pattern used elsewhere in this module.
package ttscatalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

//go:embed assets/edgefree_voices.json
var edgeFreeFallback []byte

//go:embed assets/preview_voices.json
var previewFallback []byte

//go:embed assets/subscription_voices.json
var subscriptionFallback []byte

// wireVoice mirrors the JSON shape of Azure's voices/list endpoint.
type wireVoice struct {
	Name         string   `json:"Name"`
	ShortName    string   `json:"ShortName"`
	Gender       string   `json:"Gender"`
	Locale       string   `json:"Locale"`
	StyleList    []string `json:"StyleList"`
	RolePlayList []string `json:"RolePlayList"`
}

func decodeVoices(data []byte) ([]tts.Voice, error) {
	var wire []wireVoice
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	out := make([]tts.Voice, 0, len(wire))
	for _, w := range wire {
		out = append(out, tts.Voice{
			ShortName: w.ShortName,
			Locale:    w.Locale,
			Name:      w.Name,
			Gender:    w.Gender,
			Styles:    w.StyleList,
			RolePlays: w.RolePlayList,
		})
	}
	return out, nil
}

// fallbackFor returns the embedded JSON blob for a backend kind.
func fallbackFor(kind tts.BackendKind) []byte {
	switch kind {
	case tts.EdgeFree:
		return edgeFreeFallback
	case tts.OfficialPreview:
		return previewFallback
	default:
		return subscriptionFallback
	}
}

// Load fetches the voice list for a backend over HTTP, falling back to
// the embedded blob on any failure (network, non-200, parse error). It
// never fails to return a catalog; the only failure mode is the
// embedded blob itself being unparsable, which indicates a packaging
// defect rather than a runtime condition.
func Load(ctx context.Context, client *http.Client, kind tts.BackendKind, url string, forceFallback bool) (*tts.VoiceCatalog, error) {
	if !forceFallback && url != "" {
		voices, err := fetch(ctx, client, url)
		if err == nil {
			return tts.NewVoiceCatalog(voices), nil
		}
		slog.Warn("voice catalog fetch failed, using embedded fallback", "backend", kind, "error", err)
	}

	voices, err := decodeVoices(fallbackFor(kind))
	if err != nil {
		return nil, fmt.Errorf("ttscatalog: embedded fallback for %s is unparsable: %w", kind, err)
	}
	return tts.NewVoiceCatalog(voices), nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]tts.Voice, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voice list fetch: status %d", resp.StatusCode)
	}
	var wire []wireVoice
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, err
	}
	out := make([]tts.Voice, 0, len(wire))
	for _, w := range wire {
		out = append(out, tts.Voice{
			ShortName: w.ShortName,
			Locale:    w.Locale,
			Name:      w.Name,
			Gender:    w.Gender,
			Styles:    w.StyleList,
			RolePlays: w.RolePlayList,
		})
	}
	return out, nil
}

// CredentialURL returns the per-credential voices/list endpoint for a
// Subscription credential.
func CredentialURL(cred tts.Credential) string {
	return fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/voices/list", cred.Region)
}

// MixedSubscriptionCatalog fetches each credential's catalog in parallel
// and returns the set intersection by short name, so that
// credential-agnostic routing never picks a voice one region lacks.
func MixedSubscriptionCatalog(ctx context.Context, client *http.Client, credentials []tts.Credential, forceFallback bool) (*tts.VoiceCatalog, error) {
	if len(credentials) == 0 {
		return tts.NewVoiceCatalog(nil), nil
	}

	catalogs := make([]*tts.VoiceCatalog, len(credentials))
	g, gctx := errgroup.WithContext(ctx)
	for i, cred := range credentials {
		i, cred := i, cred
		g.Go(func() error {
			c, err := Load(gctx, client, tts.Subscription, CredentialURL(cred), forceFallback)
			if err != nil {
				return err
			}
			catalogs[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	head, rest := catalogs[0], catalogs[1:]
	return head.Intersect(rest...), nil
}
