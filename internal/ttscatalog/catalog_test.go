package ttscatalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

func TestLoad_FetchesFromServer(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Name":"Aria","ShortName":"en-US-AriaNeural","Locale":"en-US","Gender":"Female"}]`))
	}))
	defer srv.Close()

	catalog, err := Load(context.Background(), srv.Client(), tts.EdgeFree, srv.URL, false)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("catalog.Len() = %d, want 1", catalog.Len())
	}
	if _, ok := catalog.Get("en-US-AriaNeural"); !ok {
		t.Error("expected fetched voice to be present")
	}
}

func TestLoad_FallsBackOnServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	catalog, err := Load(context.Background(), srv.Client(), tts.EdgeFree, srv.URL, false)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if catalog.Len() == 0 {
		t.Error("expected embedded fallback catalog to be non-empty")
	}
}

func TestLoad_ForceFallbackSkipsNetwork(t *testing.T) {
	t.Parallel()
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	catalog, err := Load(context.Background(), srv.Client(), tts.Subscription, srv.URL, true)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if called {
		t.Error("expected forceFallback to skip the network fetch entirely")
	}
	if catalog.Len() == 0 {
		t.Error("expected embedded subscription fallback to be non-empty")
	}
}

func TestLoad_EmptyURLUsesFallback(t *testing.T) {
	t.Parallel()
	catalog, err := Load(context.Background(), http.DefaultClient, tts.OfficialPreview, "", false)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if catalog.Len() == 0 {
		t.Error("expected embedded preview fallback to be non-empty")
	}
}

func TestCredentialURL(t *testing.T) {
	t.Parallel()
	cred := tts.Credential{SubscriptionKey: "k", Region: "eastus"}
	want := "https://eastus.tts.speech.microsoft.com/cognitiveservices/voices/list"
	if got := CredentialURL(cred); got != want {
		t.Errorf("CredentialURL() = %q, want %q", got, want)
	}
}

func TestMixedSubscriptionCatalog_NoCredentials(t *testing.T) {
	t.Parallel()
	catalog, err := MixedSubscriptionCatalog(context.Background(), http.DefaultClient, nil, false)
	if err != nil {
		t.Fatalf("MixedSubscriptionCatalog() error: %v", err)
	}
	if catalog.Len() != 0 {
		t.Errorf("catalog.Len() = %d, want 0", catalog.Len())
	}
}

func TestMixedSubscriptionCatalog_IntersectsAcrossCredentials(t *testing.T) {
	t.Parallel()
	creds := []tts.Credential{
		{SubscriptionKey: "k1", Region: "eastus"},
		{SubscriptionKey: "k2", Region: "westus"},
	}
	// forceFallback=true means each Load call returns the identical
	// embedded subscription fallback regardless of region, so the
	// intersection should equal that fallback catalog exactly.
	catalog, err := MixedSubscriptionCatalog(context.Background(), http.DefaultClient, creds, true)
	if err != nil {
		t.Fatalf("MixedSubscriptionCatalog() error: %v", err)
	}
	fallback, err := decodeVoices(subscriptionFallback)
	if err != nil {
		t.Fatalf("decodeVoices() error: %v", err)
	}
	if catalog.Len() != len(fallback) {
		t.Errorf("catalog.Len() = %d, want %d", catalog.Len(), len(fallback))
	}
}

func TestDecodeVoices_InvalidJSON(t *testing.T) {
	t.Parallel()
	if _, err := decodeVoices([]byte("not json")); err == nil {
		t.Error("expected error decoding invalid JSON")
	}
}
