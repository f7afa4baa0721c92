package tts_test

import (
	"testing"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

func TestNewRequestID_Is32HexChars(t *testing.T) {
	t.Parallel()
	id := tts.NewRequestID()
	if len(id) != 32 {
		t.Fatalf("len(id) = %d, want 32", len(id))
	}
	for _, r := range id {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			t.Fatalf("id %q contains non-hex character %q", id, r)
		}
	}
}

func TestNewRequestID_Unique(t *testing.T) {
	t.Parallel()
	a := tts.NewRequestID()
	b := tts.NewRequestID()
	if a == b {
		t.Fatal("expected two distinct request IDs")
	}
}

func TestBackendKind_String(t *testing.T) {
	t.Parallel()
	cases := map[tts.BackendKind]string{
		tts.EdgeFree:        "EdgeFree",
		tts.OfficialPreview: "OfficialPreview",
		tts.Subscription:    "Subscription",
		tts.BackendKind(99): "Unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("BackendKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestParseServerArea(t *testing.T) {
	t.Parallel()
	cases := map[string]tts.ServerArea{
		"China":    tts.AreaChina,
		"china":    tts.AreaChina,
		"ChinaHK":  tts.AreaChinaHK,
		"ChinaTW":  tts.AreaChinaTW,
		"Default":  tts.AreaDefault,
		"":         tts.AreaDefault,
		"bogus":    tts.AreaDefault,
	}
	for input, want := range cases {
		if got := tts.ParseServerArea(input); got != want {
			t.Errorf("ParseServerArea(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestCredential_IsZero(t *testing.T) {
	t.Parallel()
	if !(tts.Credential{}).IsZero() {
		t.Error("zero-value Credential should report IsZero()=true")
	}
	if (tts.Credential{SubscriptionKey: "k", Region: "eastus"}).IsZero() {
		t.Error("populated Credential should report IsZero()=false")
	}
}

func TestCredential_Hash(t *testing.T) {
	t.Parallel()
	a := tts.Credential{SubscriptionKey: "k1", Region: "eastus"}
	b := tts.Credential{SubscriptionKey: "k1", Region: "westus"}
	if a.Hash() == b.Hash() {
		t.Error("credentials with different regions should hash differently")
	}
}

func TestVoice_HasStyle(t *testing.T) {
	t.Parallel()
	v := tts.Voice{Styles: []string{"cheerful", "sad"}}
	if !v.HasStyle("Cheerful") {
		t.Error("HasStyle should be case-insensitive")
	}
	if v.HasStyle("angry") {
		t.Error("HasStyle should return false for unlisted style")
	}
}
