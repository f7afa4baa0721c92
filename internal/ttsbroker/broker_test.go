package ttsbroker

import (
	"context"
	"errors"
	"testing"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

func testCatalogs() Catalogs {
	return Catalogs{
		EdgeFree: tts.NewVoiceCatalog([]tts.Voice{
			{ShortName: tts.DefaultVoice, Locale: "zh-CN", Styles: []string{"cheerful"}},
			{ShortName: "en-US-AriaNeural", Locale: "en-US"},
		}),
	}
}

func TestBroker_ForKindHelpers(t *testing.T) {
	t.Parallel()
	catalogs := testCatalogs()
	if catalogs.forKind(tts.EdgeFree) == nil {
		t.Error("expected EdgeFree catalog to be present")
	}
	if catalogs.forKind(tts.OfficialPreview) != nil {
		t.Error("expected OfficialPreview catalog to be nil")
	}

	pools := Pools{}
	if pools.forKind(tts.EdgeFree) != nil {
		t.Error("expected nil pool for unconfigured kind")
	}
}

func TestBroker_Synthesize_BackendDisabled(t *testing.T) {
	t.Parallel()
	b := New(testCatalogs(), Pools{})
	_, err := b.Synthesize(context.Background(), tts.SynthesisRequest{Backend: tts.EdgeFree})
	if !errors.Is(err, tts.ErrBackendDisabled) {
		t.Fatalf("expected ErrBackendDisabled, got %v", err)
	}
}

func TestBroker_Synthesize_SubscriptionDisabledByDefault(t *testing.T) {
	t.Parallel()
	b := New(testCatalogs(), Pools{})
	_, err := b.Synthesize(context.Background(), tts.SynthesisRequest{Backend: tts.Subscription})
	if !errors.Is(err, tts.ErrBackendDisabled) {
		t.Fatalf("expected ErrBackendDisabled, got %v", err)
	}
}

func TestBroker_Validate_CoercesUnknownVoice(t *testing.T) {
	t.Parallel()
	b := New(testCatalogs(), Pools{})
	req := b.validate(tts.SynthesisRequest{Backend: tts.EdgeFree, Voice: "not-a-real-voice"})
	if req.Voice != tts.DefaultVoice {
		t.Errorf("Voice = %q, want %q", req.Voice, tts.DefaultVoice)
	}
	if req.RequestID == "" {
		t.Error("expected validate to assign a RequestID when missing")
	}
}

func TestBroker_Validate_ClampsRateAndPitch(t *testing.T) {
	t.Parallel()
	b := New(testCatalogs(), Pools{})
	req := b.validate(tts.SynthesisRequest{Backend: tts.EdgeFree, Voice: "en-US-AriaNeural", Rate: 9000, Pitch: -9000})
	if req.Rate != 200 {
		t.Errorf("Rate = %d, want 200", req.Rate)
	}
	if req.Pitch != -50 {
		t.Errorf("Pitch = %d, want -50", req.Pitch)
	}
}

func TestBroker_Validate_CoercesUnknownStyle(t *testing.T) {
	t.Parallel()
	b := New(testCatalogs(), Pools{})
	req := b.validate(tts.SynthesisRequest{Backend: tts.EdgeFree, Voice: tts.DefaultVoice, Style: "not-a-style"})
	if req.Style != tts.DefaultStyle {
		t.Errorf("Style = %q, want %q", req.Style, tts.DefaultStyle)
	}
}

func TestBroker_Validate_CoercesUnknownAudioFormat(t *testing.T) {
	t.Parallel()
	b := New(testCatalogs(), Pools{})
	req := b.validate(tts.SynthesisRequest{Backend: tts.EdgeFree, Voice: tts.DefaultVoice, AudioFormat: "bogus"})
	if req.AudioFormat != tts.DefaultAudioFormat {
		t.Errorf("AudioFormat = %q, want %q", req.AudioFormat, tts.DefaultAudioFormat)
	}
}

func TestBroker_VoicesForAndPoolFor(t *testing.T) {
	t.Parallel()
	b := New(testCatalogs(), Pools{})
	if b.VoicesFor(tts.EdgeFree) == nil {
		t.Error("expected VoicesFor(EdgeFree) to be non-nil")
	}
	if b.PoolFor(tts.EdgeFree) != nil {
		t.Error("expected PoolFor(EdgeFree) to be nil with no pool configured")
	}
}

func TestWithWaitTimeout(t *testing.T) {
	t.Parallel()
	b := New(testCatalogs(), Pools{}, WithWaitTimeout(5))
	if b.waitTimeout != 5 {
		t.Errorf("waitTimeout = %v, want 5", b.waitTimeout)
	}
}
