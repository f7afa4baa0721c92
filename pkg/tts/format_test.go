package tts_test

import (
	"testing"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

func TestAudioFormats_Has32Entries(t *testing.T) {
	t.Parallel()
	formats := tts.AudioFormats()
	if len(formats) != 32 {
		t.Fatalf("len(AudioFormats()) = %d, want 32", len(formats))
	}
}

func TestIsKnownAudioFormat(t *testing.T) {
	t.Parallel()
	if !tts.IsKnownAudioFormat("audio-24khz-48kbitrate-mono-mp3") {
		t.Error("expected known format to be recognized")
	}
	if tts.IsKnownAudioFormat("audio-nonsense-format") {
		t.Error("expected unknown format to be rejected")
	}
}

func TestCoerceAudioFormat(t *testing.T) {
	t.Parallel()
	if got := tts.CoerceAudioFormat("audio-24khz-48kbitrate-mono-mp3"); got != "audio-24khz-48kbitrate-mono-mp3" {
		t.Errorf("known format should pass through, got %q", got)
	}
	if got := tts.CoerceAudioFormat("garbage"); got != tts.DefaultAudioFormat {
		t.Errorf("unknown format should coerce to default, got %q", got)
	}
}

func TestClampRate(t *testing.T) {
	t.Parallel()
	cases := map[int]int{
		-200: -100,
		-100: -100,
		0:    0,
		200:  200,
		500:  200,
	}
	for in, want := range cases {
		if got := tts.ClampRate(in); got != want {
			t.Errorf("ClampRate(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestClampPitch(t *testing.T) {
	t.Parallel()
	cases := map[int]int{
		-100: -50,
		-50:  -50,
		0:    0,
		50:   50,
		100:  50,
	}
	for in, want := range cases {
		if got := tts.ClampPitch(in); got != want {
			t.Errorf("ClampPitch(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestRateFromFloat(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   float64
		want int
	}{
		{1.0, 0},
		{0.0, -100},
		{2.0, 100},
		{3.0, 200},
		{5.0, 200}, // clamped
	}
	for _, c := range cases {
		if got := tts.RateFromFloat(c.in); got != c.want {
			t.Errorf("RateFromFloat(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPitchFromFloat(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   float64
		want int
	}{
		{1.0, 0},
		{0.0, -50},
		{2.0, 50},
		{3.0, 50}, // clamped
	}
	for _, c := range cases {
		if got := tts.PitchFromFloat(c.in); got != c.want {
			t.Errorf("PitchFromFloat(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
