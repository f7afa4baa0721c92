package ttssession

import (
	"strings"
	"testing"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

func TestBuildSSML_DefaultStyleOmitsExpressAs(t *testing.T) {
	t.Parallel()
	req := tts.SynthesisRequest{Text: "hello", Voice: "en-US-AriaNeural", Style: tts.DefaultStyle, Rate: 0, Pitch: 0}
	ssml := BuildSSML(req)
	if strings.Contains(ssml, "mstts:express-as") {
		t.Errorf("default style should not use express-as: %s", ssml)
	}
	if !strings.Contains(ssml, "en-US-AriaNeural") {
		t.Errorf("ssml missing voice name: %s", ssml)
	}
	if !strings.Contains(ssml, "hello") {
		t.Errorf("ssml missing text: %s", ssml)
	}
}

func TestBuildSSML_NonDefaultStyleUsesExpressAs(t *testing.T) {
	t.Parallel()
	req := tts.SynthesisRequest{Text: "hi", Voice: "en-US-GuyNeural", Style: "cheerful", Rate: 10, Pitch: 5}
	ssml := BuildSSML(req)
	if !strings.Contains(ssml, "mstts:express-as style='cheerful'") {
		t.Errorf("ssml missing express-as for non-default style: %s", ssml)
	}
	if !strings.Contains(ssml, "rate='10%'") || !strings.Contains(ssml, "pitch='5%'") {
		t.Errorf("ssml missing rate/pitch prosody: %s", ssml)
	}
}

func TestSynthesisContextFrame_IncludesFormatAndRequestId(t *testing.T) {
	t.Parallel()
	req := tts.SynthesisRequest{RequestID: "r1", AudioFormat: "audio-24khz-48kbitrate-mono-mp3"}
	frame := synthesisContextFrame(req, "2024-01-01T00:00:00.000Z")
	if !strings.Contains(frame, "Path: synthesis.context") {
		t.Errorf("frame missing Path header: %s", frame)
	}
	if !strings.Contains(frame, "X-RequestId: r1") {
		t.Errorf("frame missing X-RequestId: %s", frame)
	}
	if !strings.Contains(frame, "audio-24khz-48kbitrate-mono-mp3") {
		t.Errorf("frame missing audio format: %s", frame)
	}
}

func TestSsmlFrame_IncludesRequestIdAndContentType(t *testing.T) {
	t.Parallel()
	req := tts.SynthesisRequest{RequestID: "r2", Text: "hi", Voice: "v", Style: tts.DefaultStyle}
	frame := ssmlFrame(req, "2024-01-01T00:00:00.000Z")
	if !strings.Contains(frame, "Path: ssml") {
		t.Errorf("frame missing Path header: %s", frame)
	}
	if !strings.Contains(frame, "X-RequestId: r2") {
		t.Errorf("frame missing X-RequestId: %s", frame)
	}
	if !strings.Contains(frame, "Content-Type: application/ssml+xml") {
		t.Errorf("frame missing Content-Type: %s", frame)
	}
}

func TestWireTimestampAlias(t *testing.T) {
	t.Parallel()
	if wireTimestamp() == "" {
		t.Error("wireTimestamp() should not be empty")
	}
}
