package tts

// DefaultAudioFormat is used whenever a request omits or misspells the
// quality parameter.
const DefaultAudioFormat = "audio-24khz-48kbitrate-mono-mp3"

// DefaultVoice is used whenever a request's informant/voice is missing
// or not present in the resolved backend's catalog.
const DefaultVoice = "zh-CN-XiaoxiaoNeural"

// DefaultStyle is used whenever a request omits style, or the requested
// style is not advertised by the resolved voice.
const DefaultStyle = "general"

// audioFormats is the complete set of accepted audio-format identifiers,
// transcribed from the original service's MS_TTS_QUALITY_LIST.
var audioFormats = []string{
	"audio-16khz-128kbitrate-mono-mp3",
	"audio-16khz-16bit-32kbps-mono-opus",
	"audio-16khz-16kbps-mono-siren",
	"audio-16khz-32kbitrate-mono-mp3",
	"audio-16khz-64kbitrate-mono-mp3",
	"audio-24khz-160kbitrate-mono-mp3",
	"audio-24khz-16bit-24kbps-mono-opus",
	"audio-24khz-16bit-48kbps-mono-opus",
	"audio-24khz-48kbitrate-mono-mp3",
	"audio-24khz-96kbitrate-mono-mp3",
	"audio-48khz-192kbitrate-mono-mp3",
	"audio-48khz-96kbitrate-mono-mp3",
	"ogg-16khz-16bit-mono-opus",
	"ogg-24khz-16bit-mono-opus",
	"ogg-48khz-16bit-mono-opus",
	"raw-16khz-16bit-mono-pcm",
	"raw-16khz-16bit-mono-truesilk",
	"raw-24khz-16bit-mono-pcm",
	"raw-24khz-16bit-mono-truesilk",
	"raw-48khz-16bit-mono-pcm",
	"raw-8khz-16bit-mono-pcm",
	"raw-8khz-8bit-mono-alaw",
	"raw-8khz-8bit-mono-mulaw",
	"riff-16khz-16bit-mono-pcm",
	"riff-24khz-16bit-mono-pcm",
	"riff-48khz-16bit-mono-pcm",
	"riff-8khz-16bit-mono-pcm",
	"riff-8khz-8bit-mono-alaw",
	"riff-8khz-8bit-mono-mulaw",
	"webm-16khz-16bit-mono-opus",
	"webm-24khz-16bit-24kbps-mono-opus",
	"webm-24khz-16bit-mono-opus",
}

// AudioFormats returns the 32 supported audio-format identifiers.
func AudioFormats() []string {
	out := make([]string, len(audioFormats))
	copy(out, audioFormats)
	return out
}

// IsKnownAudioFormat reports whether format is one of the 32 supported
// identifiers.
func IsKnownAudioFormat(format string) bool {
	for _, f := range audioFormats {
		if f == format {
			return true
		}
	}
	return false
}

// CoerceAudioFormat returns format if known, otherwise DefaultAudioFormat.
func CoerceAudioFormat(format string) string {
	if IsKnownAudioFormat(format) {
		return format
	}
	return DefaultAudioFormat
}

// ClampRate clamps a rate percent to the legal [-100, 200] range.
func ClampRate(rate int) int {
	switch {
	case rate < -100:
		return -100
	case rate > 200:
		return 200
	default:
		return rate
	}
}

// ClampPitch clamps a pitch percent to the legal [-50, 50] range.
func ClampPitch(pitch int) int {
	switch {
	case pitch < -50:
		return -50
	case pitch > 50:
		return 50
	default:
		return pitch
	}
}

// RateFromFloat maps the caller-facing float rate semantics (1.0 =
// normal, 0.0 = slowest, 3.0 = fastest) to the clamped integer percent
// the wire protocol uses.
func RateFromFloat(rate float64) int {
	return ClampRate(round(100*rate - 100))
}

// PitchFromFloat maps the caller-facing float pitch semantics (1.0 =
// normal, 0.0 = lowest, 2.0 = highest) to the clamped integer percent
// the wire protocol uses.
func PitchFromFloat(pitch float64) int {
	return ClampPitch(round(50*pitch - 50))
}

func round(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return int(f - 0.5)
}
