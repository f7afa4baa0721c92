package ttsdialer

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

// WireTimestamp formats a timestamp the way the upstream's X-Timestamp
// header expects: RFC3339 with a literal 'Z' UTC suffix.
func WireTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// edgeFreePreambleFormat is the outputFormat EdgeFree's speech.config
// preamble pins, independent of the negotiated per-request quality. This
// is fixed wire behaviour, not a caller-facing default, so it does not
// share tts.DefaultAudioFormat.
const edgeFreePreambleFormat = "webm-24khz-16bit-mono-opus"

// speechConfigBody is the JSON body of the speech.config preamble frame.
// EdgeFree pins the output format here since its per-request frame omits
// synthesis.context; Subscription/Preview send a minimal body and set
// format per request instead.
func speechConfigBody(kind tts.BackendKind) string {
	if kind == tts.EdgeFree {
		return fmt.Sprintf(`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":false,"wordBoundaryEnabled":false},"outputFormat":%q}}}}`, edgeFreePreambleFormat)
	}
	return `{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":false,"wordBoundaryEnabled":false}}}}}`
}

// sendPreamble writes the single text frame `Path: speech.config` that
// must precede any SSML frame on a freshly dialed session.
func (d *Dialer) sendPreamble(ctx context.Context, conn *websocket.Conn, kind tts.BackendKind) error {
	body := speechConfigBody(kind)
	frame := fmt.Sprintf(
		"Path: speech.config\r\nX-Timestamp: %s\r\nContent-Type: application/json; charset=utf-8\r\n\r\n%s",
		WireTimestamp(), body,
	)
	return conn.Write(ctx, websocket.MessageText, []byte(frame))
}
