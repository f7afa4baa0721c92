package ttssession

import (
	"context"
	"fmt"

	"github.com/coder/websocket"

	"github.com/MrWong99/sonicgate/internal/ttsdialer"
	"github.com/MrWong99/sonicgate/pkg/tts"
)

// WriteSynthesis sends the one or two text frames that constitute a
// synthesis request on the wire: frame A (synthesis.context, omitted
// for EdgeFree since its format was pinned at preamble time) and frame
// B (ssml). Both writes happen under the session's write lock so that
// concurrent callers' frames never interleave on the single upstream
// socket.
func (s *Session) WriteSynthesis(ctx context.Context, req tts.SynthesisRequest) error {
	ts := wireTimestamp()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.kind != tts.EdgeFree {
		frameA := synthesisContextFrame(req, ts)
		if err := s.conn.Write(ctx, websocket.MessageText, []byte(frameA)); err != nil {
			return fmt.Errorf("%w: frame A: %v", tts.ErrUpstreamTransport, err)
		}
	}

	frameB := ssmlFrame(req, ts)
	if err := s.conn.Write(ctx, websocket.MessageText, []byte(frameB)); err != nil {
		return fmt.Errorf("%w: frame B: %v", tts.ErrUpstreamTransport, err)
	}
	return nil
}

// wireTimestamp mirrors ttsdialer's timestamp format for per-request
// frames; duplicated rather than imported to keep ttssession free of a
// dependency on ttsdialer beyond the shared timestamp shape.
func wireTimestamp() string {
	return ttsdialer.WireTimestamp()
}

func synthesisContextFrame(req tts.SynthesisRequest, ts string) string {
	body := fmt.Sprintf(
		`{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":false,"wordBoundaryEnabled":false},"outputFormat":%q}}}`,
		req.AudioFormat,
	)
	return fmt.Sprintf(
		"Path: synthesis.context\r\nX-RequestId: %s\r\nX-Timestamp: %s\r\nContent-Type: application/json; charset=utf-8\r\n\r\n%s",
		req.RequestID, ts, body,
	)
}

func ssmlFrame(req tts.SynthesisRequest, ts string) string {
	ssml := BuildSSML(req)
	return fmt.Sprintf(
		"Path: ssml\r\nX-RequestId: %s\r\nX-Timestamp: %s\r\nContent-Type: application/ssml+xml\r\n\r\n%s",
		req.RequestID, ts, ssml,
	)
}

// BuildSSML renders the <speak> document for req: voice, style (via
// mstts:express-as, omitted for the "general" default), and percent
// rate/pitch prosody, wrapping the already-normalized text.
func BuildSSML(req tts.SynthesisRequest) string {
	inner := req.Text
	if req.Style != "" && req.Style != tts.DefaultStyle {
		inner = fmt.Sprintf(
			`<mstts:express-as style='%s'><prosody rate='%d%%' pitch='%d%%'>%s</prosody></mstts:express-as>`,
			req.Style, req.Rate, req.Pitch, inner,
		)
	} else {
		inner = fmt.Sprintf(`<prosody rate='%d%%' pitch='%d%%'>%s</prosody>`, req.Rate, req.Pitch, inner)
	}

	return fmt.Sprintf(
		`<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xmlns:mstts='https://www.w3.org/2001/mstts' xml:lang='en-US'><voice name='%s'>%s</voice></speak>`,
		req.Voice, inner,
	)
}
