package ttssession

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// headerTerminator separates a wire frame's header block from its body.
var headerTerminator = []byte("\r\n\r\n")

// audioSentinel is the two-byte prefix marking a header-only binary
// frame with no audio payload, used as a stream boundary marker. The
// design notes flag this as empirical; this implementation always
// parses the header block rather than relying on fixed byte offsets,
// falling back to the sentinel only to short-circuit an empty payload.
var audioSentinel = []byte{0x00, 0x67}

// wireHeaders is a parsed `Key: Value\r\n...` header block.
type wireHeaders map[string]string

// get looks up a header case-insensitively.
func (h wireHeaders) get(key string) string {
	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// parseHeaders parses a `Key: Value\r\n` block (no trailing blank line
// required) into a wireHeaders map.
func parseHeaders(block []byte) wireHeaders {
	h := make(wireHeaders)
	for _, line := range strings.Split(string(block), "\r\n") {
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		h[key] = val
	}
	return h
}

// splitTextFrame splits a text-frame payload into its header block and
// body at the first `\r\n\r\n` boundary, parsing the headers.
func splitTextFrame(payload []byte) (wireHeaders, []byte) {
	idx := bytes.Index(payload, headerTerminator)
	if idx < 0 {
		return parseHeaders(payload), nil
	}
	header := payload[:idx]
	body := payload[idx+len(headerTerminator):]
	return parseHeaders(header), body
}

// splitBinaryFrame splits a binary audio frame into its parsed header
// and raw audio payload. Layout: 2-byte big-endian header length, then
// that many bytes of ASCII header (`Path:audio\r\n...`), then payload.
//
// ok is false when frame is shorter than the declared header length or
// carries the no-data sentinel, in which case headers still reflects
// whatever could be parsed from the declared (possibly truncated)
// header region and payload is nil.
func splitBinaryFrame(frame []byte) (headers wireHeaders, payload []byte, hasData bool) {
	if len(frame) < 2 {
		return wireHeaders{}, nil, false
	}
	if bytes.HasPrefix(frame, audioSentinel) {
		// Header-only marker; parse whatever header bytes follow the
		// 2-byte prefix so the requestId can still be recovered.
		headerLen := int(binary.BigEndian.Uint16(frame[:2]))
		end := 2 + headerLen
		if end > len(frame) {
			end = len(frame)
		}
		return parseHeaders(frame[2:end]), nil, false
	}

	headerLen := int(binary.BigEndian.Uint16(frame[:2]))
	if 2+headerLen > len(frame) {
		return wireHeaders{}, nil, false
	}
	header := frame[2 : 2+headerLen]
	body := frame[2+headerLen:]
	return parseHeaders(header), body, true
}
