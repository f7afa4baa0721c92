// Package httpapi implements the HTTP front door: request parsing, text
// normalization, parameter clamping, and the routes that hand validated
// requests to the Broker. These concerns are deliberately kept outside
// the brokering core; this package is the documented boundary the core
// is served through.
//
// The text-normalization pipeline (iterative URL-decode to a fixed
// point, then full-width CJK punctuation substitution) is transcribed
// from the original service's to_ms_request.
package httpapi

import (
	"net/url"
	"strings"
)

// normalizeText applies the text-normalization pipeline to raw caller
// input: iterative URL-decoding to a fixed point, `<`/`>` escaping, then
// full-width CJK punctuation replaced with ASCII+space. The punctuation
// pass runs once, after decoding has converged, since none of its
// substitutions are themselves percent-escape sequences and so cannot
// reintroduce a decode target.
func normalizeText(raw string) string {
	decoded := decodeToFixedPoint(raw)
	decoded = strings.ReplaceAll(decoded, "<", "&lt;")
	decoded = strings.ReplaceAll(decoded, ">", "&gt;")
	return replacePunctuation(decoded)
}

// decodeToFixedPoint repeatedly URL-decodes s until a pass produces no
// further change, guarding against both already-decoded input and
// double-encoded input.
func decodeToFixedPoint(s string) string {
	for {
		next, err := url.QueryUnescape(s)
		if err != nil || next == s {
			return s
		}
		s = next
	}
}

// punctuationReplacements is the full-width-to-ASCII substitution table
// applied after URL-decoding.
var punctuationReplacements = []struct {
	from string
	to   string
}{
	{"？", "? "},
	{"，", ", "},
	{"。", ". "},
	{"：", ": "},
	{"；", "; "},
	{"！", "! "},
}

func replacePunctuation(s string) string {
	for _, r := range punctuationReplacements {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	return s
}
