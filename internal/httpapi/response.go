package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeAudio writes a successful synthesis response: the audio bytes
// with the upstream-reported (or coerced) media type.
func writeAudio(w http.ResponseWriter, mediaType string, audio []byte) {
	if mediaType == "" {
		mediaType = "audio/mpeg"
	}
	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

// writeSilence short-circuits empty-text requests with the built-in
// silent MP3 instead of round-tripping to an upstream backend.
func writeSilence(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(silentMP3)
}

// genericFailureMessage is the body of every failure response. The
// caller never learns which internal error occurred; err is logged
// server-side instead of being reflected back.
const genericFailureMessage = "未知错误"

// writeFailure writes the user-visible failure shape: 200 OK with a
// short text/plain body. The envelope is deliberately minimal so
// callers can upgrade it without touching synthesis logic.
func writeFailure(w http.ResponseWriter, err error) {
	slog.Warn("synthesis request failed", "err", err)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(genericFailureMessage))
}

// writeJSON writes v as an indented JSON body with status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
