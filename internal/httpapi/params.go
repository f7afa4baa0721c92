package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

// requestParams is the parsed, pre-validation parameter set for a
// synthesis request, accepted as GET query parameters or a POST JSON
// body.
type requestParams struct {
	Text      string  `json:"text"`
	Informant string  `json:"informant"`
	Style     string  `json:"style"`
	Rate      float64 `json:"rate"`
	Pitch     float64 `json:"pitch"`
	Quality   string  `json:"quality"`
	Token     string  `json:"token"`
}

// defaultRate/defaultPitch are the caller-facing float defaults (1.0 =
// normal in both scales) used when a parameter is omitted.
const (
	defaultRate  = 1.0
	defaultPitch = 1.0
)

// postBody mirrors requestParams for JSON decoding, but uses pointer
// float fields: the JSON decoder cannot distinguish an explicit 0.0
// from an omitted field on a non-pointer float64, and 0.0 is a
// legal, distinct rate/pitch value (it maps to -100%/-50% respectively,
// not "use the default").
type postBody struct {
	Text      string   `json:"text"`
	Informant string   `json:"informant"`
	Style     string   `json:"style"`
	Rate      *float64 `json:"rate"`
	Pitch     *float64 `json:"pitch"`
	Quality   string   `json:"quality"`
	Token     string   `json:"token"`
}

// parseParams reads requestParams from either the JSON body (POST) or
// the query string (GET).
func parseParams(r *http.Request) (requestParams, error) {
	p := requestParams{
		Informant: tts.DefaultVoice,
		Style:     tts.DefaultStyle,
		Rate:      defaultRate,
		Pitch:     defaultPitch,
		Quality:   tts.DefaultAudioFormat,
	}

	if r.Method == http.MethodPost && r.Body != nil {
		var body postBody
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&body); err != nil {
			return p, err
		}
		if body.Text != "" {
			p.Text = body.Text
		}
		if body.Informant != "" {
			p.Informant = body.Informant
		}
		if body.Style != "" {
			p.Style = body.Style
		}
		if body.Rate != nil {
			p.Rate = *body.Rate
		}
		if body.Pitch != nil {
			p.Pitch = *body.Pitch
		}
		if body.Quality != "" {
			p.Quality = body.Quality
		}
		p.Token = body.Token
		return p, nil
	}

	q := r.URL.Query()
	if v := q.Get("text"); v != "" {
		p.Text = v
	}
	if v := q.Get("informant"); v != "" {
		p.Informant = v
	}
	if v := q.Get("style"); v != "" {
		p.Style = v
	}
	if v := q.Get("rate"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.Rate = f
		}
	}
	if v := q.Get("pitch"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.Pitch = f
		}
	}
	if v := q.Get("quality"); v != "" {
		p.Quality = v
	}
	p.Token = q.Get("token")
	if p.Token == "" {
		p.Token = r.Header.Get("token")
	}
	return p, nil
}

// toSynthesisRequest converts parsed params into a SynthesisRequest
// targeting backend. Text normalization and format/rate/pitch mapping
// happen here; voice/style legality is the Broker's job.
func (p requestParams) toSynthesisRequest(backend tts.BackendKind) tts.SynthesisRequest {
	return tts.SynthesisRequest{
		RequestID:   tts.NewRequestID(),
		Text:        normalizeText(p.Text),
		Voice:       p.Informant,
		Style:       p.Style,
		Rate:        tts.RateFromFloat(p.Rate),
		Pitch:       tts.PitchFromFloat(p.Pitch),
		AudioFormat: tts.CoerceAudioFormat(p.Quality),
		Backend:     backend,
	}
}
