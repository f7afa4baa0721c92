package httpapi

import _ "embed"

// silentMP3 is returned verbatim whenever normalized request text is
// empty, short-circuiting the upstream call entirely.
//
//go:embed assets/silence.mp3
var silentMP3 []byte
