package httpapi

import "testing"

func TestNormalizeText_DecodesURLEncoding(t *testing.T) {
	t.Parallel()
	got := normalizeText("hello%20world")
	if got != "hello world" {
		t.Errorf("normalizeText() = %q, want %q", got, "hello world")
	}
}

func TestNormalizeText_DecodesDoubleEncoding(t *testing.T) {
	t.Parallel()
	got := normalizeText("hello%2520world")
	if got != "hello world" {
		t.Errorf("normalizeText() = %q, want %q", got, "hello world")
	}
}

func TestNormalizeText_EscapesAngleBrackets(t *testing.T) {
	t.Parallel()
	got := normalizeText("<tag>")
	if got != "&lt;tag&gt;" {
		t.Errorf("normalizeText() = %q, want %q", got, "&lt;tag&gt;")
	}
}

func TestNormalizeText_ReplacesFullWidthPunctuation(t *testing.T) {
	t.Parallel()
	got := normalizeText("你好？世界，再见。")
	want := "你好? 世界, 再见. "
	if got != want {
		t.Errorf("normalizeText() = %q, want %q", got, want)
	}
}

func TestDecodeToFixedPoint_InvalidEscapeReturnsInput(t *testing.T) {
	t.Parallel()
	got := decodeToFixedPoint("100%_off")
	if got != "100%_off" {
		t.Errorf("decodeToFixedPoint() = %q, want unchanged input", got)
	}
}
