package tts

import "strings"

// VoiceCatalog is a per-backend, read-only index of usable voices,
// built once at startup. The zero value is an empty catalog.
type VoiceCatalog struct {
	byShortName map[string]Voice
	byLocale    map[string][]Voice
}

// NewVoiceCatalog builds a catalog from a flat voice list.
func NewVoiceCatalog(voices []Voice) *VoiceCatalog {
	c := &VoiceCatalog{
		byShortName: make(map[string]Voice, len(voices)),
		byLocale:    make(map[string][]Voice),
	}
	for _, v := range voices {
		c.byShortName[v.ShortName] = v
		c.byLocale[v.Locale] = append(c.byLocale[v.Locale], v)
	}
	return c
}

// Get returns the voice with the given short name, if present.
func (c *VoiceCatalog) Get(shortName string) (Voice, bool) {
	if c == nil {
		return Voice{}, false
	}
	v, ok := c.byShortName[shortName]
	return v, ok
}

// ByLocale returns the voices registered under the given locale.
func (c *VoiceCatalog) ByLocale(locale string) []Voice {
	if c == nil {
		return nil
	}
	return c.byLocale[locale]
}

// Len reports the number of distinct voices in the catalog.
func (c *VoiceCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byShortName)
}

// ShortNames returns every voice short name in the catalog, unordered.
func (c *VoiceCatalog) ShortNames() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.byShortName))
	for name := range c.byShortName {
		out = append(out, name)
	}
	return out
}

// Intersect returns a new catalog containing only voices present (by
// short name) in every catalog supplied, including c. Used to build the
// Subscription backend's mixed catalog across credentials so that
// random-credential routing never selects a voice one region lacks.
func (c *VoiceCatalog) Intersect(others ...*VoiceCatalog) *VoiceCatalog {
	if c == nil {
		return NewVoiceCatalog(nil)
	}
	result := make([]Voice, 0, c.Len())
	for name, v := range c.byShortName {
		present := true
		for _, o := range others {
			if o == nil {
				present = false
				break
			}
			if _, ok := o.byShortName[name]; !ok {
				present = false
				break
			}
		}
		if present {
			result = append(result, v)
		}
	}
	return NewVoiceCatalog(result)
}

// ResolveStyles returns the style list for a voice, coercing an unknown
// or missing style to DefaultStyle, and always placing DefaultStyle
// first regardless of whether the voice advertises it explicitly.
func ResolveStyles(v Voice) []string {
	out := make([]string, 0, len(v.Styles)+1)
	out = append(out, DefaultStyle)
	for _, s := range v.Styles {
		if !strings.EqualFold(s, DefaultStyle) {
			out = append(out, s)
		}
	}
	return out
}

// CoerceStyle returns style if v advertises it (or it is DefaultStyle),
// otherwise DefaultStyle.
func CoerceStyle(v Voice, style string) string {
	if style == "" || strings.EqualFold(style, DefaultStyle) {
		return DefaultStyle
	}
	if v.HasStyle(style) {
		return style
	}
	return DefaultStyle
}
