package tts_test

import (
	"testing"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

func TestIsKnownRegion(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{
		"eastus":        true,
		"EastUS":        true,
		" eastus ":      true,
		"westeurope":    true,
		"moonbase-one":  false,
		"":              false,
	}
	for region, want := range cases {
		if got := tts.IsKnownRegion(region); got != want {
			t.Errorf("IsKnownRegion(%q) = %v, want %v", region, got, want)
		}
	}
}
