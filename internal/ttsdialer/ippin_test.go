package ttsdialer

import (
	"testing"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

func TestPinnedAddr_DefaultAreaReturnsEmpty(t *testing.T) {
	t.Parallel()
	if addr := pinnedAddr(tts.AreaDefault); addr != "" {
		t.Errorf("pinnedAddr(Default) = %q, want empty", addr)
	}
}

func TestPinnedAddr_PinnedAreaReturnsOneOfThePool(t *testing.T) {
	t.Parallel()
	pool := edgeFreeIPPool[tts.AreaChina]
	addr := pinnedAddr(tts.AreaChina)
	found := false
	for _, p := range pool {
		if p == addr {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("pinnedAddr(China) = %q, not in pool %v", addr, pool)
	}
}

func TestPinnedAddr_UnknownAreaReturnsEmpty(t *testing.T) {
	t.Parallel()
	if addr := pinnedAddr(tts.ServerArea(99)); addr != "" {
		t.Errorf("pinnedAddr(unknown) = %q, want empty", addr)
	}
}
