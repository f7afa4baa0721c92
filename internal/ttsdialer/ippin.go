package ttsdialer

import (
	"math/rand"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

// edgeFreeIPPool maps a non-Default server area to a small curated list
// of known-good upstream IPs, bypassing DNS resolution entirely. The
// Default area dials the normal hostname and lets DNS resolve it.
//
// The China entry's first address is the literal IP the original
// service hardcodes; ChinaHK/ChinaTW are additional points in the same
// pool, selected as a random pick from the curated static list.
var edgeFreeIPPool = map[tts.ServerArea][]string{
	tts.AreaChina:   {"202.89.233.100", "202.89.233.101"},
	tts.AreaChinaHK: {"210.176.140.236", "210.176.140.237"},
	tts.AreaChinaTW: {"118.163.72.101", "118.163.72.102"},
}

// pinnedAddr returns a random curated IP for the given area, or the
// empty string when area is AreaDefault or has no configured pool (in
// which case the caller should dial by hostname as usual).
func pinnedAddr(area tts.ServerArea) string {
	pool, ok := edgeFreeIPPool[area]
	if !ok || len(pool) == 0 {
		return ""
	}
	return pool[rand.Intn(len(pool))]
}
