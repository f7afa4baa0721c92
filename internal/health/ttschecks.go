package health

import (
	"context"
	"fmt"

	"github.com/MrWong99/sonicgate/pkg/tts"
)

// CatalogChecker returns a [Checker] that fails readiness if the given
// voice catalog is empty. name is typically the backend's display name
// (e.g. "catalog:EdgeFree").
func CatalogChecker(name string, catalog *tts.VoiceCatalog) Checker {
	return Checker{
		Name: name,
		Check: func(_ context.Context) error {
			if catalog == nil || catalog.Len() == 0 {
				return fmt.Errorf("voice catalog is empty")
			}
			return nil
		},
	}
}

// PoolChecker returns a [Checker] that fails readiness if pool reports
// itself unhealthy (every cell's circuit breaker open).
func PoolChecker(name string, pool interface{ Healthy() bool }) Checker {
	return Checker{
		Name: name,
		Check: func(_ context.Context) error {
			if pool == nil {
				return nil
			}
			if !pool.Healthy() {
				return fmt.Errorf("pool has no healthy backend cells")
			}
			return nil
		},
	}
}
