// Package health tracks the reachability of the commerce and content
// backends for the readiness probe. The service can start before its
// backends are up; readiness flips once every registered check passes.
package health

import (
	"context"
	"sync"

	"github.com/commercemesh/catalog-sync/internal/ports"
)

var _ ports.HealthRegistry = (*Registry)(nil)

// Registry collects [ports.HealthChecker] implementations registered at
// startup and probes them on demand. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	checkers []ports.HealthChecker
}

func New() *Registry {
	return &Registry{}
}

// Register adds a checker. Registration order is not significant.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	r.checkers = append(r.checkers, checker)
	r.mu.Unlock()
}

// CheckAll probes every registered checker concurrently and returns the
// outcome per checker name, nil meaning healthy. Checks run outside the
// lock so a slow backend probe cannot block Register.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := make([]ports.HealthChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		resmu   sync.Mutex
		results = make(map[string]error, len(checkers))
	)
	for _, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.HealthCheck(ctx)
			resmu.Lock()
			results[c.Name()] = err
			resmu.Unlock()
		}()
	}
	wg.Wait()

	return results
}
