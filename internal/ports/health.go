package ports

import "context"

// HealthChecker is implemented by components whose availability the
// readiness probe should reflect, in practice the commerce and content
// backend clients.
type HealthChecker interface {
	// Name labels the component in the readiness response, e.g.
	// "commerce-api".
	Name() string

	// HealthCheck returns nil when the component is usable. Implementations
	// honor ctx cancellation; they may answer from cached state instead of
	// probing the network.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects checkers at startup for the readiness handler to
// probe.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll runs every registered check and maps checker name to its
	// outcome, nil meaning healthy.
	CheckAll(ctx context.Context) map[string]error
}
