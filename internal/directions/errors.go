package directions

import (
	"errors"
	"fmt"
)

// InsufficientWaypointsError is a caller-input error raised before any
// network activity: a route needs at least two waypoints. It is the only
// error BuildRoute returns; every provider-side failure resolves to a
// fallback result instead.
type InsufficientWaypointsError struct {
	Count int
}

func (e *InsufficientWaypointsError) Error() string {
	return fmt.Sprintf("route building requires at least 2 waypoints, got %d", e.Count)
}

var (
	// ErrInvalidCredential marks an HTTP 401 from the provider. Not
	// retryable; indicates a deployment problem, not a transient failure.
	ErrInvalidCredential = errors.New("directions provider rejected the access token")

	// ErrUnroutable marks an HTTP 422: the waypoints cannot be connected
	// (for example disconnected islands). Straight-line fallback is the
	// expected resolution.
	ErrUnroutable = errors.New("waypoints cannot be routed")

	// ErrRateLimited marks an HTTP 429. Retryable with backoff at the
	// caller's discretion.
	ErrRateLimited = errors.New("directions provider rate limit exceeded")

	// ErrProviderUnavailable is the catch-all for network failures,
	// timeouts and malformed responses.
	ErrProviderUnavailable = errors.New("directions provider unavailable")
)
