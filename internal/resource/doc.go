// Package resource implements the resource controller shared by arenas,
// fixture writers and the verification driver.
//
// Three budgets are managed:
//
//   - Memory: hard cap on arena bytes (non-blocking, fail-fast)
//   - Concurrency: number of independent sort cases running at once
//   - IO: token-bucket limit on fixture writes
//
// Memory reservations never block. A refused reservation surfaces to arena
// callers as an out-of-memory error:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	})
//	if err := rc.AcquireMemory(size); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(size)
//
// All methods are safe for concurrent use, and all methods on a nil
// *Controller are no-ops so that limits stay optional.
package resource
