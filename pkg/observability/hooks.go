// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about refresh cycles, handle interaction and frame caching.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by the libraries that emit events.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnDrawStart(generation, uint16(mask))
//	// ... composite layers ...
//	observability.Render().OnDrawComplete(generation, phases, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the widget refresh cycle.
type RenderHooks interface {
	// OnRefreshRequest records a refresh poll and whether a draw was scheduled.
	OnRefreshRequest(generation int, mask uint16, scheduled bool)

	// OnDrawStart records the beginning of an expose with the pending layer mask.
	OnDrawStart(generation int, mask uint16)

	// OnDrawComplete records a finished expose and the number of phases that ran.
	OnDrawComplete(generation int, phases int, duration time.Duration)

	// OnSurfacesRecreated records a surface set (re)allocation.
	OnSurfacesRecreated(width, height int)
}

// =============================================================================
// Handle Hooks
// =============================================================================

// HandleHooks receives events from the handle overlay.
type HandleHooks interface {
	// OnHandleGrab records a drag start on handle index.
	OnHandleGrab(index int)

	// OnHandleRelease records the end of a drag.
	OnHandleRelease(index int)

	// OnHandleChanged records a value change notification.
	OnHandleChanged(index int, x, y, z float64)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from frame cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRefreshRequest(int, uint16, bool)     {}
func (NoopRenderHooks) OnDrawStart(int, uint16)                {}
func (NoopRenderHooks) OnDrawComplete(int, int, time.Duration) {}
func (NoopRenderHooks) OnSurfacesRecreated(int, int)           {}

// NoopHandleHooks is a no-op implementation of HandleHooks.
type NoopHandleHooks struct{}

func (NoopHandleHooks) OnHandleGrab(int)                               {}
func (NoopHandleHooks) OnHandleRelease(int)                            {}
func (NoopHandleHooks) OnHandleChanged(int, float64, float64, float64) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	handleHooks HandleHooks = NoopHandleHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any widget is created.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetHandleHooks registers custom handle hooks.
func SetHandleHooks(h HandleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		handleHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Handle returns the registered handle hooks.
func Handle() HandleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return handleHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	handleHooks = NoopHandleHooks{}
	cacheHooks = NoopCacheHooks{}
}
