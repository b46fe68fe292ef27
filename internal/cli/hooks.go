package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linegraph/pkg/observability"
)

// logHooks forwards observability events to a debug logger.
type logHooks struct {
	logger *log.Logger
}

func installLogHooks(l *log.Logger) {
	h := &logHooks{logger: l.WithPrefix("hooks")}
	observability.SetRenderHooks(h)
	observability.SetHandleHooks(h)
	observability.SetCacheHooks(h)
}

func (h *logHooks) OnRefreshRequest(generation int, mask uint16, scheduled bool) {
	if scheduled {
		h.logger.Debug("refresh scheduled", "gen", generation, "mask", fmt.Sprintf("%#02x", mask))
	}
}

func (h *logHooks) OnDrawStart(generation int, mask uint16) {
	h.logger.Debug("draw", "gen", generation, "mask", fmt.Sprintf("%#02x", mask))
}

func (h *logHooks) OnDrawComplete(generation, phases int, d time.Duration) {
	h.logger.Debug("drawn", "gen", generation, "phases", phases, "duration", d)
}

func (h *logHooks) OnSurfacesRecreated(width, height int) {
	h.logger.Debug("surfaces recreated", "width", width, "height", height)
}

func (h *logHooks) OnHandleGrab(index int) {
	h.logger.Debug("handle grabbed", "index", index)
}

func (h *logHooks) OnHandleRelease(index int) {
	h.logger.Debug("handle released", "index", index)
}

func (h *logHooks) OnHandleChanged(index int, x, y, z float64) {
	h.logger.Debug("handle changed", "index", index, "x", x, "y", y, "z", z)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.RenderHooks = (*logHooks)(nil)
	_ observability.HandleHooks = (*logHooks)(nil)
	_ observability.CacheHooks  = (*logHooks)(nil)
)
