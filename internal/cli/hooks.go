package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports pipeline, cache and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnGenerateStart(_ context.Context, kind string, count int) {
	h.logger.Debug("generate start", "kind", kind, "count", count)
}

func (h *logHooks) OnGenerateComplete(_ context.Context, kind string, count int, d time.Duration, err error) {
	h.done("generate", d, err, "kind", kind, "count", count)
}

func (h *logHooks) OnDiscretiseStart(_ context.Context, points, m int) {
	h.logger.Debug("discretise start", "points", points, "m", m)
}

func (h *logHooks) OnDiscretiseComplete(_ context.Context, points, m int, d time.Duration, err error) {
	h.done("discretise", d, err, "points", points, "m", m)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", d, err, "formats", formats)
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

func (h *logHooks) OnRequest(_ context.Context, id, method, path string) {
	h.logger.Debug("request start", "id", id, "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, id, method, path string, status int, d time.Duration) {
	h.logger.Debug("request done", "id", id, "method", method, "path", path, "status", status, "duration", d)
}

func (h *logHooks) done(stage string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", d.Round(time.Microsecond))
	if err != nil {
		h.logger.Debug(stage+" failed", append(kv, "error", err)...)
		return
	}
	h.logger.Debug(stage+" done", kv...)
}
