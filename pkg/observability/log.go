package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, errors at warn.
// It implements PipelineHooks, CacheHooks and ServerHooks.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.Logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.Logger.Debug(msg, kv...)
}

func (h *LogHooks) OnIngestStart(_ context.Context, source string) {
	h.Logger.Debug("ingest", "source", source)
}

func (h *LogHooks) OnIngestComplete(_ context.Context, source string, intervals int, d time.Duration, err error) {
	h.done("ingested", err, "source", source, "intervals", intervals, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, borehole string, pages int) {
	h.Logger.Debug("layout", "borehole", borehole, "pages", pages)
}

func (h *LogHooks) OnPageComplete(_ context.Context, borehole string, page int, d time.Duration, err error) {
	h.done("page", err, "borehole", borehole, "page", page, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("rendered", err, "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
