package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// conditionalSourceHandler attaches the source attribute only for the
// configured levels. The wrapped handler must run with AddSource disabled or
// the attribute doubles up.
type conditionalSourceHandler struct {
	inner  slog.Handler
	levels map[slog.Level]bool
}

func NewConditionalSourceHandler(inner slog.Handler, sourceLevels ...slog.Level) slog.Handler {
	levels := make(map[slog.Level]bool, len(sourceLevels))
	for _, l := range sourceLevels {
		levels[l] = true
	}
	return &conditionalSourceHandler{inner: inner, levels: levels}
}

func (h *conditionalSourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.levels[r.Level] {
		// Two frames up: past this method and slog's dispatch.
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		frame, _ := runtime.CallersFrames(pcs[:]).Next()

		r.AddAttrs(slog.Attr{
			Key: slog.SourceKey,
			Value: slog.AnyValue(&slog.Source{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			}),
		})
	}
	return h.inner.Handle(ctx, r)
}

func (h *conditionalSourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &conditionalSourceHandler{inner: h.inner.WithAttrs(attrs), levels: h.levels}
}

func (h *conditionalSourceHandler) WithGroup(name string) slog.Handler {
	return &conditionalSourceHandler{inner: h.inner.WithGroup(name), levels: h.levels}
}

func (h *conditionalSourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}
