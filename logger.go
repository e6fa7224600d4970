package paginator

import (
	"context"
	"log/slog"
	"os"

	"github.com/jamal-wia/Paginator-sub000/page"
)

// Logger wraps slog.Logger with paginator-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPage adds a page field to the logger.
func (l *Logger) WithPage(page int) *Logger {
	return &Logger{
		Logger: l.Logger.With("page", page),
	}
}

// WithWindow adds the context window bounds to the logger.
func (l *Logger) WithWindow(w page.Window) *Logger {
	return &Logger{
		Logger: l.Logger.With("window", w.String()),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogJump logs a jump operation. A nil err with kind page.KindError means
// the jump itself went through but the page load came back failed.
func (l *Logger) LogJump(ctx context.Context, target int, kind page.Kind, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "jump rejected",
			"page", target,
			"error", err,
		)
	case kind == page.KindError:
		l.WarnContext(ctx, "jump completed with failed load",
			"page", target,
		)
	default:
		l.DebugContext(ctx, "jump completed",
			"page", target,
			"kind", kind.String(),
		)
	}
}

// LogNextPage logs a forward navigation step.
func (l *Logger) LogNextPage(ctx context.Context, target int, kind page.Kind, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "next page rejected",
			"page", target,
			"error", err,
		)
	case kind == page.KindError:
		l.WarnContext(ctx, "next page completed with failed load",
			"page", target,
		)
	default:
		l.DebugContext(ctx, "next page completed",
			"page", target,
			"kind", kind.String(),
		)
	}
}

// LogPrevPage logs a backward navigation step.
func (l *Logger) LogPrevPage(ctx context.Context, target int, kind page.Kind, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "previous page rejected",
			"page", target,
			"error", err,
		)
	case kind == page.KindError:
		l.WarnContext(ctx, "previous page completed with failed load",
			"page", target,
		)
	default:
		l.DebugContext(ctx, "previous page completed",
			"page", target,
			"kind", kind.String(),
		)
	}
}

// LogRestart logs a restart operation.
func (l *Logger) LogRestart(ctx context.Context, kind page.Kind, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "restart rejected",
			"error", err,
		)
	case kind == page.KindError:
		l.WarnContext(ctx, "restart completed with failed load",
			"page", 1,
		)
	default:
		l.InfoContext(ctx, "restart completed",
			"kind", kind.String(),
		)
	}
}

// LogRefresh logs a refresh over a batch of pages. failed counts pages whose
// reload came back as a failed state.
func (l *Logger) LogRefresh(ctx context.Context, pages, failed int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "refresh rejected",
			"pages", pages,
			"error", err,
		)
	case failed > 0:
		l.WarnContext(ctx, "refresh completed with failures",
			"total", pages,
			"failed", failed,
			"success", pages-failed,
		)
	default:
		l.InfoContext(ctx, "refresh completed",
			"pages", pages,
		)
	}
}

// LogElementOp logs an element-level cache mutation. Element operations are
// synchronous, so there is no context to thread through.
func (l *Logger) LogElementOp(op string, target int, err error) {
	if err != nil {
		l.Error("element operation failed",
			"op", op,
			"page", target,
			"error", err,
		)
	} else {
		l.Debug("element operation completed",
			"op", op,
			"page", target,
		)
	}
}

// LogRestore logs a cache rebuild from a saved state.
func (l *Logger) LogRestore(pages int, w page.Window) {
	l.Info("restore completed",
		"pages", pages,
		"window", w.String(),
	)
}
