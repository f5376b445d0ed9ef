package graphgo

import (
	"log/slog"
	"os"

	"github.com/hupe1980/graphgo/model"
)

// Logger wraps slog.Logger with graph-specific helpers.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithNode adds a node field to the logger.
func (l *Logger) WithNode(id model.NodeID) *Logger {
	return &Logger{
		Logger: l.Logger.With("node", id),
	}
}

// WithEdge adds an edge field to the logger.
func (l *Logger) WithEdge(id model.EdgeID) *Logger {
	return &Logger{
		Logger: l.Logger.With("edge", id),
	}
}

// LogCreateNode logs a node creation.
func (l *Logger) LogCreateNode(id model.NodeID, err error) {
	if err != nil {
		l.Error("create node failed", "error", err)
	} else {
		l.Debug("node created", "node", id)
	}
}

// LogRemoveNode logs a node removal.
func (l *Logger) LogRemoveNode(id model.NodeID, err error) {
	if err != nil {
		l.Error("remove node failed",
			"node", id,
			"error", err,
		)
	} else {
		l.Debug("node removed",
			"node", id,
		)
	}
}

// LogLink logs an edge creation.
func (l *Logger) LogLink(start, end model.NodeID, rel model.Relationship, edge model.EdgeID, err error) {
	if err != nil {
		l.Error("link failed",
			"start", start,
			"end", end,
			"relationship", rel.Name,
			"error", err,
		)
	} else {
		l.Debug("linked",
			"edge", edge,
			"start", start,
			"end", end,
			"relationship", rel.Name,
		)
	}
}

// LogUnlink logs an edge removal.
func (l *Logger) LogUnlink(start, end model.NodeID, rel model.Relationship, removed bool, err error) {
	if err != nil {
		l.Error("unlink failed",
			"start", start,
			"end", end,
			"relationship", rel.Name,
			"error", err,
		)
	} else {
		l.Debug("unlinked",
			"start", start,
			"end", end,
			"relationship", rel.Name,
			"removed", removed,
		)
	}
}
