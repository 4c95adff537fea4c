// pattern: Imperative Shell

package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 7
)

// Config holds configuration for the log Manager.
type Config struct {
	FilePath   string // Path to log file
	MaxSizeMB  int    // Max size in MB before rotation
	MaxBackups int    // Max number of old log files to keep
	MaxAgeDays int    // Max days to keep old log files
	Level      string // Minimum log level (debug, info, warn, error)
}

func (c Config) withDefaults() Config {
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = defaultMaxSizeMB
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = defaultMaxBackups
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = defaultMaxAgeDays
	}
	return c
}

// ParseLevel maps a configured level name to a zap level. Unknown names mean info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// LoggerProvider hands out scoped loggers.
// Both Manager and TestLogManager implement this interface.
type LoggerProvider interface {
	For(scope string) *ScopedLogger
}

// ScopedLogger writes structured entries under one scope name.
// A nil or zero ScopedLogger discards everything.
type ScopedLogger struct {
	slog  *slog.Logger
	scope string
}

// Debug logs at DEBUG level.
func (l *ScopedLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }

// Info logs at INFO level.
func (l *ScopedLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args) }

// Warn logs at WARN level.
func (l *ScopedLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args) }

// Error logs at ERROR level.
func (l *ScopedLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *ScopedLogger) log(level slog.Level, msg string, args []any) {
	if l == nil || l.slog == nil {
		return
	}
	l.slog.Log(context.Background(), level, msg, args...)
}

// With returns a logger that adds the key-value pairs to every entry.
func (l *ScopedLogger) With(args ...any) *ScopedLogger {
	if l == nil || l.slog == nil {
		return l
	}
	return &ScopedLogger{slog: l.slog.With(args...), scope: l.scope}
}

// Scope returns the logger's scope name.
func (l *ScopedLogger) Scope() string {
	if l == nil {
		return ""
	}
	return l.scope
}

// scopes caches one ScopedLogger per scope name over a shared zap logger.
type scopes struct {
	mu      sync.Mutex
	base    *zap.Logger
	level   zapcore.Level
	loggers map[string]*ScopedLogger
}

func newScopes(base *zap.Logger, level zapcore.Level) *scopes {
	return &scopes{base: base, level: level, loggers: make(map[string]*ScopedLogger)}
}

func (s *scopes) get(scope string) *ScopedLogger {
	s.mu.Lock()
	defer s.mu.Unlock()

	if logger, ok := s.loggers[scope]; ok {
		return logger
	}
	logger := &ScopedLogger{
		slog:  slog.New(&zapHandler{zap: s.base.Named(scope), level: s.level}),
		scope: scope,
	}
	s.loggers[scope] = logger
	return logger
}

// Manager hands out scoped loggers that write JSON lines to a rotated file.
type Manager struct {
	path   string
	writer *lumberjack.Logger
	base   *zap.Logger
	level  zapcore.Level
	scopes *scopes
}

// NewManager opens the log file, creating its directory if needed.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("FilePath is required")
	}
	cfg = cfg.withDefaults()

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	level := ParseLevel(cfg.Level)
	base := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(writer),
		level,
	))

	return &Manager{
		path:   cfg.FilePath,
		writer: writer,
		base:   base,
		level:  level,
		scopes: newScopes(base, level),
	}, nil
}

func encoderConfig() zapcore.EncoderConfig {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return encoderCfg
}

// For returns the cached logger for scope.
func (m *Manager) For(scope string) *ScopedLogger {
	return m.scopes.get(scope)
}

// Path returns the log file location.
func (m *Manager) Path() string {
	return m.path
}

// Sync flushes buffered entries.
func (m *Manager) Sync() error {
	return m.base.Sync()
}

// Close syncs and closes the log file.
func (m *Manager) Close() error {
	_ = m.Sync()
	return m.writer.Close()
}

// zapHandler is a slog.Handler writing typed zap fields. Groups become dotted
// key prefixes.
type zapHandler struct {
	zap    *zap.Logger
	level  zapcore.Level
	fields []zap.Field
	prefix string
}

func (h *zapHandler) Enabled(_ context.Context, level slog.Level) bool {
	return zapLevel(level) >= h.level
}

func (h *zapHandler) Handle(_ context.Context, r slog.Record) error {
	ce := h.zap.Check(zapLevel(r.Level), r.Message)
	if ce == nil {
		return nil
	}
	fields := slices.Clip(h.fields)
	r.Attrs(func(attr slog.Attr) bool {
		fields = appendAttr(fields, h.prefix, attr)
		return true
	})
	ce.Write(fields...)
	return nil
}

func (h *zapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := slices.Clip(h.fields)
	for _, attr := range attrs {
		fields = appendAttr(fields, h.prefix, attr)
	}
	return &zapHandler{zap: h.zap, level: h.level, fields: fields, prefix: h.prefix}
}

func (h *zapHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &zapHandler{zap: h.zap, level: h.level, fields: h.fields, prefix: h.prefix + name + "."}
}

func appendAttr(fields []zap.Field, prefix string, attr slog.Attr) []zap.Field {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return fields
	}
	key := prefix + attr.Key

	switch attr.Value.Kind() {
	case slog.KindGroup:
		groupPrefix := prefix
		if attr.Key != "" {
			groupPrefix = key + "."
		}
		for _, member := range attr.Value.Group() {
			fields = appendAttr(fields, groupPrefix, member)
		}
		return fields
	case slog.KindString:
		return append(fields, zap.String(key, attr.Value.String()))
	case slog.KindInt64:
		return append(fields, zap.Int64(key, attr.Value.Int64()))
	case slog.KindUint64:
		return append(fields, zap.Uint64(key, attr.Value.Uint64()))
	case slog.KindFloat64:
		return append(fields, zap.Float64(key, attr.Value.Float64()))
	case slog.KindBool:
		return append(fields, zap.Bool(key, attr.Value.Bool()))
	case slog.KindDuration:
		return append(fields, zap.Duration(key, attr.Value.Duration()))
	case slog.KindTime:
		return append(fields, zap.Time(key, attr.Value.Time()))
	}
	if err, ok := attr.Value.Any().(error); ok {
		return append(fields, zap.NamedError(key, err))
	}
	return append(fields, zap.Any(key, attr.Value.Any()))
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
