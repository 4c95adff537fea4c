// pattern: Imperative Shell

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{}
}

// TestLogManager records entries in memory at debug level so tests can assert on them.
type TestLogManager struct {
	logs   *observer.ObservedLogs
	scopes *scopes
}

// NewTestLogManager creates an in-memory LoggerProvider.
func NewTestLogManager() *TestLogManager {
	core, logs := observer.New(zapcore.DebugLevel)
	return &TestLogManager{
		logs:   logs,
		scopes: newScopes(zap.New(core), zapcore.DebugLevel),
	}
}

// For returns the cached logger for scope.
func (m *TestLogManager) For(scope string) *ScopedLogger {
	return m.scopes.get(scope)
}

// Logs returns the recorded entries.
func (m *TestLogManager) Logs() *observer.ObservedLogs {
	return m.logs
}

// Messages returns the message of every recorded entry, oldest first.
func (m *TestLogManager) Messages() []string {
	all := m.logs.All()
	msgs := make([]string, 0, len(all))
	for _, e := range all {
		msgs = append(msgs, e.Message)
	}
	return msgs
}
