package logging

import "sync"

// LogEntry records a single logged message for assertions in tests.
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
}

// MockLogger is a Logger implementation that records entries instead of
// writing them anywhere. Safe for concurrent use. Loggers derived with
// WithField/WithFields/WithError share the parent's entry list.
type MockLogger struct {
	root  *recorder
	bound []Field
}

type recorder struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMockLogger returns an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{root: &recorder{}}
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	all := append(append([]Field{}, m.bound...), fields...)
	m.root.mu.Lock()
	defer m.root.mu.Unlock()
	m.root.entries = append(m.root.entries, LogEntry{Level: level, Message: msg, Fields: all})
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("error", msg, fields) }

// Fatal records the entry but does not exit, so tests can assert on it.
func (m *MockLogger) Fatal(msg string, fields ...Field) { m.record("fatal", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	return m.WithField("error", err)
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m.WithFields(Field{Key: key, Value: value})
}

func (m *MockLogger) WithFields(fields ...Field) Logger {
	return &MockLogger{
		root:  m.root,
		bound: append(append([]Field{}, m.bound...), fields...),
	}
}

// Entries returns a copy of all recorded entries.
func (m *MockLogger) Entries() []LogEntry {
	m.root.mu.Lock()
	defer m.root.mu.Unlock()
	out := make([]LogEntry, len(m.root.entries))
	copy(out, m.root.entries)
	return out
}

// HasEntry reports whether an entry with the given level and message exists.
func (m *MockLogger) HasEntry(level, message string) bool {
	for _, e := range m.Entries() {
		if e.Level == level && e.Message == message {
			return true
		}
	}
	return false
}
