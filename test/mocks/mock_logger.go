package mocks

import (
	"sync"

	"github.com/commercekit/authnet-gateway/internal/domain/ports"
)

// LogEntry records one logged message
type LogEntry struct {
	Level   string
	Message string
	Fields  []ports.Field
}

// MockLogger records log calls for assertions
type MockLogger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

var _ ports.Logger = (*MockLogger)(nil)

// NewMockLogger creates a new mock logger
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) log(level, msg string, fields []ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

// Info implements ports.Logger
func (m *MockLogger) Info(msg string, fields ...ports.Field) { m.log("info", msg, fields) }

// Error implements ports.Logger
func (m *MockLogger) Error(msg string, fields ...ports.Field) { m.log("error", msg, fields) }

// Warn implements ports.Logger
func (m *MockLogger) Warn(msg string, fields ...ports.Field) { m.log("warn", msg, fields) }

// Debug implements ports.Logger
func (m *MockLogger) Debug(msg string, fields ...ports.Field) { m.log("debug", msg, fields) }

// HasMessage reports whether any entry carries the given message
func (m *MockLogger) HasMessage(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}
