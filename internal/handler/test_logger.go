package handler

import (
	"sync"

	"bilingual-reader/internal/domain"
)

type loggedEntry struct {
	msg    string
	fields []interface{}
}

// Mock logger used by handler package tests.
type MockHandlerLogger struct {
	mu      sync.Mutex
	entries []loggedEntry
}

func NewMockHandlerLogger() *MockHandlerLogger {
	return &MockHandlerLogger{}
}

var _ domain.Logger = (*MockHandlerLogger)(nil)

func (l *MockHandlerLogger) record(msg string, fields []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, loggedEntry{msg: msg, fields: fields})
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})             { l.record(msg, fields) }
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) { l.record(msg, fields) }
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{})            { l.record(msg, fields) }
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})             { l.record(msg, fields) }

// Logged reports whether msg was logged at any level.
func (l *MockHandlerLogger) Logged(msg string) bool {
	_, ok := l.Field(msg, "")
	return ok
}

// Field returns the value logged under key with the first entry for msg.
// An empty key only checks that msg was logged.
func (l *MockHandlerLogger) Field(msg, key string) (interface{}, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.msg != msg {
			continue
		}
		if key == "" {
			return nil, true
		}
		for i := 0; i+1 < len(e.fields); i += 2 {
			if e.fields[i] == key {
				return e.fields[i+1], true
			}
		}
		return nil, false
	}
	return nil, false
}
