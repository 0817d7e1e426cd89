package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bilingual-reader/internal/domain"
)

// MockLogger records messages. It is safe for concurrent use.
type MockLogger struct {
	mu       sync.Mutex
	messages []string
	fields   map[string][]interface{}
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
		fields:   map[string][]interface{}{},
	}
}

func (m *MockLogger) add(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.add("INFO: " + msg)
	m.mu.Lock()
	m.fields[msg] = args
	m.mu.Unlock()
}

// infoField returns the value logged under key by the last Info call for msg.
func (m *MockLogger) infoField(msg, key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	args := m.fields[msg]
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1], true
		}
	}
	return nil, false
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	m.add("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.add("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.add("WARN: " + msg)
}

func (m *MockLogger) count(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if len(msg) >= len(prefix) && msg[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// MockSupabaseClient serves tokens and bucket objects from maps.
type MockSupabaseClient struct {
	users    map[string]*domain.SupabaseUser
	files    map[string][]byte
	failures int
	calls    int
}

func NewMockSupabaseClient() *MockSupabaseClient {
	return &MockSupabaseClient{
		users: map[string]*domain.SupabaseUser{
			"valid-token": {ID: "user-123", Email: "test@example.com"},
		},
		files: make(map[string][]byte),
	}
}

func (m *MockSupabaseClient) Initialize() error {
	return nil
}

func (m *MockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if user, ok := m.users[token]; ok {
		return user, nil
	}
	return nil, errors.New("token validation failed")
}

func (m *MockSupabaseClient) DownloadFile(bucket, path string) ([]byte, error) {
	m.calls++
	if m.calls <= m.failures {
		return nil, errors.New("connection reset by peer")
	}
	data, ok := m.files[bucket+"/"+path]
	if !ok {
		return nil, fmt.Errorf("%s: Object not found", path)
	}
	return data, nil
}

// MockExtractor returns canned text and images per file name.
type MockExtractor struct {
	mu     sync.Mutex
	texts  map[string]string
	images map[string][]domain.ImageBlock
	calls  int
	err    error
}

func NewMockExtractor() *MockExtractor {
	return &MockExtractor{
		texts:  make(map[string]string),
		images: make(map[string][]domain.ImageBlock),
	}
}

func (m *MockExtractor) ExtractText(ctx context.Context, name string, data []byte) (string, error) {
	text, _, err := m.ExtractWithImages(ctx, name, data)
	return text, err
}

func (m *MockExtractor) ExtractWithImages(_ context.Context, name string, _ []byte) (string, []domain.ImageBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", nil, m.err
	}
	if _, err := DocumentFormat(name); err != nil {
		return "", nil, err
	}
	return m.texts[name], m.images[name], nil
}

func (m *MockExtractor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
