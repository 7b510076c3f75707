package mocks

import (
	"strings"
	"sync"
)

// MockRenderService is a mock implementation of services.RenderService
type MockRenderService struct {
	mu       sync.Mutex
	Rendered []string
	// FailOn makes Render fail for any body containing the substring.
	FailOn string
	Err    error
}

// NewMockRenderService creates a new mock render service
func NewMockRenderService() *MockRenderService {
	return &MockRenderService{}
}

// Render wraps body in a paragraph, or fails when it contains FailOn.
func (m *MockRenderService) Render(body string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rendered = append(m.Rendered, body)
	if m.FailOn != "" && strings.Contains(body, m.FailOn) {
		return "", false, m.Err
	}
	return "<p>" + strings.TrimSpace(body) + "</p>", false, nil
}

// Calls returns how many bodies were rendered
func (m *MockRenderService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Rendered)
}
