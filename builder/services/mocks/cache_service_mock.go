// Package mocks provides mock implementations for testing
package mocks

import (
	"sync"
	"time"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// MockCacheService is a mock implementation of services.CacheService
type MockCacheService struct {
	mu        sync.Mutex
	HTML      map[string]string
	OGP       map[string]models.OGPData
	Builds    int
	Err       error
	CallCount map[string]int
	Closed    bool
}

// NewMockCacheService creates a new mock cache service
func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		HTML:      make(map[string]string),
		OGP:       make(map[string]models.OGPData),
		CallCount: make(map[string]int),
	}
}

func (m *MockCacheService) recordCall(method string) {
	if m.CallCount == nil {
		m.CallCount = make(map[string]int)
	}
	m.CallCount[method]++
}

// Calls returns how often method was invoked
func (m *MockCacheService) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount[method]
}

// GetHTML returns stored html
func (m *MockCacheService) GetHTML(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("GetHTML")
	if m.Err != nil {
		return "", false, m.Err
	}
	html, ok := m.HTML[key]
	return html, ok, nil
}

// PutHTML stores html
func (m *MockCacheService) PutHTML(key, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("PutHTML")
	if m.Err != nil {
		return m.Err
	}
	m.HTML[key] = html
	return nil
}

// GetOGP returns a stored record, ignoring expiry
func (m *MockCacheService) GetOGP(url string, now time.Time) (models.OGPData, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("GetOGP")
	if m.Err != nil {
		return models.OGPData{}, false, m.Err
	}
	d, ok := m.OGP[url]
	return d, ok, nil
}

// PutOGP stores non-empty records
func (m *MockCacheService) PutOGP(data models.OGPData, now time.Time, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("PutOGP")
	if m.Err != nil {
		return m.Err
	}
	if !data.IsEmpty() {
		m.OGP[data.URL] = data
	}
	return nil
}

// PruneOGP is a no-op
func (m *MockCacheService) PruneOGP(now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("PruneOGP")
	return 0, m.Err
}

// RecordBuild counts builds
func (m *MockCacheService) RecordBuild(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("RecordBuild")
	m.Builds++
	return m.Err
}

// Close marks the mock closed
func (m *MockCacheService) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
