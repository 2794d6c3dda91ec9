package mocks

import (
	"sync"

	"github.com/you/allospace/domain"
	"github.com/you/allospace/internal/infrastructure/auth"
)

// MockCasbinEnforcer is an in-process policy table matched by exact
// (subject, route, method). Set EnforceFunc to script failures.
type MockCasbinEnforcer struct {
	EnforceFunc func(rvals ...interface{}) (bool, error)

	mu    sync.Mutex
	rules map[[3]string]struct{}
}

var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer starts with the production default policies
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	m := &MockCasbinEnforcer{rules: make(map[[3]string]struct{})}
	for _, p := range auth.DefaultPolicies {
		m.rules[[3]string{p[0], p[1], p[2]}] = struct{}{}
	}
	return m
}

func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	key, ok := ruleKey(params)
	if !ok {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rules[key]; exists {
		return false, nil
	}
	m.rules[key] = struct{}{}
	return true, nil
}

func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	key, ok := ruleKey(rvals)
	if !ok {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, allowed := m.rules[key]
	return allowed, nil
}

func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, 0, len(m.rules))
	for k := range m.rules {
		out = append(out, []string{k[0], k[1], k[2]})
	}
	return out, nil
}

// Revoke drops every rule for subject
func (m *MockCasbinEnforcer) Revoke(subject string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.rules {
		if k[0] == subject {
			delete(m.rules, k)
		}
	}
}

func ruleKey(vals []interface{}) ([3]string, bool) {
	var key [3]string
	if len(vals) != 3 {
		return key, false
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			return key, false
		}
		key[i] = s
	}
	return key, true
}
