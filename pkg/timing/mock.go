package timing

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is a mock timing feed client for testing
type MockClient struct {
	mu              sync.Mutex
	classifications map[string][]Entry
	riders          []Rider
	classErr        error
	ridersErr       error
	token           string
	calls           []string
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithClassification sets the entries returned for a session
func WithClassification(s Session, entries []Entry) MockOption {
	return func(m *MockClient) {
		m.classifications[sessionKey(s)] = entries
	}
}

// WithClassificationError sets an error to return from FetchClassification
func WithClassificationError(err error) MockOption {
	return func(m *MockClient) {
		m.classErr = err
	}
}

// WithRiders sets the entry list to return
func WithRiders(riders []Rider) MockOption {
	return func(m *MockClient) {
		m.riders = riders
	}
}

// WithRidersError sets an error to return from FetchRiders
func WithRidersError(err error) MockOption {
	return func(m *MockClient) {
		m.ridersErr = err
	}
}

// NewMockClient creates a new mock client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{classifications: make(map[string][]Entry)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func sessionKey(s Session) string {
	return fmt.Sprintf("%d/%d/%s", s.Season, s.Round, s.Type)
}

// FetchClassification returns the configured entries for the session
func (m *MockClient) FetchClassification(ctx context.Context, baseURL string, s Session) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "classification "+baseURL+" "+sessionKey(s))
	if m.classErr != nil {
		return nil, m.classErr
	}
	return Classified(m.classifications[sessionKey(s)]), nil
}

// FetchRiders returns the configured entry list
func (m *MockClient) FetchRiders(ctx context.Context, baseURL string, season int) ([]Rider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf("riders %s %d", baseURL, season))
	if m.ridersErr != nil {
		return nil, m.ridersErr
	}
	return m.riders, nil
}

// SetToken records the token
func (m *MockClient) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// Calls returns a description of every fetch made, in order
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

var _ Client = (*MockClient)(nil)
