package warmer

import (
	"sync"
	"time"
)

// Ticker is an interface for time.Ticker to allow mocking.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TimeProvider provides time-related functionality for dependency injection.
type TimeProvider interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// RealTimeProvider implements TimeProvider using real time functions.
type RealTimeProvider struct{}

// NewTicker creates a new ticker.
func (r *RealTimeProvider) NewTicker(d time.Duration) Ticker {
	return &RealTicker{ticker: time.NewTicker(d)}
}

// Now returns the current time.
func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// RealTicker wraps time.Ticker to implement the Ticker interface.
type RealTicker struct {
	ticker *time.Ticker
}

// C returns the ticker's channel.
func (r *RealTicker) C() <-chan time.Time {
	return r.ticker.C
}

// Stop stops the ticker.
func (r *RealTicker) Stop() {
	r.ticker.Stop()
}

// MockTimeProvider hands out one MockTicker and advances its clock by Step on
// every Now call, so elapsed times are deterministic in tests.
type MockTimeProvider struct {
	Ticker  *MockTicker
	Current time.Time
	Step    time.Duration

	mu sync.Mutex
}

// NewMockTimeProvider starts the clock at start.
func NewMockTimeProvider(start time.Time, step time.Duration) *MockTimeProvider {
	return &MockTimeProvider{
		Ticker:  &MockTicker{TickChan: make(chan time.Time)},
		Current: start,
		Step:    step,
	}
}

// NewTicker returns the provider's single MockTicker.
func (m *MockTimeProvider) NewTicker(time.Duration) Ticker {
	return m.Ticker
}

// Now returns the current mock time and advances it by Step.
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Current
	m.Current = m.Current.Add(m.Step)

	return now
}

// MockTicker is a mock implementation of Ticker for testing.
type MockTicker struct {
	TickChan chan time.Time

	stopOnce sync.Once
}

// C returns the ticker's channel.
func (m *MockTicker) C() <-chan time.Time {
	return m.TickChan
}

// Stop stops the ticker.
func (m *MockTicker) Stop() {
	m.stopOnce.Do(func() {
		if m.TickChan != nil {
			close(m.TickChan)
		}
	})
}
