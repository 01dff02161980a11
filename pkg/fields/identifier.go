package fields

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// IDSource mints the fresh identifiers substituted for placeholder indices.
// Every call must return a value not returned before by the same source.
type IDSource interface {
	Next() string
}

// IDSourceFunc adapts a function to IDSource.
type IDSourceFunc func() string

// Next calls f.
func (f IDSourceFunc) Next() string { return f() }

// ClockSource returns the current time in milliseconds, bumped by one when the
// clock has not advanced since the previous call.
type ClockSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewClockSource builds a ClockSource. A nil now uses time.Now.
func NewClockSource(now func() time.Time) *ClockSource {
	if now == nil {
		now = time.Now
	}
	return &ClockSource{now: now}
}

// Next returns the next identifier.
func (s *ClockSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return strconv.FormatInt(ms, 10)
}

// CounterSource counts up from a start value; the first identifier is start+1.
type CounterSource struct {
	current atomic.Int64
}

// NewCounterSource builds a CounterSource.
func NewCounterSource(start int64) *CounterSource {
	s := &CounterSource{}
	s.current.Store(start)
	return s
}

// Next returns the next identifier.
func (s *CounterSource) Next() string {
	return strconv.FormatInt(s.current.Add(1), 10)
}
