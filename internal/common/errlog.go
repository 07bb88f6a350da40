package common

import (
	"sync"
	"time"
)

// DefaultErrorLogCapacity bounds the in-memory error log.
const DefaultErrorLogCapacity = 100

// ErrorEntry is a single recorded failure.
type ErrorEntry struct {
	Time    time.Time
	Context string
	Err     error
}

// ErrorLog is a bounded in-memory log of recent failures. When full, the
// oldest entry is evicted. Safe for concurrent use.
type ErrorLog struct {
	mu       sync.Mutex
	entries  []ErrorEntry
	capacity int
}

// NewErrorLog creates an error log holding at most capacity entries.
func NewErrorLog(capacity int) *ErrorLog {
	if capacity <= 0 {
		capacity = DefaultErrorLogCapacity
	}
	return &ErrorLog{capacity: capacity}
}

// Record appends a failure, evicting the oldest entry at capacity.
func (l *ErrorLog) Record(context string, err error) {
	if err == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, ErrorEntry{
		Time:    time.Now(),
		Context: context,
		Err:     err,
	})
	if len(l.entries) > l.capacity {
		l.entries = l.entries[1:]
	}
}

// Recent returns up to n entries, newest first.
func (l *ErrorLog) Recent(n int) []ErrorEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}

	out := make([]ErrorEntry, 0, n)
	for i := len(l.entries) - 1; i >= len(l.entries)-n; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Len returns the number of recorded entries.
func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
