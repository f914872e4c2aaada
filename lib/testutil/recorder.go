// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync"
)

// Recorder is an append-only, concurrency-safe event log. The zero
// value is ready to use.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// Record appends a formatted event.
func (r *Recorder) Record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

// Events returns a copy of the log in record order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Index returns the position of the first matching event, or -1.
func (r *Recorder) Index(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.events {
		if e == event {
			return i
		}
	}
	return -1
}

// Count returns how many recorded events match.
func (r *Recorder) Count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

// Reset clears the log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Before fails the test unless both events are present and the first
// precedes the second.
func (r *Recorder) Before(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, first, second string) {
	t.Helper()
	firstIndex := r.Index(first)
	secondIndex := r.Index(second)
	if firstIndex < 0 {
		t.Fatalf("event %q never recorded (log: %v)", first, r.Events())
	}
	if secondIndex < 0 {
		t.Fatalf("event %q never recorded (log: %v)", second, r.Events())
	}
	if firstIndex >= secondIndex {
		t.Fatalf("event %q (index %d) did not precede %q (index %d); log: %v",
			first, firstIndex, second, secondIndex, r.Events())
	}
}
