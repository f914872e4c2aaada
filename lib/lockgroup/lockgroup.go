// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lockgroup

import (
	"errors"
	"fmt"
	"sync"
)

// ErrExhausted is returned when the process-wide group budget is spent.
// The driver maps this to its resource-exhaustion startup failure.
var ErrExhausted = errors.New("lockgroup: group budget exhausted")

// ErrReleased is returned when allocating a lock from a group that has
// already been released.
var ErrReleased = errors.New("lockgroup: group already released")

// maxGroups bounds how many live groups a process may hold. The driver
// needs exactly two; the bound exists so a leak in a rollback path
// surfaces as an allocation failure instead of silent growth.
const maxGroups = 64

var registry struct {
	mu   sync.Mutex
	live int
}

// Attr carries creation-time options for a group. It is consumed by
// [New] and must not be reused.
type Attr struct {
	// Stats enables per-group allocation counters.
	Stats bool

	consumed bool
}

// Stats reports how many locks a group has issued and how many are
// still outstanding.
type Stats struct {
	Mutexes  int
	RWLocks  int
	Released bool
}

// Group is a named accounting container for synchronization primitives.
type Group struct {
	name string

	mu       sync.Mutex
	stats    bool
	mutexes  int
	rwlocks  int
	released bool
}

// New creates a named group. The attribute is consumed: a second call
// with the same Attr fails.
func New(name string, attr *Attr) (*Group, error) {
	if attr == nil {
		return nil, errors.New("lockgroup: nil attr")
	}
	if attr.consumed {
		return nil, errors.New("lockgroup: attr already consumed")
	}
	attr.consumed = true

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.live >= maxGroups {
		return nil, fmt.Errorf("creating group %q: %w", name, ErrExhausted)
	}
	registry.live++

	return &Group{name: name, stats: attr.Stats}, nil
}

// NewPair creates the mutex group and the rwlock group the driver hands
// to its collaborators. Group names derive from the given prefix. If
// the second creation fails, the first group is released before the
// error is returned.
func NewPair(prefix string) (mutexes, rwlocks *Group, err error) {
	mutexes, err = New(prefix+"_mutex", &Attr{Stats: true})
	if err != nil {
		return nil, nil, err
	}
	rwlocks, err = New(prefix+"_rwlock", &Attr{Stats: true})
	if err != nil {
		mutexes.release()
		return nil, nil, err
	}
	return mutexes, rwlocks, nil
}

// ReleasePair frees both groups of a pair. Either or both may be nil or
// already released; release of an absent group is a no-op, never a
// fault, because this is always invoked as part of rollback.
func ReleasePair(mutexes, rwlocks *Group) {
	if mutexes != nil {
		mutexes.release()
	}
	if rwlocks != nil {
		rwlocks.release()
	}
}

// Name returns the group's name.
func (g *Group) Name() string {
	return g.name
}

// NewMutex allocates a mutex attributed to this group.
func (g *Group) NewMutex() (*sync.Mutex, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return nil, fmt.Errorf("group %q: %w", g.name, ErrReleased)
	}
	if g.stats {
		g.mutexes++
	}
	return &sync.Mutex{}, nil
}

// NewRWMutex allocates a read/write lock attributed to this group.
func (g *Group) NewRWMutex() (*sync.RWMutex, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return nil, fmt.Errorf("group %q: %w", g.name, ErrReleased)
	}
	if g.stats {
		g.rwlocks++
	}
	return &sync.RWMutex{}, nil
}

// Stats returns the group's allocation counters.
func (g *Group) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Stats{Mutexes: g.mutexes, RWLocks: g.rwlocks, Released: g.released}
}

// release marks the group freed and returns its registry slot.
// Releasing twice is a no-op.
func (g *Group) release() {
	g.mu.Lock()
	already := g.released
	g.released = true
	g.mu.Unlock()
	if already {
		return
	}
	registry.mu.Lock()
	registry.live--
	registry.mu.Unlock()
}
