// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lockgroup

import (
	"errors"
	"testing"
)

func TestNewConsumesAttr(t *testing.T) {
	attr := &Attr{Stats: true}
	group, err := New("test", attr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer group.release()

	if _, err := New("test2", attr); err == nil {
		t.Fatal("expected reuse of a consumed attr to fail")
	}
}

func TestNewNilAttr(t *testing.T) {
	if _, err := New("test", nil); err == nil {
		t.Fatal("expected nil attr to fail")
	}
}

func TestPairLifecycle(t *testing.T) {
	mutexes, rwlocks, err := NewPair("pmem")
	if err != nil {
		t.Fatalf("NewPair: %v", err)
	}
	if mutexes.Name() != "pmem_mutex" {
		t.Errorf("mutex group name = %q, want pmem_mutex", mutexes.Name())
	}
	if rwlocks.Name() != "pmem_rwlock" {
		t.Errorf("rwlock group name = %q, want pmem_rwlock", rwlocks.Name())
	}

	if _, err := mutexes.NewMutex(); err != nil {
		t.Fatalf("NewMutex: %v", err)
	}
	if _, err := rwlocks.NewRWMutex(); err != nil {
		t.Fatalf("NewRWMutex: %v", err)
	}
	if got := mutexes.Stats().Mutexes; got != 1 {
		t.Errorf("mutex count = %d, want 1", got)
	}
	if got := rwlocks.Stats().RWLocks; got != 1 {
		t.Errorf("rwlock count = %d, want 1", got)
	}

	ReleasePair(mutexes, rwlocks)

	if !mutexes.Stats().Released || !rwlocks.Stats().Released {
		t.Error("groups not marked released")
	}
	if _, err := mutexes.NewMutex(); !errors.Is(err, ErrReleased) {
		t.Errorf("NewMutex after release = %v, want ErrReleased", err)
	}
}

func TestReleasePairTolerates(t *testing.T) {
	// Any subset of the pair may be absent: rollback calls this with
	// whatever was actually created.
	ReleasePair(nil, nil)

	mutexes, rwlocks, err := NewPair("partial")
	if err != nil {
		t.Fatalf("NewPair: %v", err)
	}
	ReleasePair(mutexes, nil)
	ReleasePair(nil, rwlocks)

	// Double release must be a no-op, not a fault or a registry
	// underflow.
	ReleasePair(mutexes, rwlocks)
	ReleasePair(mutexes, rwlocks)
}

func TestExhaustion(t *testing.T) {
	var groups []*Group
	defer func() {
		for _, g := range groups {
			g.release()
		}
	}()

	for {
		g, err := New("fill", &Attr{})
		if err != nil {
			if !errors.Is(err, ErrExhausted) {
				t.Fatalf("unexpected creation error: %v", err)
			}
			break
		}
		groups = append(groups, g)
		if len(groups) > maxGroups {
			t.Fatal("registry budget never enforced")
		}
	}
}
