// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sysctl

import (
	"errors"
	"testing"
)

func TestIntVariable(t *testing.T) {
	registry := NewRegistry()

	var level int64 = 2
	err := registry.Register(Variable{
		Name: "kern.pmem_logging",
		Get:  func() int64 { return level },
		Set:  func(v int64) error { level = v; return nil },
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := registry.GetInt("kern.pmem_logging")
	if err != nil || got != 2 {
		t.Fatalf("GetInt = %d, %v; want 2, nil", got, err)
	}

	if err := registry.SetInt("kern.pmem_logging", 3); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if level != 3 {
		t.Errorf("level = %d after SetInt, want 3", level)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	registry := NewRegistry()
	v := Variable{Name: "kern.x", Get: func() int64 { return 0 }}
	if err := registry.Register(v); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register(v); err == nil {
		t.Error("expected duplicate int registration to fail")
	}
	if err := registry.RegisterOpaque(OpaqueVariable{
		Name:     "kern.x",
		Snapshot: func() ([]byte, error) { return nil, nil },
	}); err == nil {
		t.Error("expected cross-shape duplicate registration to fail")
	}
}

func TestUnknownName(t *testing.T) {
	registry := NewRegistry()

	if _, err := registry.GetInt("kern.missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetInt = %v, want ErrNotFound", err)
	}
	if err := registry.SetInt("kern.missing", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetInt = %v, want ErrNotFound", err)
	}
	if _, err := registry.Query("kern.missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Query = %v, want ErrNotFound", err)
	}
	if registry.Unregister("kern.missing") {
		t.Error("Unregister of an absent name reported removal")
	}
}

func TestReadOnlyInt(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Variable{
		Name: "kern.ro",
		Get:  func() int64 { return 7 },
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.SetInt("kern.ro", 1); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SetInt = %v, want ErrReadOnly", err)
	}
}

func TestOpaqueQuery(t *testing.T) {
	registry := NewRegistry()
	calls := 0
	if err := registry.RegisterOpaque(OpaqueVariable{
		Name: "kern.pmem_meta",
		Snapshot: func() ([]byte, error) {
			calls++
			return []byte{0xa1, 0x00}, nil
		},
	}); err != nil {
		t.Fatalf("RegisterOpaque: %v", err)
	}

	data, err := registry.Query("kern.pmem_meta")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(data) != 2 || calls != 1 {
		t.Errorf("Query returned %d bytes after %d snapshot calls", len(data), calls)
	}

	if !registry.Unregister("kern.pmem_meta") {
		t.Error("Unregister reported nothing removed")
	}
	if registry.Lookup("kern.pmem_meta") {
		t.Error("variable still visible after Unregister")
	}
}
