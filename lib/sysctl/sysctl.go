// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sysctl

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when a named variable is not registered.
var ErrNotFound = errors.New("sysctl: variable not found")

// ErrReadOnly is returned when writing a variable that has no setter.
var ErrReadOnly = errors.New("sysctl: variable is read-only")

// Variable is a writable integer configuration entry.
type Variable struct {
	// Name is the dotted registry path, e.g. "kern.pmem_logging".
	Name string

	// Get returns the current value. Required.
	Get func() int64

	// Set updates the value. Nil means the variable is read-only.
	Set func(int64) error
}

// OpaqueVariable is a read-only entry whose value is a binary snapshot
// produced on every query.
type OpaqueVariable struct {
	// Name is the dotted registry path, e.g. "kern.pmem_meta".
	Name string

	// Snapshot produces the current encoded value.
	Snapshot func() ([]byte, error)
}

// Registry holds named variables. The zero value is not usable; create
// with [NewRegistry]. Safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	ints    map[string]Variable
	opaques map[string]OpaqueVariable
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ints:    make(map[string]Variable),
		opaques: make(map[string]OpaqueVariable),
	}
}

// Register adds a writable-integer variable. Registering a name twice
// is an error.
func (r *Registry) Register(v Variable) error {
	if v.Name == "" || v.Get == nil {
		return errors.New("sysctl: variable needs a name and a getter")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ints[v.Name]; ok {
		return fmt.Errorf("sysctl: %q already registered", v.Name)
	}
	if _, ok := r.opaques[v.Name]; ok {
		return fmt.Errorf("sysctl: %q already registered", v.Name)
	}
	r.ints[v.Name] = v
	return nil
}

// RegisterOpaque adds a read-only snapshot variable.
func (r *Registry) RegisterOpaque(v OpaqueVariable) error {
	if v.Name == "" || v.Snapshot == nil {
		return errors.New("sysctl: opaque variable needs a name and a snapshot func")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ints[v.Name]; ok {
		return fmt.Errorf("sysctl: %q already registered", v.Name)
	}
	if _, ok := r.opaques[v.Name]; ok {
		return fmt.Errorf("sysctl: %q already registered", v.Name)
	}
	r.opaques[v.Name] = v
	return nil
}

// Unregister removes a variable of either shape. Removing an absent
// name is a no-op; the return value reports whether anything was
// removed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ints[name]; ok {
		delete(r.ints, name)
		return true
	}
	if _, ok := r.opaques[name]; ok {
		delete(r.opaques, name)
		return true
	}
	return false
}

// Lookup reports whether a variable of either shape is registered.
func (r *Registry) Lookup(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, intOK := r.ints[name]
	_, opaqueOK := r.opaques[name]
	return intOK || opaqueOK
}

// GetInt reads an integer variable.
func (r *Registry) GetInt(name string) (int64, error) {
	r.mu.Lock()
	v, ok := r.ints[name]
	r.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return v.Get(), nil
}

// SetInt writes an integer variable.
func (r *Registry) SetInt(name string, value int64) error {
	r.mu.Lock()
	v, ok := r.ints[name]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if v.Set == nil {
		return fmt.Errorf("%q: %w", name, ErrReadOnly)
	}
	return v.Set(value)
}

// Query produces the current snapshot of an opaque variable.
func (r *Registry) Query(name string) ([]byte, error) {
	r.mu.Lock()
	v, ok := r.opaques[name]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return v.Snapshot()
}
