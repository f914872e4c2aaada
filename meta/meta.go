// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bureau-foundation/pmem/device"
	"github.com/bureau-foundation/pmem/driver"
	"github.com/bureau-foundation/pmem/lib/codec"
	"github.com/bureau-foundation/pmem/lib/sysctl"
)

// ErrNotInitialized is returned for device traffic before Init or
// after Cleanup. The driver never routes traffic outside that window;
// hitting this means the host broke its serialization guarantee.
var ErrNotInitialized = errors.New("meta: subsystem not initialized")

// Accounter receives byte accounting for the document cache. The
// driver's allocation tag satisfies it; Init picks it up from the
// shared resources.
type Accounter interface {
	Account(delta int64)
}

// Config holds configuration for creating a Service.
type Config struct {
	// Prober collects snapshots. Defaults to a SystemProber.
	Prober Prober

	// Registry, when set, receives the read-only snapshot query
	// variable at Init.
	Registry *sysctl.Registry

	// VariableName is the registry path of the snapshot query.
	// Default "kern.pmem_meta".
	VariableName string

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Service implements the metadata collaborator and the session behind
// the info device.
type Service struct {
	prober   Prober
	registry *sysctl.Registry
	tag      Accounter
	varName  string
	logger   *slog.Logger

	initialized bool

	// mu is allocated from the driver's rwlock group at Init. It
	// guards opens and cache.
	mu    *sync.RWMutex
	opens int
	cache []byte
}

// NewService creates an uninitialized Service.
func NewService(cfg Config) *Service {
	prober := cfg.Prober
	if prober == nil {
		prober = &SystemProber{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	varName := cfg.VariableName
	if varName == "" {
		varName = "kern.pmem_meta"
	}
	return &Service{
		prober:   prober,
		registry: cfg.Registry,
		varName:  varName,
		logger:   logger,
	}
}

// Init allocates the cache lock from the shared rwlock group, adopts
// the shared accounting tag, verifies the prober works, and registers
// the snapshot query.
func (s *Service) Init(shared driver.Shared) error {
	if s.initialized {
		return nil
	}

	lock, err := shared.RWLocks.NewRWMutex()
	if err != nil {
		return fmt.Errorf("allocating cache lock: %w", err)
	}

	if _, err := s.prober.Probe(); err != nil {
		return fmt.Errorf("probing memory layout: %w", err)
	}

	if s.registry != nil {
		if err := s.registry.RegisterOpaque(sysctl.OpaqueVariable{
			Name:     s.varName,
			Snapshot: s.querySnapshot,
		}); err != nil {
			return fmt.Errorf("registering %s: %w", s.varName, err)
		}
	}

	if shared.Tag != nil {
		s.tag = shared.Tag
	}
	s.mu = lock
	s.initialized = true
	s.logger.Debug("metadata subsystem initialized")
	return nil
}

// Cleanup releases everything Init acquired. Safe to call any number
// of times, including when Init never ran.
func (s *Service) Cleanup() {
	if !s.initialized {
		return
	}
	if s.registry != nil {
		s.registry.Unregister(s.varName)
	}
	s.mu.Lock()
	s.dropCacheLocked()
	s.opens = 0
	s.mu.Unlock()
	s.initialized = false
}

// Open admits a reader and builds the document cache for the first
// one.
func (s *Service) Open() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		if err := s.buildCacheLocked(); err != nil {
			return err
		}
	}
	s.opens++
	return nil
}

// Close releases a reader; the cache is dropped with the last one.
func (s *Service) Close() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opens == 0 {
		s.logger.Warn("info device close without a matching open")
		return nil
	}
	s.opens--
	if s.opens == 0 {
		s.dropCacheLocked()
	}
	return nil
}

// Read copies document bytes starting at the request offset. A read
// from offset zero rebuilds the document first, so restarting readers
// always get fresh data. Reading past the end returns zero bytes.
func (s *Service) Read(req *device.Request) (int, error) {
	if !s.initialized {
		return 0, ErrNotInitialized
	}
	if req.Offset < 0 {
		return 0, fmt.Errorf("meta: negative offset %d", req.Offset)
	}

	if req.Offset == 0 {
		s.mu.Lock()
		if s.opens == 0 {
			s.mu.Unlock()
			return 0, errors.New("meta: info device not open")
		}
		if err := s.buildCacheLocked(); err != nil {
			s.mu.Unlock()
			return 0, err
		}
		s.mu.Unlock()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache == nil {
		return 0, errors.New("meta: info device not open")
	}
	if req.Offset >= int64(len(s.cache)) {
		return 0, nil
	}
	return copy(req.Data, s.cache[req.Offset:]), nil
}

// querySnapshot serves the sysctl struct query: a fresh snapshot,
// CBOR-encoded.
func (s *Service) querySnapshot() ([]byte, error) {
	snapshot, err := s.prober.Probe()
	if err != nil {
		return nil, fmt.Errorf("probing memory layout: %w", err)
	}
	return codec.Marshal(snapshot)
}

// buildCacheLocked probes and renders the document, replacing any
// cached copy. Caller holds the write lock.
func (s *Service) buildCacheLocked() error {
	snapshot, err := s.prober.Probe()
	if err != nil {
		return fmt.Errorf("probing memory layout: %w", err)
	}
	rendered, err := Render(snapshot)
	if err != nil {
		return err
	}
	s.dropCacheLocked()
	s.cache = rendered
	if s.tag != nil {
		s.tag.Account(int64(len(rendered)))
	}
	return nil
}

// dropCacheLocked returns the cache bytes to the accounting tag.
// Caller holds the write lock.
func (s *Service) dropCacheLocked() {
	if s.cache == nil {
		return
	}
	if s.tag != nil {
		s.tag.Account(-int64(len(s.cache)))
	}
	s.cache = nil
}
