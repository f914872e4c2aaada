// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package physmem

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/pmem/device"
	"github.com/bureau-foundation/pmem/driver"
)

// ErrNotInitialized is returned for reads before Init or after
// Cleanup.
var ErrNotInitialized = errors.New("physmem: mapper not initialized")

// Config holds configuration for creating a Mapper.
type Config struct {
	// Path is the physical-memory window. Default /dev/mem.
	Path string

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Mapper owns the physical-memory window. It is the page-table-mapping
// collaborator: Init acquires the window, Cleanup releases it, and
// reads go through it while it is open.
type Mapper struct {
	path   string
	logger *slog.Logger

	// mu is allocated from the driver's mutex group at Init. It
	// guards file across concurrent reads and the host-serialized
	// Cleanup.
	mu   *sync.Mutex
	file *os.File
}

// NewMapper creates an uninitialized Mapper.
func NewMapper(cfg Config) *Mapper {
	path := cfg.Path
	if path == "" {
		path = "/dev/mem"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{path: path, logger: logger}
}

// Init opens the memory window and allocates the mapper's lock from
// the shared mutex group.
func (m *Mapper) Init(shared driver.Shared) error {
	if m.file != nil {
		return nil
	}
	lock, err := shared.Mutexes.NewMutex()
	if err != nil {
		return fmt.Errorf("allocating mapper lock: %w", err)
	}
	file, err := os.OpenFile(m.path, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("opening memory window %s: %w", m.path, err)
	}
	m.mu = lock
	m.file = file
	m.logger.Debug("memory window opened", "path", m.path)
	return nil
}

// Cleanup closes the window. Safe to call any number of times,
// including when Init never ran.
func (m *Mapper) Cleanup() {
	if m.file == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.file.Close(); err != nil {
		m.logger.Error("closing memory window", "path", m.path, "error", err)
	}
	m.file = nil
}

// read performs one bounded positional read from the window.
func (m *Mapper) read(req *device.Request) (int, error) {
	if m.file == nil {
		return 0, ErrNotInitialized
	}
	if req.Offset < 0 {
		return 0, fmt.Errorf("physmem: negative offset %d", req.Offset)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil {
		return 0, ErrNotInitialized
	}

	n, err := unix.Pread(int(m.file.Fd()), req.Data, req.Offset)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading %s at %#x: %w", m.path, req.Offset, err)
	}
	return n, nil
}

// Reader is the raw-memory read contract behind the memory device.
type Reader struct {
	Mapper *Mapper
}

// Read transfers physical memory into the request buffer and reports
// bytes transferred. Past the end of the window it reports zero.
func (r *Reader) Read(req *device.Request) (int, error) {
	return r.Mapper.read(req)
}
