// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package devfs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/pmem/device"
	"github.com/bureau-foundation/pmem/driver"
)

// maxMajor bounds the major-number table, mirroring the kernel's
// limited major space. Registration past the bound fails rather than
// growing silently.
const maxMajor = 512

// Config holds configuration for creating a Host.
type Config struct {
	// Dir is the directory device nodes are created in. Default /dev.
	Dir string

	// UID and GID own created nodes: root and the privileged group.
	// Both default to 0.
	UID int
	GID int

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Host implements driver.Host over mknod(2) and an in-process major
// table.
type Host struct {
	dir    string
	uid    int
	gid    int
	logger *slog.Logger

	mu     sync.Mutex
	majors map[int]*device.Dispatch
}

// New creates a Host.
func New(cfg Config) *Host {
	dir := cfg.Dir
	if dir == "" {
		dir = "/dev"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		dir:    dir,
		uid:    cfg.UID,
		gid:    cfg.GID,
		logger: logger,
		majors: make(map[int]*device.Dispatch),
	}
}

// allocTag is a named byte-accounting handle.
type allocTag struct {
	name        string
	outstanding atomic.Int64
}

func (t *allocTag) Name() string { return t.name }

func (t *allocTag) Account(delta int64) {
	t.outstanding.Add(delta)
}

// AllocTag creates a named allocation tag.
func (h *Host) AllocTag(name string) (driver.Tag, error) {
	if name == "" {
		return nil, errors.New("devfs: tag name required")
	}
	return &allocTag{name: name}, nil
}

// FreeTag releases a tag. Outstanding accounted bytes indicate a leak
// in whoever accounted them; the free itself always succeeds because
// it runs inside rollback.
func (h *Host) FreeTag(tag driver.Tag) {
	if t, ok := tag.(*allocTag); ok {
		if outstanding := t.outstanding.Load(); outstanding != 0 {
			h.logger.Warn("allocation tag freed with outstanding bytes",
				"tag", t.name, "bytes", outstanding)
		}
	}
}

// AddCharDev registers a dispatch table under a major number. The
// preferred number is used when it is positive and free; otherwise
// the lowest free number is assigned.
func (h *Host) AddCharDev(preferred int, d *device.Dispatch) (int, error) {
	if d == nil {
		return -1, errors.New("devfs: nil dispatch")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if preferred > 0 && preferred < maxMajor {
		if _, taken := h.majors[preferred]; !taken {
			h.majors[preferred] = d
			return preferred, nil
		}
	}
	for major := 1; major < maxMajor; major++ {
		if _, taken := h.majors[major]; !taken {
			h.majors[major] = d
			return major, nil
		}
	}
	return -1, errors.New("devfs: major number table full")
}

// RemoveCharDev deregisters a major number and echoes the number it
// removed, or -1 when the entry is absent or registered to a
// different dispatch table.
func (h *Host) RemoveCharDev(major int, d *device.Dispatch) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	registered, ok := h.majors[major]
	if !ok || registered != d {
		return -1
	}
	delete(h.majors, major)
	return major
}

// node is a created device special file.
type node struct {
	name string
	path string
}

func (n *node) Name() string { return n.name }

// MakeNode creates a character device node for the identity.
func (h *Host) MakeNode(ident device.Ident, name string, mode fs.FileMode) (driver.Node, error) {
	path := filepath.Join(h.dir, name)
	dev := unix.Mkdev(uint32(ident.Major), uint32(ident.Minor))

	if err := unix.Mknod(path, unix.S_IFCHR|uint32(mode.Perm()), int(dev)); err != nil {
		return nil, fmt.Errorf("mknod %s: %w", path, err)
	}
	if err := unix.Chown(path, h.uid, h.gid); err != nil {
		unix.Unlink(path)
		return nil, fmt.Errorf("chown %s: %w", path, err)
	}
	// mknod honors the umask; reassert the exact mode.
	if err := unix.Chmod(path, uint32(mode.Perm())); err != nil {
		unix.Unlink(path)
		return nil, fmt.Errorf("chmod %s: %w", path, err)
	}
	return &node{name: name, path: path}, nil
}

// RemoveNode unlinks a node. Removal failure is logged, not returned:
// node removal runs inside the rollback routine, which never
// short-circuits.
func (h *Host) RemoveNode(n driver.Node) {
	created, ok := n.(*node)
	if !ok {
		h.logger.Warn("remove of a node this host did not create", "node", n.Name())
		return
	}
	if err := unix.Unlink(created.path); err != nil {
		h.logger.Error("removing device node", "path", created.path, "error", err)
	}
}
