// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/bureau-foundation/pmem/device"
	"github.com/bureau-foundation/pmem/lib/lockgroup"
	"github.com/bureau-foundation/pmem/lib/logging"
	"github.com/bureau-foundation/pmem/lib/sysctl"
)

const tagName = "pmem_tag"

// Config assembles a Manager. Host, Registry, Meta, PageTable and
// Memory are required.
type Config struct {
	// Host is the kernel-facing resource surface.
	Host Host

	// Registry is the dynamic configuration registry the logging
	// variable is registered in.
	Registry *sysctl.Registry

	// Meta is the metadata collaborator, also the session behind the
	// info device.
	Meta MetaDevice

	// PageTable is the page-table-mapping collaborator.
	PageTable Collaborator

	// Memory serves raw-memory reads on the memory device.
	Memory device.Reader

	// LogLevel is the runtime-mutable verbosity exposed through the
	// configuration registry. Defaults to a fresh LevelVar.
	LogLevel *slog.LevelVar

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// PreferredMajor is the major number requested from the host; any
	// non-negative assignment is accepted. Zero or negative lets the
	// host choose.
	PreferredMajor int

	// NodeMode is the permission mode for both device nodes. The
	// daemon derives it from the build environment: world-read/write
	// in debug, owner/group-only in release. Defaults to 0660.
	NodeMode fs.FileMode

	// MemoryName and InfoName are the node names. Default "pmem" and
	// "pmem_info".
	MemoryName string
	InfoName   string

	// LoggingVariable is the registry path of the verbosity variable.
	// Default "kern.pmem_logging".
	LoggingVariable string
}

// Manager owns the pmem resource handle set for the process lifetime.
// Start, Stop, Load and Unload are host-serialized: the host never
// invokes them concurrently with each other or with dispatch traffic.
type Manager struct {
	host      Host
	registry  *sysctl.Registry
	meta      MetaDevice
	pageTable Collaborator
	dispatch  *device.Dispatch
	logger    *slog.Logger
	levelVar  *slog.LevelVar

	preferredMajor int
	nodeMode       fs.FileMode
	memoryName     string
	infoName       string
	logVarName     string

	handles handles
}

// NewManager validates the config and builds an unloaded manager.
func NewManager(cfg Config) (*Manager, error) {
	switch {
	case cfg.Host == nil:
		return nil, errors.New("driver: Host is required")
	case cfg.Registry == nil:
		return nil, errors.New("driver: Registry is required")
	case cfg.Meta == nil:
		return nil, errors.New("driver: Meta is required")
	case cfg.PageTable == nil:
		return nil, errors.New("driver: PageTable is required")
	case cfg.Memory == nil:
		return nil, errors.New("driver: Memory is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	levelVar := cfg.LogLevel
	if levelVar == nil {
		levelVar = new(slog.LevelVar)
	}

	m := &Manager{
		host:           cfg.Host,
		registry:       cfg.Registry,
		meta:           cfg.Meta,
		pageTable:      cfg.PageTable,
		logger:         logger,
		levelVar:       levelVar,
		preferredMajor: cfg.PreferredMajor,
		nodeMode:       cfg.NodeMode,
		memoryName:     cfg.MemoryName,
		infoName:       cfg.InfoName,
		logVarName:     cfg.LoggingVariable,
	}
	if m.nodeMode == 0 {
		m.nodeMode = 0o660
	}
	if m.memoryName == "" {
		m.memoryName = "pmem"
	}
	if m.infoName == "" {
		m.infoName = "pmem_info"
	}
	if m.logVarName == "" {
		m.logVarName = "kern.pmem_logging"
	}
	m.dispatch = &device.Dispatch{
		Memory: cfg.Memory,
		Info:   cfg.Meta,
		Logger: logger,
	}
	return m, nil
}

// Dispatch returns the device switch table. Valid at any time; the
// host routes no traffic through it before Load succeeds.
func (m *Manager) Dispatch() *device.Dispatch {
	return m.dispatch
}

// Major returns the registered major number, or -1 when not loaded.
func (m *Manager) Major() int {
	if !m.handles.major.acquired {
		return -1
	}
	return m.handles.major.handle
}

// Load is the hosting process's load hook: it runs the acquisition
// sequence and reports the failure after rollback if any step fails.
func (m *Manager) Load() error {
	m.logger.Info("loading pmem driver")
	if err := m.Start(); err != nil {
		m.logger.Error("pmem driver start failed, rolled back", "error", err)
		return err
	}
	m.logger.Info("pmem driver loaded", "major", m.Major())
	return nil
}

// Unload is the hosting process's unload hook. It always runs the full
// rollback.
func (m *Manager) Unload() error {
	m.logger.Info("unloading pmem driver")
	return m.Stop()
}

// Start acquires the resource chain in order. On failure at any step
// it rolls the already-acquired prefix back in strict reverse
// dependency order and returns the failing step's error.
func (m *Manager) Start() error {
	// Allocation tag and lock groups. Everything downstream accounts
	// against the tag and allocates locks from the groups.
	tag, err := m.host.AllocTag(tagName)
	if err != nil {
		return m.release(fmt.Errorf("allocating tag %q: %w: %w", tagName, ErrResourceExhausted, err))
	}
	m.handles.tag.set(tag)

	mutexes, rwlocks, err := lockgroup.NewPair("pmem")
	if err != nil {
		return m.release(fmt.Errorf("creating lock groups: %w: %w", ErrResourceExhausted, err))
	}
	m.handles.groups.set(groupPair{mutexes: mutexes, rwlocks: rwlocks})

	// Major number. The preferred number is a request, not a demand;
	// any non-negative assignment is a success.
	major, err := m.host.AddCharDev(m.preferredMajor, m.dispatch)
	if err != nil {
		return m.release(fmt.Errorf("registering major number: %w: %w", ErrRegistrationFailed, err))
	}
	if major < 0 {
		return m.release(fmt.Errorf("registering major number: host assigned %d: %w", major, ErrRegistrationFailed))
	}
	m.handles.major.set(major)
	m.logger.Debug("major number registered", "major", major)

	// Device nodes: info first, then memory, matching the original
	// bring-up order. Both reference the major number.
	infoNode, err := m.host.MakeNode(device.Ident{Major: major, Minor: device.MinorInfo}, m.infoName, m.nodeMode)
	if err != nil {
		return m.release(fmt.Errorf("creating /dev/%s: %w: %w", m.infoName, ErrNodeCreationFailed, err))
	}
	m.handles.infoNode.set(infoNode)
	m.logger.Info("device node created", "name", m.infoName, "minor", device.MinorInfo)

	memoryNode, err := m.host.MakeNode(device.Ident{Major: major, Minor: device.MinorMemory}, m.memoryName, m.nodeMode)
	if err != nil {
		return m.release(fmt.Errorf("creating /dev/%s: %w: %w", m.memoryName, ErrNodeCreationFailed, err))
	}
	m.handles.memoryNode.set(memoryNode)
	m.logger.Info("device node created", "name", m.memoryName, "minor", device.MinorMemory)

	// Collaborator subsystems. All of them allocate locks from the
	// shared groups and account buffers against the shared tag.
	shared := Shared{Mutexes: mutexes, RWLocks: rwlocks, Tag: tag}
	if err := m.meta.Init(shared); err != nil {
		return m.release(fmt.Errorf("initializing metadata subsystem: %w: %w", ErrCollaboratorInitFailed, err))
	}
	if err := m.pageTable.Init(shared); err != nil {
		return m.release(fmt.Errorf("initializing page-table subsystem: %w: %w", ErrCollaboratorInitFailed, err))
	}

	// Dynamic logging-level variable. Last step: nothing after it can
	// fail and strand it, but it still must be unregistered on
	// shutdown. The registry has no registration query, so the
	// handle set carries the flag.
	if err := m.registry.Register(logging.Variable(m.logVarName, m.levelVar)); err != nil {
		return m.release(fmt.Errorf("registering %s: %w", m.logVarName, err))
	}
	m.handles.logVar.set(m.logVarName)

	return nil
}

// Stop runs the full rollback and returns its status.
func (m *Manager) Stop() error {
	return m.release(nil)
}

// release frees every currently-acquired resource, in teardown order.
// It is the single rollback routine: called mid-failure with the
// failing step's error to propagate, and standalone (nil) for normal
// shutdown. Cleanup is exhaustive, not short-circuiting: a failure in
// one step is logged and the remaining steps still run. Each handle's
// flag is cleared as it is released, so calling release again from any
// state is a no-op.
func (m *Manager) release(prior error) error {
	status := prior

	// Nodes before major deregistration: the nodes reference the
	// major number.
	if node, ok := m.handles.memoryNode.take(); ok {
		m.host.RemoveNode(node)
	}
	if node, ok := m.handles.infoNode.take(); ok {
		m.host.RemoveNode(node)
	}

	if major, ok := m.handles.major.take(); ok {
		if echoed := m.host.RemoveCharDev(major, m.dispatch); echoed != major {
			m.logger.Error("major number deregistration echoed a different number",
				"registered", major, "echoed", echoed)
			if status == nil {
				status = fmt.Errorf("registered %d, removed %d: %w", major, echoed, ErrRegistrationInconsistent)
			}
		}
	}

	if tag, ok := m.handles.tag.take(); ok {
		m.host.FreeTag(tag)
	}

	// Collaborator cleanup is unconditional; both contracts require
	// Cleanup to be an idempotent no-op when never initialized.
	m.meta.Cleanup()
	m.pageTable.Cleanup()

	if name, ok := m.handles.logVar.take(); ok {
		m.registry.Unregister(name)
	}

	if groups, ok := m.handles.groups.take(); ok {
		lockgroup.ReleasePair(groups.mutexes, groups.rwlocks)
	}

	return status
}
