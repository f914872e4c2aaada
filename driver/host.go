// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"io/fs"

	"github.com/bureau-foundation/pmem/device"
	"github.com/bureau-foundation/pmem/lib/lockgroup"
)

// Tag is a named allocation-accounting handle. Collaborators account
// their long-lived buffer bytes against it so the host can report
// leaks when the tag is freed.
type Tag interface {
	Name() string
	Account(delta int64)
}

// Node is an opaque handle to a created device node. The manager only
// stores and returns it; the host interprets it.
type Node interface {
	Name() string
}

// Host is the kernel-facing surface the manager acquires resources
// from. The devfs package provides the real implementation; tests
// substitute a recording fake.
type Host interface {
	// AllocTag creates a named allocation tag.
	AllocTag(name string) (Tag, error)

	// FreeTag releases a tag.
	FreeTag(tag Tag)

	// AddCharDev registers a dispatch table under a major number.
	// The preferred number is honored when available; any
	// non-negative assignment is a success.
	AddCharDev(preferred int, d *device.Dispatch) (int, error)

	// RemoveCharDev deregisters a major number and echoes the number
	// it actually removed (or -1). The manager treats an echo that
	// differs from what it registered as a cleanup failure.
	RemoveCharDev(major int, d *device.Dispatch) int

	// MakeNode creates a device node for the identity.
	MakeNode(ident device.Ident, name string, mode fs.FileMode) (Node, error)

	// RemoveNode removes a previously created node.
	RemoveNode(node Node)
}

// Shared carries the resources the manager acquires on behalf of all
// collaborators: the lock groups they allocate their internal locks
// from, and the allocation tag they account long-lived buffers
// against.
type Shared struct {
	Mutexes *lockgroup.Group
	RWLocks *lockgroup.Group
	Tag     Tag
}

// Collaborator is a delegated subsystem whose lifecycle the manager
// drives. Cleanup must be an idempotent no-op when the subsystem was
// never initialized: the rollback routine calls it unconditionally.
type Collaborator interface {
	Init(shared Shared) error
	Cleanup()
}

// MetaDevice is the metadata collaborator: lifecycle-managed like any
// collaborator, and additionally the session behind the info device.
type MetaDevice interface {
	Collaborator
	device.Session
}
