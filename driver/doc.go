// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package driver owns the pmem resource lifecycle.
//
// The [Manager] brings up an ordered chain of host resources (the
// allocation tag and lock groups, the major-number registration, the
// two device nodes, the two collaborator subsystems, and finally the
// dynamic logging-level variable) and owns the single rollback
// routine used both for partial-failure unwind and for normal
// shutdown.
//
// Every acquisition step is gated on the previous one; a failure at
// step k rolls back steps k-1..1 and reports the failing step's error,
// never the rollback's. The rollback routine dispatches on explicit
// acquired/released flags per resource (not handle nullness), clears
// each flag as the resource is released, and is therefore safe to call
// again from any partial state: the second invocation is a complete
// no-op. Device nodes are always removed before the major number is
// deregistered, because the nodes reference it.
//
// [Manager.Load] and [Manager.Unload] are the two entry points the
// hosting process invokes; the host guarantees they are serialized
// with each other and with all dispatch traffic.
package driver
