// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package lockgroup provides named synchronization-primitive groups.
//
// A [Group] is not a lock: it is an accounting container from which
// collaborator subsystems allocate their mutexes and read/write locks,
// so that lock ownership can be attributed per subsystem and audited
// at teardown. The driver allocates one mutex group and one rwlock
// group at startup ([NewPair]) and hands them to the metadata and
// page-table collaborators for their internal concurrency control.
//
// Creation takes an [Attr] that is consumed by the call and has no
// lifetime beyond it. [ReleasePair] tolerates nil groups, which makes
// it safe to invoke from a rollback routine with any subset of the
// pair actually created.
package lockgroup
