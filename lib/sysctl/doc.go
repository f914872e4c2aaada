// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sysctl provides a dynamic configuration-variable registry.
//
// It is the userspace analog of the kernel's sysctl tree: components
// register named variables at startup and unregister them at shutdown.
// Two variable shapes exist: writable integers ([Variable], used for
// the pmem logging verbosity) and read-only opaque snapshots
// ([OpaqueVariable], used for the binary metadata struct query).
//
// The registry has no "is registered" introspection beyond [Registry.
// Lookup]; callers that must unregister conditionally track their own
// registration flag.
package sysctl
