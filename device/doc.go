// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package device defines the pmem character-device identities and the
// dispatch table that demultiplexes open/close/read across them.
//
// Exactly two minors exist: [MinorMemory] routes to the raw
// physical-memory reader, [MinorInfo] to the metadata session. The
// dispatch table holds no mutable state (it is pure routing), so it
// is safe for concurrent use without locking. Any other minor value is
// an [ErrUnknownDevice] rejection: logged at warning level and
// returned to the caller, with neither collaborator touched.
//
// No other operation (write, ioctl, mmap, seek) exists on either
// device; those entry points are disabled host-side and never reach
// this package.
package device
