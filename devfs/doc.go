// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package devfs implements the driver's host surface on a real
// device filesystem.
//
// Major numbers come from an in-process table (the userspace stand-in
// for the kernel's character-device switch): a preferred number is
// honored when free, otherwise the next free one is assigned.
// Deregistration echoes the number actually removed, which is the
// input to the driver's consistency check.
//
// Device nodes are character specials created with mknod(2) under a
// configurable directory (default /dev), owned root:privileged-group,
// with the mode supplied by the driver. Creating nodes requires
// CAP_MKNOD, so everything here other than the major table expects to
// run privileged.
//
// Allocation tags are named byte counters; freeing a tag with
// outstanding bytes logs a leak warning rather than failing, since
// tag teardown runs inside the rollback routine.
package devfs
