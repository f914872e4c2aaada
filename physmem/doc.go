// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package physmem serves raw physical-memory reads for the pmem
// device.
//
// [Mapper] is the page-table-mapping collaborator: it owns the
// physical-memory window (/dev/mem by default) across the driver's
// lifetime, opened at Init and closed by an idempotent Cleanup.
// [Reader] is the stateless read contract behind the memory device; it
// performs bounded positional reads through the mapper's window. A
// read past the end of the window reports zero bytes, not an error,
// so consumers see ordinary end-of-file.
package physmem
