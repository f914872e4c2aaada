// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package meta is the metadata collaborator: it collects the machine's
// physical-memory layout and serves it through the pmem_info device
// and the sysctl struct query.
//
// The device read returns a YAML document (a "%YAML 1.2" stream, as
// the original driver emitted); the sysctl query returns the same
// snapshot as deterministic CBOR. The document is cached between reads
// and rebuilt whenever a read starts at offset zero, so a consumer
// rereading the device from the top always sees fresh data while a
// consumer paging through a large document sees a consistent one. The
// cache is dropped when the last reader closes.
//
// Layout probing lives behind [Prober]; [SystemProber] reads
// /proc/iomem and the uname/sysinfo syscalls on Linux. Probing
// degrades rather than fails: missing or unreadable sources produce
// zero values, matching how unprivileged reads of /proc/iomem hide
// physical addresses.
package meta
