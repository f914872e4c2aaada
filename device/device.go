// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package device

import "fmt"

// Minor selects one of the two pmem devices. The values match the
// original device numbering and are part of the external interface.
type Minor uint32

const (
	// MinorMemory is the raw physical-memory device (/dev/pmem).
	MinorMemory Minor = 1

	// MinorInfo is the memory-layout metadata device (/dev/pmem_info).
	MinorInfo Minor = 2
)

// String names known minors and exposes the raw value for anything
// else, which is what ends up in the unknown-device warning log.
func (m Minor) String() string {
	switch m {
	case MinorMemory:
		return "pmem"
	case MinorInfo:
		return "pmem_info"
	}
	return fmt.Sprintf("minor(%d)", uint32(m))
}

// Ident is a device identity: the (major, minor) pair the host uses to
// route character-device operations. The major number is assigned once
// at startup and immutable for the process lifetime.
type Ident struct {
	Major int
	Minor Minor
}

func (id Ident) String() string {
	return fmt.Sprintf("%d/%s", id.Major, id.Minor)
}
