// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// APIVersion identifies the snapshot structure for consumers of the
// sysctl query and the info document.
const APIVersion = 2

// Range describes one physical memory range.
type Range struct {
	// Purpose is the host's name for the range ("System RAM",
	// "Reserved", a device name, ...).
	Purpose string `yaml:"purpose" cbor:"purpose"`

	// Start is the physical address of the first byte.
	Start uint64 `yaml:"start" cbor:"start"`

	// Length of the range in bytes.
	Length uint64 `yaml:"length" cbor:"length"`

	// Type classifies the range: "ram" for conventional memory,
	// "reserved" for everything else.
	Type string `yaml:"type" cbor:"type"`
}

// Snapshot is the machine-memory metadata served by the info device.
type Snapshot struct {
	APIVersion    int     `yaml:"pmem_api_version" cbor:"pmem_api_version"`
	KernelVersion string  `yaml:"kernel_version" cbor:"kernel_version"`
	PhysMemSize   uint64  `yaml:"phys_mem_size" cbor:"phys_mem_size"`
	PageSize      int     `yaml:"page_size" cbor:"page_size"`
	Ranges        []Range `yaml:"-" cbor:"memory_ranges"`
}

// document is the YAML shape of the info device: a meta header
// followed by the range list.
type document struct {
	Meta         *Snapshot `yaml:"meta"`
	MemoryRanges []Range   `yaml:"memory_ranges"`
}

// Render produces the info-device document for a snapshot.
func Render(s *Snapshot) ([]byte, error) {
	body, err := yaml.Marshal(document{Meta: s, MemoryRanges: s.Ranges})
	if err != nil {
		return nil, fmt.Errorf("rendering metadata document: %w", err)
	}
	return append([]byte("%YAML 1.2\n---\n"), body...), nil
}
