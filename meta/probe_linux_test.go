// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleIOMem = `00000000-00000fff : Reserved
00001000-0009ffff : System RAM
000a0000-000fffff : PCI Bus 0000:00
  000f0000-000fffff : System ROM
00100000-3fffffff : System RAM
  01000000-01ffffff : Kernel code
  02000000-027fffff : Kernel rodata
40000000-400fffff : PCI ECAM 0000 [bus 00-ff]
`

func TestParseIOMem(t *testing.T) {
	ranges, err := parseIOMem(strings.NewReader(sampleIOMem))
	if err != nil {
		t.Fatalf("parseIOMem: %v", err)
	}

	want := []Range{
		{Purpose: "Reserved", Start: 0, Length: 0x1000, Type: "reserved"},
		{Purpose: "System RAM", Start: 0x1000, Length: 0x9f000, Type: "ram"},
		{Purpose: "PCI Bus 0000:00", Start: 0xa0000, Length: 0x60000, Type: "reserved"},
		{Purpose: "System RAM", Start: 0x100000, Length: 0x3ff00000, Type: "ram"},
		{Purpose: "PCI ECAM 0000 [bus 00-ff]", Start: 0x40000000, Length: 0x100000, Type: "reserved"},
	}
	if len(ranges) != len(want) {
		t.Fatalf("parsed %d ranges, want %d: %+v", len(ranges), len(want), ranges)
	}
	for i, r := range ranges {
		if r != want[i] {
			t.Errorf("range %d = %+v, want %+v", i, r, want[i])
		}
	}
}

func TestParseIOMemSkipsMalformed(t *testing.T) {
	input := "garbage line\n00001000-00000fff : inverted\nzzzz-0000ffff : bad hex\n"
	ranges, err := parseIOMem(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseIOMem: %v", err)
	}
	if len(ranges) != 0 {
		t.Errorf("malformed lines produced ranges: %+v", ranges)
	}
}

func TestSystemProber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iomem")
	if err := os.WriteFile(path, []byte(sampleIOMem), 0o644); err != nil {
		t.Fatalf("writing sample table: %v", err)
	}

	prober := &SystemProber{IOMemPath: path}
	snapshot, err := prober.Probe()
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if snapshot.APIVersion != APIVersion {
		t.Errorf("APIVersion = %d", snapshot.APIVersion)
	}
	if snapshot.PageSize != os.Getpagesize() {
		t.Errorf("PageSize = %d", snapshot.PageSize)
	}
	if snapshot.KernelVersion == "" {
		t.Error("KernelVersion empty")
	}
	if snapshot.PhysMemSize == 0 {
		t.Error("PhysMemSize zero")
	}
	if len(snapshot.Ranges) != 5 {
		t.Errorf("parsed %d ranges, want 5", len(snapshot.Ranges))
	}
}

func TestSystemProberMissingTable(t *testing.T) {
	prober := &SystemProber{IOMemPath: filepath.Join(t.TempDir(), "absent")}
	if _, err := prober.Probe(); err == nil {
		t.Error("expected probe of a missing range table to fail")
	}
}
