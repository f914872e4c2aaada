// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Prober collects the current machine-memory snapshot.
type Prober interface {
	Probe() (*Snapshot, error)
}

// SystemProber reads the live machine: /proc/iomem for the range list,
// uname for the kernel version, sysinfo for total physical memory.
type SystemProber struct {
	// IOMemPath overrides /proc/iomem, for tests.
	IOMemPath string
}

// Probe builds a snapshot. Sources that cannot be read contribute
// zero values; only an unreadable range table is an error.
func (p *SystemProber) Probe() (*Snapshot, error) {
	snapshot := &Snapshot{
		APIVersion: APIVersion,
		PageSize:   os.Getpagesize(),
	}

	var uname unix.Utsname
	if err := unix.Uname(&uname); err == nil {
		snapshot.KernelVersion = unix.ByteSliceToString(uname.Sysname[:]) +
			" " + unix.ByteSliceToString(uname.Release[:])
	}

	var sysinfo unix.Sysinfo_t
	if err := unix.Sysinfo(&sysinfo); err == nil {
		snapshot.PhysMemSize = uint64(sysinfo.Totalram) * uint64(sysinfo.Unit)
	}

	path := p.IOMemPath
	if path == "" {
		path = "/proc/iomem"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ranges, err := parseIOMem(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	snapshot.Ranges = ranges
	return snapshot, nil
}

// parseIOMem reads the top-level entries of an iomem table. Lines look
// like
//
//	00001000-0009ffff : System RAM
//	  00090000-0009ffff : Reserved
//
// Indented lines are sub-ranges of the entry above and are skipped:
// the info document describes the coarse physical layout, not every
// device window. Unprivileged readers see all-zero addresses; the
// entries are still reported so the purpose list stays meaningful.
func parseIOMem(r io.Reader) ([]Range, error) {
	var ranges []Range
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, " ") {
			continue
		}

		addrs, purpose, ok := strings.Cut(line, " : ")
		if !ok {
			continue
		}
		startText, endText, ok := strings.Cut(strings.TrimSpace(addrs), "-")
		if !ok {
			continue
		}
		start, err := strconv.ParseUint(startText, 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(endText, 16, 64)
		if err != nil || end < start {
			continue
		}

		rangeType := "reserved"
		if strings.HasPrefix(purpose, "System RAM") {
			rangeType = "ram"
		}
		ranges = append(ranges, Range{
			Purpose: purpose,
			Start:   start,
			Length:  end - start + 1,
			Type:    rangeType,
		})
	}
	return ranges, scanner.Err()
}
