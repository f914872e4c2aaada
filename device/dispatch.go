// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownDevice is returned for any minor other than the two pmem
// devices. It is a normal, expected dispatch outcome: logged and
// returned to the immediate caller, never escalated.
var ErrUnknownDevice = errors.New("unknown minor device number")

// Request is a read request against a device: fill Data from the
// device starting at Offset. Read reports bytes transferred.
type Request struct {
	Offset int64
	Data   []byte
}

// Reader is the raw-memory read contract. It carries no open/close
// state: the memory device needs no per-open setup.
type Reader interface {
	Read(req *Request) (int, error)
}

// Session is the metadata device contract: reads are stateful (the
// rendered document is cached per open window), so the collaborator
// sees opens and closes.
type Session interface {
	Open() error
	Close() error
	Read(req *Request) (int, error)
}

// Dispatch routes device operations by minor number. It is the switch
// table for both pmem devices: one Dispatch instance is registered
// under a single major number and serves both minors.
type Dispatch struct {
	// Memory serves MinorMemory reads.
	Memory Reader

	// Info serves MinorInfo opens, closes and reads.
	Info Session

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Open prepares a device for reading. The memory device needs no
// setup; the info device delegates to the metadata session.
func (d *Dispatch) Open(ident Ident) error {
	switch ident.Minor {
	case MinorMemory:
		return nil
	case MinorInfo:
		return d.Info.Open()
	}
	return d.unknown(ident)
}

// Close is symmetric to Open.
func (d *Dispatch) Close(ident Ident) error {
	switch ident.Minor {
	case MinorMemory:
		return nil
	case MinorInfo:
		return d.Info.Close()
	}
	return d.unknown(ident)
}

// Read transfers device bytes into req.Data and reports how many were
// transferred.
func (d *Dispatch) Read(ident Ident, req *Request) (int, error) {
	switch ident.Minor {
	case MinorMemory:
		return d.Memory.Read(req)
	case MinorInfo:
		// Reading the info device is conceptually the same as the
		// sysctl struct query, rendered as a document.
		return d.Info.Read(req)
	}
	return 0, d.unknown(ident)
}

func (d *Dispatch) unknown(ident Ident) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("unknown minor device number", "device", ident)
	return fmt.Errorf("%s: %w", ident, ErrUnknownDevice)
}
