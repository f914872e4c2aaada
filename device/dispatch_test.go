// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

type fakeReader struct {
	reads int
}

func (r *fakeReader) Read(req *Request) (int, error) {
	r.reads++
	return copy(req.Data, "raw"), nil
}

type fakeSession struct {
	opens, closes, reads int
}

func (s *fakeSession) Open() error  { s.opens++; return nil }
func (s *fakeSession) Close() error { s.closes++; return nil }
func (s *fakeSession) Read(req *Request) (int, error) {
	s.reads++
	return copy(req.Data, "meta"), nil
}

func newDispatch(logOutput io.Writer) (*Dispatch, *fakeReader, *fakeSession) {
	reader := &fakeReader{}
	session := &fakeSession{}
	return &Dispatch{
		Memory: reader,
		Info:   session,
		Logger: slog.New(slog.NewTextHandler(logOutput, nil)),
	}, reader, session
}

func TestMemoryRouting(t *testing.T) {
	dispatch, reader, session := newDispatch(io.Discard)
	ident := Ident{Major: 33, Minor: MinorMemory}

	if err := dispatch.Open(ident); err != nil {
		t.Fatalf("Open: %v", err)
	}
	req := &Request{Data: make([]byte, 8)}
	n, err := dispatch.Read(ident, req)
	if err != nil || n != 3 {
		t.Fatalf("Read = %d, %v; want 3, nil", n, err)
	}
	if err := dispatch.Close(ident); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Memory routes only to the raw reader: the session must never
	// have been touched, including by the no-op open/close.
	if reader.reads != 1 {
		t.Errorf("reader.reads = %d, want 1", reader.reads)
	}
	if session.opens+session.closes+session.reads != 0 {
		t.Errorf("metadata session touched by memory identity: %+v", session)
	}
}

func TestInfoRouting(t *testing.T) {
	dispatch, reader, session := newDispatch(io.Discard)
	ident := Ident{Major: 33, Minor: MinorInfo}

	if err := dispatch.Open(ident); err != nil {
		t.Fatalf("Open: %v", err)
	}
	n, err := dispatch.Read(ident, &Request{Data: make([]byte, 8)})
	if err != nil || n != 4 {
		t.Fatalf("Read = %d, %v; want 4, nil", n, err)
	}
	if err := dispatch.Close(ident); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if session.opens != 1 || session.reads != 1 || session.closes != 1 {
		t.Errorf("session = %+v, want one open/read/close", session)
	}
	if reader.reads != 0 {
		t.Errorf("raw reader touched by info identity: %d reads", reader.reads)
	}
}

func TestUnknownMinor(t *testing.T) {
	var logBuf bytes.Buffer
	dispatch, reader, session := newDispatch(&logBuf)
	ident := Ident{Major: 33, Minor: 9}

	if err := dispatch.Open(ident); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("Open = %v, want ErrUnknownDevice", err)
	}
	if err := dispatch.Close(ident); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("Close = %v, want ErrUnknownDevice", err)
	}
	if _, err := dispatch.Read(ident, &Request{Data: make([]byte, 1)}); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("Read = %v, want ErrUnknownDevice", err)
	}

	if reader.reads != 0 || session.opens+session.closes+session.reads != 0 {
		t.Error("unknown identity reached a collaborator")
	}
	if !strings.Contains(logBuf.String(), "unknown minor") {
		t.Errorf("expected warning log, got %q", logBuf.String())
	}
	if !strings.Contains(logBuf.String(), "WARN") {
		t.Errorf("unknown device not logged at warning level: %q", logBuf.String())
	}
}

func TestMinorString(t *testing.T) {
	if MinorMemory.String() != "pmem" || MinorInfo.String() != "pmem_info" {
		t.Error("known minor names wrong")
	}
	if Minor(7).String() != "minor(7)" {
		t.Errorf("unknown minor string = %q", Minor(7).String())
	}
}
