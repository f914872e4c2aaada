// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/bureau-foundation/pmem/lib/sysctl"
)

func TestLevelRoundTrip(t *testing.T) {
	for _, level := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if got := FromSlog(level.Slog()); got != level {
			t.Errorf("FromSlog(%v.Slog()) = %v", level, got)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"error", LevelError, false},
		{"warn", LevelWarn, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"debug", LevelDebug, false},
		{"verbose", LevelInfo, true},
	}
	for _, test := range tests {
		got, err := Parse(test.input)
		if (err != nil) != test.wantErr || got != test.want {
			t.Errorf("Parse(%q) = %v, %v; want %v, err=%v",
				test.input, got, err, test.want, test.wantErr)
		}
	}
}

func TestDynamicLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, levelVar := New(Options{Level: LevelError, Output: &buf})

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info emitted at error level: %q", buf.String())
	}

	registry := sysctl.NewRegistry()
	if err := registry.Register(Variable("kern.pmem_logging", levelVar)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := registry.SetInt("kern.pmem_logging", int64(LevelDebug)); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if levelVar.Level() != slog.LevelDebug {
		t.Fatalf("level after sysctl write = %v, want debug", levelVar.Level())
	}

	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug message missing after level raise: %q", buf.String())
	}

	got, err := registry.GetInt("kern.pmem_logging")
	if err != nil || got != int64(LevelDebug) {
		t.Errorf("GetInt = %d, %v; want 3, nil", got, err)
	}

	if err := registry.SetInt("kern.pmem_logging", 9); err == nil {
		t.Error("expected out-of-range level write to fail")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(Options{Level: LevelInfo, Format: "json", Output: &buf})
	logger.Info("hello")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}
