// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/pmem/lib/sysctl"
)

// Level is the pmem verbosity scale: higher is chattier.
type Level int

const (
	LevelError Level = 0
	LevelWarn  Level = 1
	LevelInfo  Level = 2
	LevelDebug Level = 3
)

// Slog converts a pmem level to its slog equivalent.
func (l Level) Slog() slog.Level {
	switch {
	case l <= LevelError:
		return slog.LevelError
	case l == LevelWarn:
		return slog.LevelWarn
	case l == LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// FromSlog converts a slog level to the pmem scale.
func FromSlog(l slog.Level) Level {
	switch {
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarn
	case l >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// Parse maps a config string to a level.
func Parse(s string) (Level, error) {
	switch s {
	case "error":
		return LevelError, nil
	case "warn":
		return LevelWarn, nil
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Options configures logger construction.
type Options struct {
	// Level is the initial verbosity.
	Level Level

	// Format selects the handler: "json" or "text" (default).
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds a logger whose level can be changed at runtime through
// the returned LevelVar.
func New(opts Options) (*slog.Logger, *slog.LevelVar) {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(opts.Level.Slog())

	handlerOpts := &slog.HandlerOptions{Level: levelVar}
	var handler slog.Handler
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(output, handlerOpts)
	}
	return slog.New(handler), levelVar
}

// Variable adapts a LevelVar to a writable sysctl integer on the pmem
// scale. Writes outside 0..3 are rejected.
func Variable(name string, levelVar *slog.LevelVar) sysctl.Variable {
	return sysctl.Variable{
		Name: name,
		Get: func() int64 {
			return int64(FromSlog(levelVar.Level()))
		},
		Set: func(v int64) error {
			if v < int64(LevelError) || v > int64(LevelDebug) {
				return fmt.Errorf("logging level %d out of range [0,3]", v)
			}
			levelVar.Set(Level(v).Slog())
			return nil
		},
	}
}
