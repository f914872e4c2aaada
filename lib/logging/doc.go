// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the pmem slog logger and exposes its
// verbosity as a dynamic configuration variable.
//
// Verbosity uses the pmem integer scale (0 error .. 3 debug) so the
// sysctl entry stays a plain writable integer; [Variable] adapts a
// [slog.LevelVar] to that scale. The logger itself is ordinary
// log/slog with a text or JSON handler.
package logging
