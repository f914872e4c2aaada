// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the pmem
// daemon.
//
// Configuration is loaded from a single file specified by either the
// PMEM_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks and no automatic file
// search; this keeps the configuration deterministic and auditable.
//
// The file supports environment-specific sections (debug, release)
// that override base values when [Config].Environment matches. The
// environment also fixes the device-node permission policy: debug
// builds expose world-read/write nodes, release builds restrict them
// to owner and privileged group.
package config
