// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for pmem packages.
//
// [Recorder] is an ordered event log for lifecycle tests: fakes and
// instrumented collaborators record the calls they receive, and tests
// assert on presence, absence and relative order of events. The
// driver's teardown-ordering invariants (nodes removed before the
// major number is deregistered, collaborator cleanup always invoked)
// are all verified through it.
package testutil
