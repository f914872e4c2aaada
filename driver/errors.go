// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package driver

import "errors"

// Startup and shutdown failure kinds. Start wraps the failing step's
// underlying error with one of these sentinels; callers branch with
// errors.Is.
var (
	// ErrResourceExhausted: the allocation tag or a lock group could
	// not be created.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrRegistrationFailed: the host refused to assign a major
	// device number.
	ErrRegistrationFailed = errors.New("major number registration failed")

	// ErrRegistrationInconsistent: deregistration echoed a different
	// major number than was registered. A cleanup-time failure; it
	// downgrades Stop's status but does not abort remaining cleanup.
	ErrRegistrationInconsistent = errors.New("major number deregistration inconsistent")

	// ErrNodeCreationFailed: a device node could not be created.
	ErrNodeCreationFailed = errors.New("device node creation failed")

	// ErrCollaboratorInitFailed: a delegated subsystem's
	// initialization returned non-success.
	ErrCollaboratorInitFailed = errors.New("collaborator initialization failed")
)
