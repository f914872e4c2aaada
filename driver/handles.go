// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package driver

import "github.com/bureau-foundation/pmem/lib/lockgroup"

// resource pairs a handle with an explicit acquired flag. Release
// paths dispatch on the flag, not on handle nullness, so a resource is
// never double-released even if its handle representation changes.
type resource[T any] struct {
	acquired bool
	handle   T
}

func (r *resource[T]) set(handle T) {
	r.handle = handle
	r.acquired = true
}

// take returns the handle and clears the flag. The second take of a
// resource reports false, which is what makes the rollback routine
// reentrant.
func (r *resource[T]) take() (T, bool) {
	if !r.acquired {
		var zero T
		return zero, false
	}
	r.acquired = false
	handle := r.handle
	var zero T
	r.handle = zero
	return handle, true
}

// groupPair is the lock-group pair acquired as one step and released
// as one step.
type groupPair struct {
	mutexes *lockgroup.Group
	rwlocks *lockgroup.Group
}

// handles is the aggregate resource set the manager owns for the
// process lifetime. Each entry independently tracks acquired state so
// rollback can run from any partial prefix of the acquisition
// sequence.
type handles struct {
	tag        resource[Tag]
	groups     resource[groupPair]
	major      resource[int]
	infoNode   resource[Node]
	memoryNode resource[Node]
	logVar     resource[string]
}
