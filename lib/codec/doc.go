// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides deterministic CBOR encoding for pmem wire
// structures, currently the metadata snapshot served through the
// sysctl struct-query path. Deterministic encoding (RFC 8949 §4.2)
// guarantees that the same snapshot always produces identical bytes,
// so consumers can cache and diff query results.
package codec
