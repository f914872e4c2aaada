// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

func TestDeterministicEncoding(t *testing.T) {
	value := map[string]any{
		"zeta":  int64(1),
		"alpha": int64(2),
		"mid":   "x",
	}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same value produced different encodings")
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	type v1 struct {
		Name string `cbor:"name"`
		Size int64  `cbor:"size"`
	}
	type v2 struct {
		Name string `cbor:"name"`
	}

	data, err := Marshal(v1{Name: "pmem", Size: 42})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded v2
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal with extra field: %v", err)
	}
	if decoded.Name != "pmem" {
		t.Errorf("Name = %q, want pmem", decoded.Name)
	}
}

func TestAnyTargetMapType(t *testing.T) {
	data, err := Marshal(map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		t.Errorf("decoded any has type %T, want map[string]any", decoded)
	}
}
