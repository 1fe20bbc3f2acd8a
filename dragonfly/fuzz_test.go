// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package dragonfly

import (
	"bytes"
	"testing"
)

// FuzzParseHeader fuzzes parseHeader against arbitrary byte slices: it
// must never panic, and any slice it accepts must round-trip through
// String without panicking either.
func FuzzParseHeader(f *testing.F) {
	seed, err := Encrypt([]byte("seed plaintext"), testParams(), encryptOpts([]byte("hunter2"))...)
	if err != nil {
		f.Fatal(err)
	}
	f.Add(seed)
	f.Add(make([]byte, VisibleMetadataBytes))
	f.Add(make([]byte, VisibleMetadataBytes-1))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, in []byte) {
		h, err := parseHeader(in)
		if err != nil {
			return
		}
		_ = h.String()
	})
}

// FuzzDecrypt fuzzes Decrypt against arbitrary container bytes: it must
// never panic, and it must never return a nil error together with a nil
// plaintext slice for nonempty input.
func FuzzDecrypt(f *testing.F) {
	seed, err := Encrypt([]byte("seed plaintext"), testParams(), encryptOpts([]byte("hunter2"))...)
	if err != nil {
		f.Fatal(err)
	}
	f.Add(seed)

	flipped := append([]byte(nil), seed...)
	flipped[headerPrefixBytes+reservedBytes] ^= 0x01
	f.Add(flipped)

	f.Fuzz(func(t *testing.T, in []byte) {
		plaintext, err := Decrypt(in, WithPassword([]byte("hunter2")))
		if err == nil && plaintext == nil && len(in) > 0 {
			t.Fatalf("Decrypt returned no error and nil plaintext for %d-byte input", len(in))
		}
		if bytes.Equal(in, seed) && err != nil {
			t.Fatalf("Decrypt must succeed on its own untouched output: %v", err)
		}
	})
}
