// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package threefish

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip512(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	key := make([]byte, 64)
	tweak := make([]byte, 16)
	for i := range key {
		key[i] = byte(i)
	}
	for i := range tweak {
		tweak[i] = byte(i * 7)
	}
	plaintext := make([]byte, 64)
	for i := range plaintext {
		plaintext[i] = byte(255 - i)
	}

	c := New512(key, tweak)
	ciphertext := make([]byte, 64)
	c.Encrypt(ciphertext, plaintext)
	is.False(bytes.Equal(ciphertext, plaintext), "ciphertext should not equal plaintext")

	recovered := make([]byte, 64)
	c.Decrypt(recovered, ciphertext)
	is.Equal(plaintext, recovered)
}

func TestRoundTrip256And1024(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	key256 := make([]byte, 32)
	tweak := make([]byte, 16)
	plaintext256 := bytes.Repeat([]byte{0xAA}, 32)
	c256 := New256(key256, tweak)
	ct256 := make([]byte, 32)
	c256.Encrypt(ct256, plaintext256)
	pt256 := make([]byte, 32)
	c256.Decrypt(pt256, ct256)
	is.Equal(plaintext256, pt256)
	is.Equal(32, c256.BlockBytes())

	key1024 := make([]byte, 128)
	plaintext1024 := bytes.Repeat([]byte{0x55}, 128)
	c1024 := New1024(key1024, tweak)
	ct1024 := make([]byte, 128)
	c1024.Encrypt(ct1024, plaintext1024)
	pt1024 := make([]byte, 128)
	c1024.Decrypt(pt1024, ct1024)
	is.Equal(plaintext1024, pt1024)
	is.Equal(128, c1024.BlockBytes())
}

func TestZeroKeyZeroTweakZeroPlaintextIsDeterministic(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	key := make([]byte, 64)
	tweak := make([]byte, 16)
	plaintext := make([]byte, 64)

	c1 := New512(key, tweak)
	out1 := make([]byte, 64)
	c1.Encrypt(out1, plaintext)

	c2 := New512(key, tweak)
	out2 := make([]byte, 64)
	c2.Encrypt(out2, plaintext)

	is.Equal(out1, out2, "encrypting identical zero inputs must be deterministic")
	is.NotEqual(make([]byte, 64), out1, "zero input must not encrypt to all zeros")
}

func TestTweakChangesCiphertext(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	key := make([]byte, 64)
	plaintext := make([]byte, 64)

	tweakA := make([]byte, 16)
	tweakB := make([]byte, 16)
	tweakB[0] = 1

	cA := New512(key, tweakA)
	outA := make([]byte, 64)
	cA.Encrypt(outA, plaintext)

	cB := New512(key, tweakB)
	outB := make([]byte, 64)
	cB.Encrypt(outB, plaintext)

	is.NotEqual(outA, outB, "differing tweaks must produce differing ciphertexts")
}

func TestKeyChangesCiphertext(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	tweak := make([]byte, 16)
	plaintext := make([]byte, 64)

	keyA := make([]byte, 64)
	keyB := make([]byte, 64)
	keyB[63] = 1

	cA := New512(keyA, tweak)
	outA := make([]byte, 64)
	cA.Encrypt(outA, plaintext)

	cB := New512(keyB, tweak)
	outB := make([]byte, 64)
	cB.Encrypt(outB, plaintext)

	is.NotEqual(outA, outB, "differing keys must produce differing ciphertexts (avalanche)")
}
