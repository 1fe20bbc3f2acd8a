// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.
//
// Package threefish implements the Threefish tweakable block cipher at its
// three standard widths (256, 512, and 1024 bits). Threefish is the sole
// block primitive this module builds on; UBI, Skein, CTR, and the
// memory-hard KDF all operate in terms of a threefish.Cipher rather than
// any other cipher family.
//
// A Cipher is single-use per key/tweak pair for the duration of one
// Encrypt or Decrypt call: nothing in this package is safe for concurrent
// use by multiple goroutines, by design (see the module's concurrency
// notes) — callers own a Cipher exclusively and discard it, or Rekey it,
// between operations.
package threefish

import (
	"encoding/binary"

	"github.com/dfcrypt/dragonfly/internal/secure"
)

// parityConstant is Threefish's fixed key-schedule parity word, C240.
const parityConstant = 0x1bd11bdaa9fc1a22

// Cipher encrypts and decrypts single blocks under a tweakable key. The
// block size is fixed by the constructor used to build it (New256, New512,
// or New1024) and never changes for the lifetime of the Cipher.
type Cipher struct {
	numWords   int
	numRounds  int
	numSubkeys int

	rotate   func(round, index int) uint
	permute  func(state []uint64)
	unpermute func(state []uint64)

	state       []uint64
	keySchedule []uint64
	key         []uint64 // numWords+1 words; key[numWords] is the parity word
	tweak       [3]uint64
}

// BlockBytes returns the cipher's block size in bytes (32, 64, or 128).
func (c *Cipher) BlockBytes() int { return c.numWords * 8 }

// Destroy zeroizes every secret word the cipher holds: its key, its
// expanded key schedule, and its tweak. A Cipher must not be used again
// after Destroy.
func (c *Cipher) Destroy() {
	secure.ZeroUint64(c.key)
	secure.ZeroUint64(c.keySchedule)
	secure.ZeroUint64(c.state)
	c.tweak[0], c.tweak[1], c.tweak[2] = 0, 0, 0
}

// newCipher builds the shared skeleton for a given word count; the three
// exported constructors fill in the width-specific rotation table and
// permutation functions.
func newCipher(numWords, numRounds int, rotate func(round, index int) uint, permute, unpermute func([]uint64)) *Cipher {
	numSubkeys := numRounds/4 + 1
	return &Cipher{
		numWords:    numWords,
		numRounds:   numRounds,
		numSubkeys:  numSubkeys,
		rotate:      rotate,
		permute:     permute,
		unpermute:   unpermute,
		state:       make([]uint64, numWords),
		keySchedule: make([]uint64, numSubkeys*numWords),
		key:         make([]uint64, numWords+1),
	}
}

// Rekey replaces the cipher's key and tweak and rebuilds the key schedule.
// key must be BlockBytes() long. tweak must be 16 bytes, or nil to select
// the zero tweak.
func (c *Cipher) Rekey(key, tweak []byte) {
	for i := 0; i < c.numWords; i++ {
		c.key[i] = binary.LittleEndian.Uint64(key[i*8:])
	}
	c.key[c.numWords] = parityConstant
	for i := 0; i < c.numWords; i++ {
		c.key[c.numWords] ^= c.key[i]
	}

	if tweak != nil {
		c.tweak[0] = binary.LittleEndian.Uint64(tweak[0:8])
		c.tweak[1] = binary.LittleEndian.Uint64(tweak[8:16])
	} else {
		c.tweak[0] = 0
		c.tweak[1] = 0
	}
	c.tweak[2] = c.tweak[0] ^ c.tweak[1]

	n := c.numWords
	for subkey := 0; subkey < c.numSubkeys; subkey++ {
		base := subkey * n
		for i := 0; i <= n-4; i++ {
			c.keySchedule[base+i] = c.key[(subkey+i)%(n+1)]
		}
		c.keySchedule[base+n-3] = c.key[(subkey+n-3)%(n+1)] + c.tweak[subkey%3]
		c.keySchedule[base+n-2] = c.key[(subkey+n-2)%(n+1)] + c.tweak[(subkey+1)%3]
		c.keySchedule[base+n-1] = c.key[(subkey+n-1)%(n+1)] + uint64(subkey)
	}
}

func mix(x0, x1 *uint64, rot uint) {
	*x0 = *x0 + *x1
	*x1 = rotl64(*x1, rot) ^ *x0
}

func mixInverse(x0, x1 *uint64, rot uint) {
	*x1 = *x0 ^ *x1
	*x1 = rotr64(*x1, rot)
	*x0 = *x0 - *x1
}

func rotl64(x uint64, r uint) uint64 { return (x << r) | (x >> (64 - r)) }
func rotr64(x uint64, r uint) uint64 { return (x >> r) | (x << (64 - r)) }

func (c *Cipher) addSubkey(round int) {
	subkey := round / 4
	base := subkey * c.numWords
	for i := 0; i < c.numWords; i++ {
		c.state[i] += c.keySchedule[base+i]
	}
}

func (c *Cipher) subtractSubkey(round int) {
	subkey := round / 4
	base := subkey * c.numWords
	for i := 0; i < c.numWords; i++ {
		c.state[i] -= c.keySchedule[base+i]
	}
}

// Encrypt enciphers one block (src) into dst under the cipher's current
// key and tweak. src and dst must each be BlockBytes() long and may alias.
func (c *Cipher) Encrypt(dst, src []byte) {
	n := c.numWords
	for i := 0; i < n; i++ {
		c.state[i] = binary.LittleEndian.Uint64(src[i*8:])
	}
	for round := 0; round < c.numRounds; round++ {
		if round%4 == 0 {
			c.addSubkey(round)
		}
		for j := 0; j <= n/2-1; j++ {
			mix(&c.state[j*2], &c.state[j*2+1], c.rotate(round, j))
		}
		c.permute(c.state)
	}
	c.addSubkey(c.numRounds)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(dst[i*8:], c.state[i])
	}
}

// Decrypt deciphers one block (src) into dst under the cipher's current
// key and tweak. src and dst must each be BlockBytes() long and may alias.
func (c *Cipher) Decrypt(dst, src []byte) {
	n := c.numWords
	for i := 0; i < n; i++ {
		c.state[i] = binary.LittleEndian.Uint64(src[i*8:])
	}
	c.subtractSubkey(c.numRounds)
	for round := c.numRounds - 1; round >= 0; round-- {
		c.unpermute(c.state)
		for j := 0; j <= n/2-1; j++ {
			mixInverse(&c.state[j*2], &c.state[j*2+1], c.rotate(round, j))
		}
		if round%4 == 0 {
			c.subtractSubkey(round)
		}
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(dst[i*8:], c.state[i])
	}
}
