// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package threefish

var rotate256 = [8][2]uint{
	{14, 16},
	{52, 57},
	{23, 40},
	{5, 37},
	{25, 33},
	{46, 12},
	{58, 22},
	{32, 32},
}

func permute256(s []uint64) {
	s[1], s[3] = s[3], s[1]
}

// New256 builds a Threefish-256 cipher under key and tweak. key must be 32
// bytes; tweak must be 16 bytes or nil for the zero tweak.
func New256(key, tweak []byte) *Cipher {
	c := newCipher(4, 72,
		func(round, index int) uint { return rotate256[round%8][index] },
		permute256, permute256, // 256-bit permutation is its own inverse
	)
	c.Rekey(key, tweak)
	return c
}
