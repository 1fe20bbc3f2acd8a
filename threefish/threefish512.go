// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package threefish

var rotate512 = [8][4]uint{
	{46, 36, 19, 37},
	{33, 27, 14, 42},
	{17, 49, 36, 39},
	{44, 9, 54, 56},
	{39, 30, 34, 24},
	{13, 50, 10, 17},
	{25, 29, 39, 43},
	{8, 35, 56, 22},
}

func permute512(s []uint64) {
	w0 := s[6]
	s[6] = s[0]
	w1 := s[4]
	s[4] = w0
	w0 = s[2]
	s[2] = w1
	s[0] = w0

	w0 = s[3]
	s[3] = s[7]
	s[7] = w0
}

func unpermute512(s []uint64) {
	w0 := s[2]
	s[2] = s[0]
	w1 := s[4]
	s[4] = w0
	w0 = s[6]
	s[6] = w1
	s[0] = w0

	w0 = s[3]
	s[3] = s[7]
	s[7] = w0
}

// New512 builds a Threefish-512 cipher under key and tweak. key must be 64
// bytes; tweak must be 16 bytes or nil for the zero tweak. This is the
// width Dragonfly v1 uses throughout its container format.
func New512(key, tweak []byte) *Cipher {
	c := newCipher(8, 72,
		func(round, index int) uint { return rotate512[round%8][index] },
		permute512, unpermute512,
	)
	c.Rekey(key, tweak)
	return c
}
