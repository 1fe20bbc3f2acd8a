// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package threefish

var rotate1024 = [8][8]uint{
	{24, 13, 8, 47, 8, 17, 22, 37},
	{38, 19, 10, 55, 49, 18, 23, 52},
	{33, 4, 51, 13, 34, 41, 59, 17},
	{5, 20, 48, 41, 47, 28, 16, 25},
	{41, 9, 37, 31, 12, 47, 44, 30},
	{16, 34, 56, 51, 4, 53, 42, 41},
	{31, 44, 47, 46, 19, 42, 44, 25},
	{9, 48, 35, 52, 23, 31, 37, 20},
}

func permute1024(s []uint64) {
	w0 := s[15]
	s[15] = s[1]
	w1 := s[7]
	s[7] = w0
	w0 = s[9]
	s[9] = w1
	s[1] = w0

	w0 = s[11]
	s[11] = s[3]
	w1 = s[5]
	s[5] = w0
	w0 = s[13]
	s[13] = w1
	s[3] = w0

	w0 = s[4]
	s[4] = s[6]
	s[6] = w0

	w0 = s[14]
	s[14] = s[8]
	w1 = s[12]
	s[12] = w0
	w0 = s[10]
	s[10] = w1
	s[8] = w0
}

func unpermute1024(s []uint64) {
	w0 := s[9]
	s[9] = s[1]
	w1 := s[7]
	s[7] = w0
	w0 = s[15]
	s[15] = w1
	s[1] = w0

	w0 = s[13]
	s[13] = s[3]
	w1 = s[5]
	s[5] = w0
	w0 = s[11]
	s[11] = w1
	s[3] = w0

	w0 = s[4]
	s[4] = s[6]
	s[6] = w0

	w0 = s[10]
	s[10] = s[8]
	w1 = s[12]
	s[12] = w0
	w0 = s[14]
	s[14] = w1
	s[8] = w0
}

// New1024 builds a Threefish-1024 cipher under key and tweak. key must be
// 128 bytes; tweak must be 16 bytes or nil for the zero tweak.
func New1024(key, tweak []byte) *Cipher {
	c := newCipher(16, 80,
		func(round, index int) uint { return rotate1024[round%8][index] },
		permute1024, unpermute1024,
	)
	c.Rekey(key, tweak)
	return c
}
