// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package mhkdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func versionID() []byte {
	id := make([]byte, 64)
	copy(id, "dfcrypt.dragonfly.v1")
	return id
}

func TestDeriveDeterministic(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	params := Params{GLow: 1, GHigh: 2, Lambda: 1, UsePhi: false, UseGamma: true}

	out1, err := Derive([]byte("password"), []byte("0123456789abcdef"), versionID(), params)
	is.NoError(err)
	is.Len(out1, StateBytes)

	out2, err := Derive([]byte("password"), []byte("0123456789abcdef"), versionID(), params)
	is.NoError(err)
	is.Equal(out1, out2, "identical parameters must derive identical output")
}

func TestDerivePasswordSensitivity(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	params := Params{GLow: 1, GHigh: 1, Lambda: 1, UsePhi: false, UseGamma: true}
	salt := []byte("0123456789abcdef")

	out1, err := Derive([]byte("password"), salt, versionID(), params)
	is.NoError(err)
	out2, err := Derive([]byte("p@ssword"), salt, versionID(), params)
	is.NoError(err)
	is.NotEqual(out1, out2)
}

func TestDeriveSaltSensitivity(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	params := Params{GLow: 1, GHigh: 1, Lambda: 1, UsePhi: false, UseGamma: true}
	password := []byte("hunter2")

	out1, err := Derive(append([]byte(nil), password...), []byte("0123456789abcdef"), versionID(), params)
	is.NoError(err)
	out2, err := Derive(append([]byte(nil), password...), []byte("fedcba9876543210"), versionID(), params)
	is.NoError(err)
	is.NotEqual(out1, out2)
}

func TestDeriveUsePhiChangesOutput(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	salt := []byte("0123456789abcdef")

	outNoPhi, err := Derive([]byte("hunter2"), salt, versionID(), Params{GLow: 1, GHigh: 1, Lambda: 1, UsePhi: false, UseGamma: true})
	is.NoError(err)
	outPhi, err := Derive([]byte("hunter2"), salt, versionID(), Params{GLow: 1, GHigh: 1, Lambda: 1, UsePhi: true, UseGamma: true})
	is.NoError(err)
	is.NotEqual(outNoPhi, outPhi)
}

func TestDeriveGarlicRangeChangesOutput(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	salt := []byte("0123456789abcdef")

	out1, err := Derive([]byte("hunter2"), salt, versionID(), Params{GLow: 1, GHigh: 1, Lambda: 1, UseGamma: true})
	is.NoError(err)
	out2, err := Derive([]byte("hunter2"), salt, versionID(), Params{GLow: 1, GHigh: 2, Lambda: 1, UseGamma: true})
	is.NoError(err)
	is.NotEqual(out1, out2)
}

func TestDeriveZeroizesPassword(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	password := []byte("hunter2")
	_, err := Derive(password, []byte("0123456789abcdef"), versionID(), Params{GLow: 1, GHigh: 1, Lambda: 1, UseGamma: true})
	is.NoError(err)
	is.Equal(make([]byte, len("hunter2")), password, "Derive must zeroize the password buffer it was given")
}

func TestDeriveBadParams(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	salt := []byte("0123456789abcdef")
	cases := []Params{
		{GLow: 0, GHigh: 1, Lambda: 1},
		{GLow: 5, GHigh: 3, Lambda: 1},
		{GLow: 1, GHigh: 1, Lambda: 0},
		{GLow: 1, GHigh: 64, Lambda: 1},
	}
	for _, p := range cases {
		password := []byte("x")
		_, err := Derive(password, salt, versionID(), p)
		is.ErrorIs(err, ErrBadParams)
		is.Equal(make([]byte, len("x")), password, "Derive must zeroize password on the ErrBadParams exit too")
	}
}

func TestDeriveGraphAllocZeroizesPassword(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	password := []byte("hunter2")
	_, err := Derive(password, []byte("0123456789abcdef"), versionID(), Params{GLow: 1, GHigh: 63, Lambda: 1})
	is.ErrorIs(err, ErrGraphAlloc)
	is.Equal(make([]byte, len("hunter2")), password, "Derive must zeroize password on the ErrGraphAlloc exit too")
}

func TestBitReverse(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal(uint64(0), bitReverse(0, 4))
	is.Equal(uint64(0b1000), bitReverse(0b0001, 4))
	is.Equal(uint64(0b0001), bitReverse(0b1000, 4))
	is.Equal(uint64(0b1010), bitReverse(0b0101, 4))
}
