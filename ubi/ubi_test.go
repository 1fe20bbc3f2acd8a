// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ubi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dfcrypt/dragonfly/threefish"
)

func newCipher() Cipher {
	return threefish.New512(make([]byte, 64), nil)
}

func TestChainEmptyMessageDoesNotPanic(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	out := Chain(newCipher(), TypeMsg, nil)
	is.Len(out, 64)
}

func TestChainDeterministic(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	msg := []byte("the quick brown fox jumps over the lazy dog, and then some more")
	out1 := Chain(newCipher(), TypeMsg, msg)
	out2 := Chain(newCipher(), TypeMsg, msg)
	is.Equal(out1, out2)
}

func TestChainTypeChangesOutput(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	msg := []byte("identical message")
	outMsg := Chain(newCipher(), TypeMsg, msg)
	outCfg := Chain(newCipher(), TypeCfg, msg)
	is.NotEqual(outMsg, outCfg, "differing UBI types must chain to differing outputs")
}

func TestChainBlockBoundaries(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	// Exercise the single-full-block, multi-block, and trailing-partial
	// paths through the same cipher width.
	lengths := []int{0, 1, 63, 64, 65, 127, 128, 129, 200}
	seen := make(map[string]bool)
	for _, n := range lengths {
		msg := make([]byte, n)
		for i := range msg {
			msg[i] = byte(i)
		}
		out := Chain(newCipher(), TypeMsg, msg)
		is.Len(out, 64)
		seen[string(out)] = true
	}
	is.Equal(len(lengths), len(seen), "each distinct message length should chain to a distinct state")
}

func TestChainFromStartsWhereGiven(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	zeroState := make([]byte, 64)
	out1 := ChainFrom(newCipher(), TypeMsg, zeroState, []byte("abc"))

	nonZeroState := make([]byte, 64)
	nonZeroState[0] = 0xFF
	out2 := ChainFrom(newCipher(), TypeMsg, nonZeroState, []byte("abc"))

	is.NotEqual(out1, out2, "chaining from a different initial key state must diverge")
}
