// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.
//
// Package skein implements the Skein hash function, MAC, and
// counter-mode output expansion on top of threefish and ubi. Skein's
// "native" fast path (HashNative) additionally hardcodes the chaining
// value that the configuration pass would otherwise compute, for the
// state widths this module uses.
package skein

import (
	"encoding/binary"

	"github.com/dfcrypt/dragonfly/threefish"
	"github.com/dfcrypt/dragonfly/ubi"
)

// configBlockBytes is fixed by the Skein specification regardless of the
// underlying state width.
const configBlockBytes = 32

// newCipherFunc builds a fresh, unkeyed cipher of the Hasher's width; UBI
// rekeys it block by block, so the initial key/tweak passed here are
// never used for anything cryptographically meaningful.
type newCipherFunc func() ubi.Cipher

// Hasher computes Skein hashes, MACs, and expanded output at one of the
// three Threefish widths. A Hasher holds no mutable state between calls —
// every exported method is a complete, independent operation.
type Hasher struct {
	newCipher  newCipherFunc
	stateBytes int
}

// New256, New512, and New1024 build a Hasher at the given Threefish width.
func New256() *Hasher {
	return &Hasher{stateBytes: 32, newCipher: func() ubi.Cipher { return threefish.New256(make([]byte, 32), nil) }}
}

func New512() *Hasher {
	return &Hasher{stateBytes: 64, newCipher: func() ubi.Cipher { return threefish.New512(make([]byte, 64), nil) }}
}

func New1024() *Hasher {
	return &Hasher{stateBytes: 128, newCipher: func() ubi.Cipher { return threefish.New1024(make([]byte, 128), nil) }}
}

// StateBytes returns the hasher's native output/state width in bytes.
func (h *Hasher) StateBytes() int { return h.stateBytes }

func configBlock(numOutputBits uint64) []byte {
	cfg := make([]byte, configBlockBytes)
	cfg[0], cfg[1], cfg[2], cfg[3] = 'S', 'H', 'A', '3'
	cfg[4], cfg[5] = 0x01, 0x00
	binary.LittleEndian.PutUint64(cfg[8:16], numOutputBits)
	return cfg
}

func (h *Hasher) processConfigBlock(keyState []byte, numOutputBits uint64) []byte {
	return ubi.ChainFrom(h.newCipher(), ubi.TypeCfg, keyState, configBlock(numOutputBits))
}

func (h *Hasher) processKeyBlock(keyState, key []byte) []byte {
	return ubi.ChainFrom(h.newCipher(), ubi.TypeKey, keyState, key)
}

func (h *Hasher) processMessageBlock(keyState, message []byte) []byte {
	return ubi.ChainFrom(h.newCipher(), ubi.TypeMsg, keyState, message)
}

// outputTransform generates numOutputBytes of output from keyState by
// repeatedly UBI-chaining an 8-byte little-endian counter under type Out.
// Each iteration chains from whatever keyState holds after the previous
// iteration — the running state is cumulative across output blocks, not
// re-derived from the pre-output chaining value each time. This mirrors
// the reference implementation's single persistent UBI object exactly.
func (h *Hasher) outputTransform(keyState []byte, numOutputBytes uint64) []byte {
	out := make([]byte, numOutputBytes)
	bytesOut := 0
	bytesLeft := numOutputBytes
	for i := uint64(0); bytesLeft > 0; i++ {
		counter := make([]byte, 8)
		binary.LittleEndian.PutUint64(counter, i)
		keyState = ubi.ChainFrom(h.newCipher(), ubi.TypeOut, keyState, counter)
		if bytesLeft >= uint64(h.stateBytes) {
			copy(out[bytesOut:], keyState[:h.stateBytes])
			bytesOut += h.stateBytes
			bytesLeft -= uint64(h.stateBytes)
		} else {
			copy(out[bytesOut:], keyState[:bytesLeft])
			bytesLeft = 0
		}
	}
	return out
}

// Hash computes the Skein hash of in, producing numBytesOut bytes of
// output (typically StateBytes()).
func (h *Hasher) Hash(in []byte, numBytesOut int) []byte {
	keyState := make([]byte, h.stateBytes)
	keyState = h.processConfigBlock(keyState, uint64(numBytesOut)*8)
	keyState = h.processMessageBlock(keyState, in)
	return h.outputTransform(keyState, uint64(numBytesOut))
}

// MAC computes the Skein MAC of in under key, producing numBytesOut bytes
// of output (typically StateBytes()).
func (h *Hasher) MAC(in, key []byte, numBytesOut int) []byte {
	keyState := make([]byte, h.stateBytes)
	keyState = h.processKeyBlock(keyState, key)
	keyState = h.processConfigBlock(keyState, uint64(numBytesOut)*8)
	keyState = h.processMessageBlock(keyState, in)
	return h.outputTransform(keyState, uint64(numBytesOut))
}

// HashNative computes the Skein hash of in at exactly StateBytes() of
// output, skipping the configuration pass by starting from a hardcoded
// chaining value equivalent to it. This is the fast path the memory-hard
// KDF's inner loop relies on.
func (h *Hasher) HashNative(in []byte) []byte {
	keyState := append([]byte(nil), h.nativeIV()...)
	keyState = h.processMessageBlock(keyState, in)
	return h.outputTransform(keyState, uint64(h.stateBytes))
}

func (h *Hasher) nativeIV() []byte {
	var words []uint64
	switch h.stateBytes {
	case 32:
		words = []uint64{
			0xfc9da860d048b449,
			0x2fca66479fa7d833,
			0xb33bc3896656840f,
			0x6a54e920fde8da69,
		}
	case 64:
		words = []uint64{
			0x4903adff749c51ce,
			0x0d95de399746df03,
			0x8fd1934127c79bce,
			0x9a255629ff352cb1,
			0x5db62599df6ca7b0,
			0xeabe394ca9d5c3f4,
			0x991112c71a75b523,
			0xae18a40b660fcc33,
		}
	case 128:
		words = []uint64{
			0xd593da0741e72355,
			0x15b5e511ac73e00c,
			0x5180e5aebaf2c4f0,
			0x03bd41d3fcbcafaf,
			0x1caec6fd1983a898,
			0x6e510b8bcdd0589f,
			0x77e2bdfdc6394ada,
			0xc11e1db524dcb0a3,
			0xd6d14af9c6329ab5,
			0x6a9b0bfc6eb67e0d,
			0x9243c60dccff1332,
			0x1a1f1dde743f02d4,
			0x0996753c10ed0bb8,
			0x6572dd22f2b4969a,
			0x61fd3062d00a579a,
			0x1de0536e8682e539,
		}
	}
	iv := make([]byte, h.stateBytes)
	for i, w := range words {
		binary.LittleEndian.PutUint64(iv[i*8:], w)
	}
	return iv
}
