// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.
//
// Package ctr implements counter mode over a threefish.Cipher. Unlike a
// typical streaming CTR implementation, Mode does not keep an internal,
// auto-advancing block counter: every call to XORCrypt takes an explicit
// starting byte offset into the keystream, so a caller can encrypt several logically
// contiguous regions (a header, padding, and a payload, say) with one
// nonce by choosing increasing start offsets itself.
package ctr

import "encoding/binary"

// Cipher is the subset of threefish.Cipher that CTR mode needs.
type Cipher interface {
	Encrypt(dst, src []byte)
	BlockBytes() int
}

// Mode generates keystream under a fixed nonce and XORs it against
// plaintext or ciphertext. A Mode is not safe for concurrent use.
type Mode struct {
	cipher     Cipher
	blockBytes int
	nonceBytes int
	nonce      []byte
}

// New builds a Mode over cipher. SetNonce must be called before XORCrypt.
func New(cipher Cipher) *Mode {
	blockBytes := cipher.BlockBytes()
	return &Mode{
		cipher:     cipher,
		blockBytes: blockBytes,
		nonceBytes: blockBytes / 2,
		nonce:      make([]byte, blockBytes/2),
	}
}

// NonceBytes returns the nonce size this Mode expects (half the cipher's
// block size).
func (m *Mode) NonceBytes() int { return m.nonceBytes }

// SetNonce installs the nonce used by subsequent XORCrypt calls. nonce
// must be NonceBytes() long.
func (m *Mode) SetNonce(nonce []byte) {
	copy(m.nonce, nonce)
}

// XORCrypt XORs len(input) bytes of keystream, starting at byte offset
// start of the keystream, against input and writes the result to output.
// output and input may alias but must each be at least len(input) bytes;
// start lets the caller treat several calls as one contiguous keystream
// over a larger logical region.
func (m *Mode) XORCrypt(output, input []byte, start uint64) {
	block := make([]byte, m.blockBytes)
	copy(block[m.nonceBytes:], m.nonce)

	keystream := make([]byte, m.blockBytes)
	counter := start / uint64(m.blockBytes)
	bytesLeft := len(input)
	in, out := input, output

	if skip := int(start % uint64(m.blockBytes)); skip > 0 && bytesLeft > 0 {
		binary.LittleEndian.PutUint64(block[:8], counter)
		m.cipher.Encrypt(keystream, block)
		n := min(m.blockBytes-skip, bytesLeft)
		for i := 0; i < n; i++ {
			out[i] = keystream[skip+i] ^ in[i]
		}
		in = in[n:]
		out = out[n:]
		bytesLeft -= n
		counter++
	}

	for bytesLeft >= m.blockBytes {
		binary.LittleEndian.PutUint64(block[:8], counter)
		m.cipher.Encrypt(keystream, block)
		for i := 0; i < m.blockBytes; i++ {
			out[i] = keystream[i] ^ in[i]
		}
		in = in[m.blockBytes:]
		out = out[m.blockBytes:]
		bytesLeft -= m.blockBytes
		counter++
	}
	if bytesLeft > 0 {
		binary.LittleEndian.PutUint64(block[:8], counter)
		m.cipher.Encrypt(keystream, block)
		for i := 0; i < bytesLeft; i++ {
			out[i] = keystream[i] ^ in[i]
		}
	}
}
