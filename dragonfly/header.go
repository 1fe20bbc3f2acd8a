// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package dragonfly

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	identifierBytes = 64
	tweakBytes      = 16
	saltBytes       = 16
	nonceBytes      = 32
	reservedBytes   = 16
	macBytes        = 64

	// VisibleMetadataBytes is the sum of every fixed-size header and
	// trailer field: identifier, size, the four scalar parameters,
	// tweak, salt, nonce, the encrypted reserved block, and the MAC.
	VisibleMetadataBytes = identifierBytes + 8 + 4 + tweakBytes + saltBytes + nonceBytes + reservedBytes + macBytes
)

// identifier is the fixed 64-byte version marker every Dragonfly v1
// container begins with. Its last byte is left zero so the field can be
// printed as a NUL-terminated string during Inspect.
var identifier = func() [identifierBytes]byte {
	var id [identifierBytes]byte
	copy(id[:], "dfcrypt.dragonfly.v1")
	return id
}()

// Header is the fixed, unencrypted portion of a Dragonfly v1 container
// plus the trailing MAC, as produced by Inspect.
type Header struct {
	Identifier [identifierBytes]byte
	TotalSize  uint64
	GLow       uint8
	GHigh      uint8
	Lambda     uint8
	UsePhi     bool
	Tweak      [tweakBytes]byte
	Salt       [saltBytes]byte
	Nonce      [nonceBytes]byte
	MAC        [macBytes]byte
}

func writeHeaderPrefix(out []byte, totalSize uint64, p Params, tweak, salt, nonce []byte) int {
	n := 0
	n += copy(out[n:], identifier[:])
	binary.LittleEndian.PutUint64(out[n:], totalSize)
	n += 8
	out[n] = p.GLow
	n++
	out[n] = p.GHigh
	n++
	out[n] = p.Lambda
	n++
	if p.UsePhi {
		out[n] = 1
	}
	n++
	n += copy(out[n:], tweak)
	n += copy(out[n:], salt)
	n += copy(out[n:], nonce)
	return n
}

func parseHeader(in []byte) (Header, error) {
	// A container of exactly VisibleMetadataBytes decrypts to an empty
	// payload; anything shorter cannot hold the fixed-size fields and
	// trailing MAC at all.
	if len(in) < VisibleMetadataBytes {
		return Header{}, ErrBadFormat
	}
	var h Header
	n := 0
	copy(h.Identifier[:], in[n:n+identifierBytes])
	n += identifierBytes
	if h.Identifier != identifier {
		return Header{}, ErrBadFormat
	}
	h.TotalSize = binary.LittleEndian.Uint64(in[n : n+8])
	n += 8
	h.GLow = in[n]
	n++
	h.GHigh = in[n]
	n++
	h.Lambda = in[n]
	n++
	h.UsePhi = in[n] != 0
	n++
	copy(h.Tweak[:], in[n:n+tweakBytes])
	n += tweakBytes
	copy(h.Salt[:], in[n:n+saltBytes])
	n += saltBytes
	copy(h.Nonce[:], in[n:n+nonceBytes])
	n += nonceBytes
	copy(h.MAC[:], in[len(in)-macBytes:])
	return h, nil
}

// headerPrefixBytes is the number of unencrypted bytes preceding the
// encrypted reserved block: identifier, size, the four scalar
// parameters, tweak, salt, and nonce.
const headerPrefixBytes = identifierBytes + 8 + 4 + tweakBytes + saltBytes + nonceBytes

// String renders the header the way Inspect reports it: the identifier
// as a NUL-terminated string, followed by size, parameters, and the raw
// bytes of tweak, salt, nonce, and MAC.
func (h Header) String() string {
	var b strings.Builder
	id := h.Identifier
	id[len(id)-1] = 0
	fmt.Fprintf(&b, "File Header ID : %s\n", strings.TrimRight(string(id[:]), "\x00"))
	fmt.Fprintf(&b, "File Size      : %d\n", h.TotalSize)
	fmt.Fprintf(&b, "Garlic Low     : %d\n", h.GLow)
	fmt.Fprintf(&b, "Garlic High    : %d\n", h.GHigh)
	fmt.Fprintf(&b, "Lambda         : %d\n", h.Lambda)
	if h.UsePhi {
		b.WriteString("The Phi function is used.\n")
	} else {
		b.WriteString("The Phi function is not used.\n")
	}
	fmt.Fprintf(&b, "Threefish Tweak : %x\n", h.Tweak)
	fmt.Fprintf(&b, "MHKDF Salt      : %x\n", h.Salt)
	fmt.Fprintf(&b, "CTR Nonce       : %x\n", h.Nonce)
	fmt.Fprintf(&b, "Skein MAC       : %x\n", h.MAC)
	return b.String()
}
