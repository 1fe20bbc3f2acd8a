// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.
//
// Package dragonfly implements the Dragonfly v1 container format: an
// authenticated, password-based, memory-hard encrypted envelope built
// from threefish, ubi, skein, ctr, and mhkdf. Encrypt, Decrypt, and
// Inspect operate on in-memory byte slices; EncryptFile, DecryptFile,
// and InspectFile memory-map the corresponding files.
//
// Every exported entry point owns its cryptographic state exclusively
// for the duration of the call: none of it is safe to share across
// concurrent calls, and none of it outlives the call that created it.
package dragonfly

import (
	"encoding/binary"

	"github.com/dfcrypt/dragonfly/ctr"
	"github.com/dfcrypt/dragonfly/internal/secure"
	"github.com/dfcrypt/dragonfly/mhkdf"
	"github.com/dfcrypt/dragonfly/skein"
	"github.com/dfcrypt/dragonfly/threefish"
	"github.com/dfcrypt/dragonfly/x/crypto/skeinprng"
)

// Params carries the memory-hard cost knobs and padding policy for
// Encrypt. Decrypt needs none of these: it reads them back out of the
// container's header.
type Params struct {
	// GLow and GHigh bound the memory-hard derivation's graph size in
	// powers of two (GLow <= GHigh <= 63).
	GLow, GHigh uint8
	// Lambda is the derivation's time-cost parameter (>= 1).
	Lambda uint8
	// UsePhi enables the final sequential-mixing pass, gaining
	// parallel-attack resistance at the cost of derivation latency.
	UsePhi bool
	// PaddingBytes is how much extra encrypted filler to interleave
	// between the header and the payload.
	PaddingBytes uint64
	// SupplementOSEntropy mixes a second draw of OS entropy into the
	// CSPRNG after its initial seeding, for callers who don't trust a
	// single entropy draw.
	SupplementOSEntropy bool
}

func (p Params) validate() error {
	if p.GLow == 0 || p.GLow > p.GHigh || p.GHigh > 63 || p.Lambda == 0 {
		return ErrBadParams
	}
	return nil
}

func (p Params) mhkdfParams() mhkdf.Params {
	return mhkdf.Params{
		GLow:     p.GLow,
		GHigh:    p.GHigh,
		Lambda:   p.Lambda,
		UsePhi:   p.UsePhi,
		UseGamma: true,
	}
}

// secretAggregate tracks every secret buffer live during one Encrypt or
// Decrypt call, so the call's MemoryLocker can wrap the whole aggregate
// for the call's full duration, the way the reference wraps its one
// secret struct in LOCK_MEMORY_/UNLOCK_MEMORY_. Locking is best-effort:
// a Lock failure is ignored here, matching the core's degrade-gracefully
// policy.
type secretAggregate struct {
	locker MemoryLocker
	bufs   [][]byte
}

func newSecretAggregate(locker MemoryLocker) *secretAggregate {
	return &secretAggregate{locker: locker}
}

// add locks b for the remainder of the call and registers it for release
// by unlockAll. It returns b so callers can wrap an assignment inline.
func (s *secretAggregate) add(b []byte) []byte {
	_ = s.locker.Lock(b)
	s.bufs = append(s.bufs, b)
	return b
}

// unlockAll releases every buffer tracked by add. Callers zeroize their
// own buffers separately; unlockAll only lifts the memory lock.
func (s *secretAggregate) unlockAll() {
	for _, b := range s.bufs {
		_ = s.locker.Unlock(b)
	}
}

// deriveKeys runs the memory-hard KDF over password and salt, then
// expands its 64-byte output into a 128-byte buffer split into a 64-byte
// encryption key and a 64-byte authentication key. It takes ownership of
// password: the underlying call (mhkdf.Derive) zeroizes it. keys is the
// backing array for both encKey and authKey, returned so callers can
// lock and zeroize it as a single region.
func deriveKeys(password, salt []byte, mp mhkdf.Params) (keys, encKey, authKey []byte, err error) {
	catenaOut, err := mhkdf.Derive(password, salt, identifier[:], mp)
	if err != nil {
		return nil, nil, nil, mapMHKDFErr(err)
	}
	hasher := skein.New512()
	keys = hasher.Hash(catenaOut, 128)
	secure.Zero(catenaOut)
	return keys, keys[:64], keys[64:128], nil
}

// Encrypt produces a Dragonfly v1 container holding plaintext, using a
// password obtained from the configured PasswordPrompter (or supplied
// directly via WithPassword).
func Encrypt(plaintext []byte, params Params, opts ...Option) ([]byte, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	coll := defaultCollaborators()
	for _, opt := range opts {
		opt(&coll)
	}

	secrets := newSecretAggregate(coll.locker)
	defer secrets.unlockAll()

	outSize := uint64(len(plaintext)) + uint64(VisibleMetadataBytes) + params.PaddingBytes
	out := make([]byte, outSize)

	password, err := coll.obtainPassword(true)
	if err != nil {
		return nil, err
	}
	secrets.add(password)

	seed := make([]byte, skeinprng.StateBytes)
	secrets.add(seed)
	if _, err := coll.entropy.Read(seed); err != nil {
		secure.Zero(password)
		return nil, ErrIOError
	}
	gen := skeinprng.NewFromSeed(seed)
	secure.Zero(seed)
	if params.SupplementOSEntropy {
		extra := make([]byte, skeinprng.StateBytes)
		secrets.add(extra)
		if _, err := coll.entropy.Read(extra); err != nil {
			secure.Zero(password)
			gen.Close()
			return nil, ErrIOError
		}
		gen.Reseed(extra)
		secure.Zero(extra)
	}
	tweak := make([]byte, tweakBytes)
	nonce := make([]byte, nonceBytes)
	salt := make([]byte, saltBytes)
	secrets.add(tweak)
	secrets.add(nonce)
	secrets.add(salt)
	gen.Get(tweak)
	gen.Get(nonce)
	gen.Get(salt)
	gen.Close()

	keys, encKey, authKey, err := deriveKeys(password, salt, params.mhkdfParams())
	if err != nil {
		secure.Zero(tweak)
		secure.Zero(nonce)
		secure.Zero(salt)
		return nil, err
	}
	secrets.add(keys)

	cipher := threefish.New512(encKey, tweak)
	defer cipher.Destroy()
	mode := ctr.New(cipher)
	mode.SetNonce(nonce)

	n := writeHeaderPrefix(out, outSize, params, tweak, salt, nonce)
	secure.Zero(tweak)
	secure.Zero(salt)
	secure.Zero(nonce)

	reserved := make([]byte, reservedBytes)
	secrets.add(reserved)
	binary.LittleEndian.PutUint64(reserved[:8], params.PaddingBytes)
	mode.XORCrypt(out[n:n+reservedBytes], reserved, 0)
	secure.Zero(reserved)
	n += reservedBytes

	if params.PaddingBytes > 0 {
		pad := out[n : n+int(params.PaddingBytes)]
		mode.XORCrypt(pad, pad, reservedBytes)
		n += int(params.PaddingBytes)
	}

	mode.XORCrypt(out[n:n+len(plaintext)], plaintext, reservedBytes+params.PaddingBytes)
	n += len(plaintext)

	hasher := skein.New512()
	mac := hasher.MAC(out[:n], authKey, macBytes)
	copy(out[n:], mac)

	secure.Zero(encKey)
	secure.Zero(authKey)
	return out, nil
}

// Decrypt authenticates and decrypts a Dragonfly v1 container, using a
// password obtained from the configured PasswordPrompter (or supplied
// directly via WithPassword). It returns ErrAuthFailed, without
// releasing any plaintext, on MAC mismatch from any cause: wrong
// password, corruption, or tampering.
func Decrypt(container []byte, opts ...Option) ([]byte, error) {
	h, err := parseHeader(container)
	if err != nil {
		return nil, err
	}

	coll := defaultCollaborators()
	for _, opt := range opts {
		opt(&coll)
	}

	secrets := newSecretAggregate(coll.locker)
	defer secrets.unlockAll()

	password, err := coll.obtainPassword(false)
	if err != nil {
		return nil, err
	}
	secrets.add(password)

	mp := mhkdf.Params{GLow: h.GLow, GHigh: h.GHigh, Lambda: h.Lambda, UsePhi: h.UsePhi, UseGamma: true}
	keys, encKey, authKey, err := deriveKeys(password, h.Salt[:], mp)
	if err != nil {
		return nil, err
	}
	secrets.add(keys)

	hasher := skein.New512()
	body := container[:len(container)-macBytes]
	gotMAC := hasher.MAC(body, authKey, macBytes)
	if !secure.Equal(gotMAC, container[len(container)-macBytes:]) {
		secure.Zero(encKey)
		secure.Zero(authKey)
		return nil, ErrAuthFailed
	}

	cipher := threefish.New512(encKey, h.Tweak[:])
	defer cipher.Destroy()
	mode := ctr.New(cipher)
	mode.SetNonce(h.Nonce[:])
	secure.Zero(encKey)
	secure.Zero(authKey)

	rest := body[headerPrefixBytes:]
	if len(rest) < reservedBytes {
		return nil, ErrBadFormat
	}
	reserved := make([]byte, reservedBytes)
	secrets.add(reserved)
	mode.XORCrypt(reserved, rest[:reservedBytes], 0)
	paddingBytes := binary.LittleEndian.Uint64(reserved[:8])
	secure.Zero(reserved)

	payloadStart := reservedBytes + int(paddingBytes)
	if payloadStart < 0 || payloadStart > len(rest) {
		return nil, ErrBadFormat
	}
	payload := rest[payloadStart:]
	plaintext := make([]byte, len(payload))
	secrets.add(plaintext)
	mode.XORCrypt(plaintext, payload, uint64(reservedBytes)+paddingBytes)
	return plaintext, nil
}

// Inspect parses a container's header and trailing MAC without touching
// any secret material: no password is requested, no key is derived.
func Inspect(container []byte) (Header, error) {
	return parseHeader(container)
}
