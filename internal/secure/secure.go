// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.
//
// Package secure provides the small set of hygiene primitives the rest of
// the module relies on when handling key material, passwords, and other
// secrets: non-elidable wiping and constant-time comparison.
package secure

import "crypto/subtle"

// Zero overwrites b with zeroes. It is used at the end of every secret's
// lifetime — key schedules, derived keys, password buffers, CSPRNG seeds —
// so that a secret does not outlive the operation that needed it.
//
// The loop form (rather than a single bulk clear) discourages the compiler
// from eliding the write when it can prove b is otherwise unused; callers
// still must not let a last reference escape through an uninspected copy.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroUint64 overwrites w with zeroes, for key-schedule and state buffers
// kept as []uint64 rather than []byte.
func ZeroUint64(w []uint64) {
	for i := range w {
		w[i] = 0
	}
}

// Equal reports whether a and b hold the same bytes, in time that does not
// depend on where they first differ. Every MAC verification in this module
// must go through Equal rather than bytes.Equal or ==.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
