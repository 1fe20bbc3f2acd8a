// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package dragonfly

import (
	"errors"

	"github.com/dfcrypt/dragonfly/mhkdf"
)

// Error kinds returned by Encrypt, Decrypt, Inspect, and their file-backed
// wrappers. None of these are ever panicked; every failure path is a
// returned error so callers can zeroize and clean up deterministically.
var (
	// ErrAllocFailure reports that the memory-hard KDF declined to
	// allocate the graph a requested g_high would require.
	ErrAllocFailure = errors.New("dragonfly: graph allocation failed")
	// ErrBadFormat reports that the input is too small, carries the
	// wrong identifier, or otherwise fails header sanity checks.
	ErrBadFormat = errors.New("dragonfly: not a recognizable container")
	// ErrAuthFailed reports that MAC verification failed: wrong
	// password, corruption, or tampering. It never indicates which.
	ErrAuthFailed = errors.New("dragonfly: authentication failed")
	// ErrIOError reports an underlying file, memory-map, or entropy-read
	// failure. The underlying error itself is not wrapped.
	ErrIOError = errors.New("dragonfly: i/o error")
	// ErrBadParams reports an impossible parameter combination, e.g.
	// g_low > g_high or lambda == 0.
	ErrBadParams = errors.New("dragonfly: invalid parameters")
)

// mapMHKDFErr translates mhkdf's narrower error set onto the container's
// error kinds at the package boundary.
func mapMHKDFErr(err error) error {
	switch {
	case errors.Is(err, mhkdf.ErrGraphAlloc):
		return ErrAllocFailure
	case errors.Is(err, mhkdf.ErrBadParams):
		return ErrBadParams
	default:
		return err
	}
}
