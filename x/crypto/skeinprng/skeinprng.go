// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package skeinprng

import (
	"crypto/rand"
	"fmt"

	"github.com/dfcrypt/dragonfly/internal/secure"
	"github.com/dfcrypt/dragonfly/skein"
)

// StateBytes is the width of the generator's internal state, fixed at
// Skein-512.
const StateBytes = 64

// EntropySource supplies operating-system entropy for OSReseed. The
// default is crypto/rand.Reader.
type EntropySource interface {
	Read(p []byte) (int, error)
}

// Generator is a Skein-512-backed CSPRNG. The zero value is not usable;
// construct one with New.
type Generator struct {
	state   []byte
	entropy EntropySource
	hasher  *skein.Hasher
}

// New builds a Generator seeded from cfg.SeedBytes of operating-system
// entropy.
func New(opts ...Option) (*Generator, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	g := &Generator{
		state:   make([]byte, StateBytes),
		entropy: rand.Reader,
		hasher:  skein.New512(),
	}
	if err := g.OSReseed(cfg.SeedBytes); err != nil {
		return nil, err
	}
	return g, nil
}

// NewFromSeed builds a Generator seeded deterministically from seed,
// bypassing OS entropy entirely. Used where the caller is itself the
// entropy source (e.g. tests, or KATs).
func NewFromSeed(seed []byte) *Generator {
	g := &Generator{
		state:   make([]byte, StateBytes),
		entropy: rand.Reader,
		hasher:  skein.New512(),
	}
	g.Reseed(seed)
	return g
}

// WithEntropySource overrides the generator's OS-entropy source; intended
// for tests that need deterministic OSReseed behavior.
func (g *Generator) WithEntropySource(src EntropySource) *Generator {
	g.entropy = src
	return g
}

// Reseed mixes seed into the generator's state: it hashes state‖seed with
// Skein's fast native path and keeps the result as the new state.
func (g *Generator) Reseed(seed []byte) {
	buf := make([]byte, len(g.state)+len(seed))
	copy(buf, g.state)
	copy(buf[len(g.state):], seed)
	next := g.hasher.HashNative(buf)
	copy(g.state, next)
	secure.Zero(buf)
	secure.Zero(next)
}

// OSReseed mixes seedBytes of operating-system entropy into the
// generator's state.
func (g *Generator) OSReseed(seedBytes int) error {
	seed := make([]byte, seedBytes)
	if _, err := g.entropy.Read(seed); err != nil {
		return fmt.Errorf("skeinprng: reading entropy: %w", err)
	}
	g.Reseed(seed)
	secure.Zero(seed)
	return nil
}

// Get writes len(out) pseudo-random bytes into out and advances the
// generator's internal state so the same bytes are never produced twice.
func (g *Generator) Get(out []byte) {
	buf := g.hasher.Hash(g.state, StateBytes+len(out))
	copy(g.state, buf[:StateBytes])
	copy(out, buf[StateBytes:])
	secure.Zero(buf)
}

// Close zeroizes the generator's internal state. A Generator must not be
// used again after Close.
func (g *Generator) Close() {
	secure.Zero(g.state)
}
