// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package skeinprng

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEntropy struct{ b byte }

func (f *fakeEntropy) Read(p []byte) (int, error) {
	for i := range p {
		f.b++
		p[i] = f.b
	}
	return len(p), nil
}

func TestNewFromSeedDeterministic(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	seed := bytes.Repeat([]byte{0x42}, StateBytes)
	g1 := NewFromSeed(seed)
	g2 := NewFromSeed(append([]byte(nil), seed...))

	out1 := make([]byte, 32)
	out2 := make([]byte, 32)
	g1.Get(out1)
	g2.Get(out2)

	is.Equal(out1, out2)
}

func TestGetAdvancesState(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	g := NewFromSeed(bytes.Repeat([]byte{0x01}, StateBytes))
	a := make([]byte, 32)
	b := make([]byte, 32)
	g.Get(a)
	g.Get(b)

	is.NotEqual(a, b, "successive Get calls must not repeat output")
}

func TestReseedChangesOutput(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	g1 := NewFromSeed(bytes.Repeat([]byte{0x01}, StateBytes))
	g2 := NewFromSeed(bytes.Repeat([]byte{0x01}, StateBytes))
	g2.Reseed([]byte("extra entropy"))

	out1 := make([]byte, 32)
	out2 := make([]byte, 32)
	g1.Get(out1)
	g2.Get(out2)

	is.NotEqual(out1, out2)
}

func TestOSReseedUsesConfiguredEntropySource(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	g, err := New()
	is.NoError(err)
	g.WithEntropySource(&fakeEntropy{})

	before := make([]byte, 32)
	g.Get(before)

	// A twin holding the same state, reseeded directly with the bytes the
	// fake source yields, must end up where OSReseed leaves g.
	twin := NewFromSeed(nil)
	copy(twin.state, g.state)
	drawn := make([]byte, 64)
	_, _ = (&fakeEntropy{}).Read(drawn)
	twin.Reseed(drawn)

	is.NoError(g.OSReseed(64))

	after := make([]byte, 32)
	g.Get(after)
	expected := make([]byte, 32)
	twin.Get(expected)

	is.NotEqual(before, after)
	is.Equal(expected, after)
}

func TestCloseZeroizesState(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	g := NewFromSeed(bytes.Repeat([]byte{0xFF}, StateBytes))
	g.Close()

	is.Equal(bytes.Repeat([]byte{0x00}, StateBytes), g.state)
}

func TestWithSeedBytesOption(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	cfg := DefaultConfig()
	WithSeedBytes(128)(&cfg)
	is.Equal(128, cfg.SeedBytes)
}
