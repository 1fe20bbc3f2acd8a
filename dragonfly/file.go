// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package dragonfly

import (
	"fmt"
	"os"
)

// EncryptFile reads inputPath, encrypts it into a new Dragonfly v1
// container, and writes the result to outputPath. On any error it
// removes a partially-written outputPath before returning.
func EncryptFile(inputPath, outputPath string, params Params, opts ...Option) error {
	coll := defaultCollaborators()
	for _, opt := range opts {
		opt(&coll)
	}

	in, err := coll.mapper.Map(inputPath, false, 0)
	if err != nil {
		return fmt.Errorf("dragonfly: %w", ErrIOError)
	}
	defer in.Unmap()
	defer in.Close()

	container, err := Encrypt(in.Bytes(), params, opts...)
	if err != nil {
		return err
	}

	out, err := coll.mapper.Map(outputPath, true, int64(len(container)))
	if err != nil {
		return fmt.Errorf("dragonfly: %w", ErrIOError)
	}
	copy(out.Bytes(), container)
	if err := out.Sync(); err != nil {
		out.Unmap()
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("dragonfly: %w", ErrIOError)
	}
	if err := out.Unmap(); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("dragonfly: %w", ErrIOError)
	}
	return out.Close()
}

// DecryptFile reads the Dragonfly v1 container at inputPath, verifies
// and decrypts it, and writes the recovered plaintext to outputPath. On
// any error — including authentication failure — it removes a
// partially-written outputPath before returning.
func DecryptFile(inputPath, outputPath string, opts ...Option) error {
	coll := defaultCollaborators()
	for _, opt := range opts {
		opt(&coll)
	}

	in, err := coll.mapper.Map(inputPath, false, 0)
	if err != nil {
		return fmt.Errorf("dragonfly: %w", ErrIOError)
	}
	defer in.Unmap()
	defer in.Close()

	plaintext, err := Decrypt(in.Bytes(), opts...)
	if err != nil {
		os.Remove(outputPath)
		return err
	}

	out, err := coll.mapper.Map(outputPath, true, int64(len(plaintext)))
	if err != nil {
		return fmt.Errorf("dragonfly: %w", ErrIOError)
	}
	copy(out.Bytes(), plaintext)
	if err := out.Sync(); err != nil {
		out.Unmap()
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("dragonfly: %w", ErrIOError)
	}
	if err := out.Unmap(); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("dragonfly: %w", ErrIOError)
	}
	return out.Close()
}

// InspectFile parses the header and trailing MAC of the container at
// path without decrypting it and without requesting a password.
func InspectFile(path string, opts ...Option) (Header, error) {
	coll := defaultCollaborators()
	for _, opt := range opts {
		opt(&coll)
	}
	in, err := coll.mapper.Map(path, false, 0)
	if err != nil {
		return Header{}, fmt.Errorf("dragonfly: %w", ErrIOError)
	}
	defer in.Unmap()
	defer in.Close()
	return Inspect(in.Bytes())
}
