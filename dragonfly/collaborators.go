// Copyright (c) 2026 dfcrypt Contributors
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package dragonfly

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/dfcrypt/dragonfly/internal/secure"
)

// EntropySource supplies operating-system randomness used to seed the
// encrypt path's CSPRNG, and optionally to supplement it. The default is
// crypto/rand.Reader.
type EntropySource interface {
	Read(p []byte) (int, error)
}

// PasswordPrompter obtains a password from outside the core. Obtain reads
// a password once; when confirm is true it re-prompts and returns an
// error if the two entries disagree, mirroring the reference's
// obtain-and-confirm flow used on the encrypt path (decrypt never
// confirms).
type PasswordPrompter interface {
	Obtain(confirm bool) ([]byte, error)
}

// MemoryLocker wraps an address range to discourage the OS from paging
// secret buffers to swap. Locking is best-effort: a Locker whose Lock
// fails is expected to have the caller proceed anyway, per the core's
// degrade-gracefully policy.
type MemoryLocker interface {
	Lock(b []byte) error
	Unlock(b []byte) error
}

// FileMapper memory-maps the files EncryptFile/DecryptFile/InspectFile
// operate on.
type FileMapper interface {
	// Map opens path (creating it when writable and it does not exist),
	// sizes it to size bytes when writable, and returns a live mapping.
	Map(path string, writable bool, size int64) (MappedFile, error)
}

// MappedFile is a memory-mapped file region plus the handful of
// lifecycle operations the container format needs around it.
type MappedFile interface {
	Bytes() []byte
	SetSize(size int64) error
	Sync() error
	Unmap() error
	Close() error
}

type osEntropySource struct{}

func (osEntropySource) Read(p []byte) (int, error) { return rand.Read(p) }

// termPasswordPrompter prompts on the controlling terminal via
// golang.org/x/term, echo disabled.
type termPasswordPrompter struct {
	prompt string
}

func (t termPasswordPrompter) Obtain(confirm bool) ([]byte, error) {
	fmt.Fprint(os.Stderr, t.prompt, ": ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("dragonfly: reading password: %w", err)
	}
	if !confirm {
		return first, nil
	}
	fmt.Fprint(os.Stderr, "Confirm ", t.prompt, ": ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		secure.Zero(first)
		return nil, fmt.Errorf("dragonfly: reading password confirmation: %w", err)
	}
	if !secure.Equal(first, second) {
		secure.Zero(first)
		secure.Zero(second)
		return nil, fmt.Errorf("dragonfly: password confirmation mismatch")
	}
	secure.Zero(second)
	return first, nil
}

// unixMemoryLocker locks secret pages with mlock(2)/munlock(2). Failures
// are returned to the caller, who may choose to proceed regardless.
type unixMemoryLocker struct{}

func (unixMemoryLocker) Lock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Mlock(b)
}

func (unixMemoryLocker) Unlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munlock(b)
}

// mmapFileMapper memory-maps files with github.com/edsrzf/mmap-go.
type mmapFileMapper struct{}

func (mmapFileMapper) Map(path string, writable bool, size int64) (MappedFile, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR | os.O_CREATE
	}
	f, err := os.OpenFile(path, flag, 0600)
	if err != nil {
		return nil, fmt.Errorf("dragonfly: opening %s: %w", path, err)
	}
	if writable {
		if err := f.Truncate(size); err != nil {
			f.Close()
			os.Remove(path)
			return nil, fmt.Errorf("dragonfly: sizing %s: %w", path, err)
		}
	}
	mode := mmap.RDONLY
	if writable {
		mode = mmap.RDWR
	}
	m, err := mmap.Map(f, mode, 0)
	if err != nil {
		f.Close()
		if writable {
			os.Remove(path)
		}
		return nil, fmt.Errorf("dragonfly: mapping %s: %w", path, err)
	}
	return &mmapFile{f: f, m: m, path: path, writable: writable}, nil
}

type mmapFile struct {
	f        *os.File
	m        mmap.MMap
	path     string
	writable bool
}

func (mf *mmapFile) Bytes() []byte { return mf.m }

func (mf *mmapFile) SetSize(size int64) error {
	if err := mf.m.Unmap(); err != nil {
		return err
	}
	if err := mf.f.Truncate(size); err != nil {
		return err
	}
	mode := mmap.RDONLY
	if mf.writable {
		mode = mmap.RDWR
	}
	m, err := mmap.Map(mf.f, mode, 0)
	if err != nil {
		return err
	}
	mf.m = m
	return nil
}

func (mf *mmapFile) Sync() error { return mf.m.Flush() }

func (mf *mmapFile) Unmap() error {
	if mf.m == nil {
		return nil
	}
	err := mf.m.Unmap()
	mf.m = nil
	return err
}

func (mf *mmapFile) Close() error { return mf.f.Close() }

// Option customizes the collaborators Encrypt, Decrypt, Inspect, and the
// file-backed wrappers use in place of their OS-facing defaults.
type Option func(*collaborators)

type collaborators struct {
	entropy  EntropySource
	prompter PasswordPrompter
	locker   MemoryLocker
	mapper   FileMapper
	password []byte // pre-supplied password; bypasses prompter when set
}

func defaultCollaborators() collaborators {
	return collaborators{
		entropy:  osEntropySource{},
		prompter: termPasswordPrompter{prompt: "Password"},
		locker:   unixMemoryLocker{},
		mapper:   mmapFileMapper{},
	}
}

// WithEntropySource overrides the OS entropy source used to seed (and
// optionally supplement) the encrypt path's CSPRNG.
func WithEntropySource(src EntropySource) Option {
	return func(c *collaborators) { c.entropy = src }
}

// WithPasswordPrompter overrides how the password is obtained.
func WithPasswordPrompter(p PasswordPrompter) Option {
	return func(c *collaborators) { c.prompter = p }
}

// WithPassword supplies the password directly, bypassing the prompter
// entirely. The caller retains ownership of password's backing array
// until the call returns; the core zeroizes its own copy, not the
// caller's.
func WithPassword(password []byte) Option {
	return func(c *collaborators) { c.password = password }
}

// WithMemoryLocker overrides the memory-locking collaborator.
func WithMemoryLocker(l MemoryLocker) Option {
	return func(c *collaborators) { c.locker = l }
}

// WithFileMapper overrides how EncryptFile/DecryptFile/InspectFile map
// their files.
func WithFileMapper(m FileMapper) Option {
	return func(c *collaborators) { c.mapper = m }
}

func (c *collaborators) obtainPassword(confirm bool) ([]byte, error) {
	if c.password != nil {
		out := append([]byte(nil), c.password...)
		return out, nil
	}
	return c.prompter.Obtain(confirm)
}
