package vfs

import "time"

// Driver is the block-level contract a concrete filesystem (FAT, ext2, an
// in-memory test fixture, ...) implements; the Facade in facade.go is built
// entirely on top of this interface, the way pkg/blobserver's handlers are
// all built on top of the blobserver.Storage contract.
type Driver interface {
	// BlockSize is the fixed block size this driver transfers in.
	BlockSize() int
	// ReadOnly reports whether the underlying medium rejects writes.
	ReadOnly() bool

	// Stat populates a File for path, or returns ErrNoSuchFile.
	Stat(path string) (File, error)

	// ReadDir returns the directory's entries in the driver's natural,
	// stable order. A non-existent directory returns ErrNoSuchFile; an
	// existing, empty one returns an empty, nil-error slice (§4.I leaves
	// the empty-vs-absent distinction to First, not ReadDir, so ReadDir
	// itself never returns ErrNoSuchEntry).
	ReadDir(path string) ([]File, error)

	// Open resolves path under mode, creating it first if the mode
	// requires it and it is absent. It returns the File descriptor ready
	// for ReadBlocks/WriteBlocks.
	Open(path string, mode OpenMode) (File, error)

	ReadBlocks(path string, startBlock, count int64, buf []byte) (int64, error)
	WriteBlocks(path string, startBlock, count int64, buf []byte) (int64, error)

	// SetSize corrects a file's logical byte length independent of its
	// block-rounded storage footprint, the way the stream layer's
	// byte-granular writes need to (§4.I: the stream layer sits "on top of
	// the block interface").
	SetSize(path string, size int64) error

	Delete(path string) error
	MakeDir(path string) error
	RemoveDir(path string) error
	SetTimestamp(path string, t time.Time) error
}
