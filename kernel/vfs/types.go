package vfs

import (
	"errors"
	"time"
)

var (
	ErrNoSuchFile  = errors.New("vfs: no such file")
	ErrNoSuchEntry = errors.New("vfs: no such entry")
	ErrNoWrite     = errors.New("vfs: filesystem is read-only")
	ErrExists      = errors.New("vfs: already exists")
	ErrNotDir      = errors.New("vfs: not a directory")
	ErrIsDir       = errors.New("vfs: is a directory")
)

// FileType classifies a directory entry (§4.I's File.type).
type FileType int

const (
	TypeFile FileType = iota
	TypeDir
	TypeLink
)

// OpenMode is a bitmask combinable by OR, mirroring §4.I's
// {READ, WRITE, READWRITE, CREATE, TRUNCATE, APPEND}.
type OpenMode int

const (
	ModeRead OpenMode = 1 << iota
	ModeWrite
	ModeCreate
	ModeTruncate
	ModeAppend
)

// ModeReadWrite is the OR of ModeRead and ModeWrite, named directly
// because the spec names it as its own combined mode.
const ModeReadWrite = ModeRead | ModeWrite

// File is the facade's directory-entry/handle descriptor (§4.I).
type File struct {
	Name       string
	Type       FileType
	Size       int64
	BlockSize  int
	BlockCount int64
	Created    time.Time
	Modified   time.Time
	handle     string // the driver's opaque path key, not exposed further
}

// writable reports whether mode includes a write intent.
func (m OpenMode) writable() bool {
	return m&(ModeWrite|ModeCreate|ModeTruncate|ModeAppend) != 0
}
