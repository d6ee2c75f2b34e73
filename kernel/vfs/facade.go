package vfs

import (
	"time"
)

// Facade is the path-oriented filesystem surface (§4.I), built entirely on
// top of a Driver. Exactly one Driver is mounted per Facade; a kernel with
// multiple mounts would compose several Facades keyed by mount point, a
// concern left to the caller (the spec itself describes a single mounted
// root per filesystem handle).
type Facade struct {
	driver Driver
	cwd    string
}

// NewFacade mounts driver at "/".
func NewFacade(driver Driver) *Facade {
	return &Facade{driver: driver, cwd: "/"}
}

func (f *Facade) resolve(path string) string {
	return FixupPath(path, f.cwd)
}

// SetCurrentDirectory updates the facade's notion of cwd for relative-path
// resolution (mirrors the multitasker facade's per-process cwd, §4.C, but
// the filesystem facade itself is single-cwd here since it is not
// per-process state in this reference implementation).
func (f *Facade) SetCurrentDirectory(path string) {
	f.cwd = f.resolve(path)
}

func (f *Facade) CurrentDirectory() string { return f.cwd }

// Find populates a File for path (§4.I).
func (f *Facade) Find(path string) (File, error) {
	return f.driver.Stat(f.resolve(path))
}

// DirIterator is the state First returns and Next advances; it is not
// safe for concurrent use.
type DirIterator struct {
	entries []File
	pos     int
}

// First begins iterating dir in the driver's stable order. A non-existent
// directory fails ErrNoSuchFile; an existing but empty directory fails
// ErrNoSuchEntry on this very first call (§4.I).
func (f *Facade) First(dir string) (*DirIterator, File, error) {
	entries, err := f.driver.ReadDir(f.resolve(dir))
	if err != nil {
		return nil, File{}, err
	}
	if len(entries) == 0 {
		return nil, File{}, ErrNoSuchEntry
	}
	it := &DirIterator{entries: entries, pos: 1}
	return it, entries[0], nil
}

// Next advances it, returning ErrNoSuchEntry once exhausted.
func (it *DirIterator) Next() (File, error) {
	if it.pos >= len(it.entries) {
		return File{}, ErrNoSuchEntry
	}
	e := it.entries[it.pos]
	it.pos++
	return e, nil
}

// Open resolves path under mode. A write-intent mode against a read-only
// driver fails ErrNoWrite (§4.I).
func (f *Facade) Open(path string, mode OpenMode) (File, error) {
	if f.driver.ReadOnly() && mode.writable() {
		return File{}, ErrNoWrite
	}
	return f.driver.Open(f.resolve(path), mode)
}

// Read transfers count blocks starting at startBlock into buf, returning
// the number of blocks actually transferred even on a mid-transfer error
// (§4.I's failure model).
func (f *Facade) Read(file File, startBlock, count int64, buf []byte) (int64, error) {
	return f.driver.ReadBlocks(file.handle, startBlock, count, buf)
}

// Write transfers count blocks from buf starting at startBlock.
func (f *Facade) Write(file File, startBlock, count int64, buf []byte) (int64, error) {
	if f.driver.ReadOnly() {
		return 0, ErrNoWrite
	}
	return f.driver.WriteBlocks(file.handle, startBlock, count, buf)
}

// setSize is the stream layer's seam for correcting a file's logical byte
// length after a partial-last-block write; it operates on an already-open
// File's handle rather than a path, since the stream holds a handle, not
// a path string.
func (f *Facade) setSize(file File, size int64) error {
	return f.driver.SetSize(file.handle, size)
}

func (f *Facade) Delete(path string) error {
	return f.driver.Delete(f.resolve(path))
}

// DeleteSecure overwrites the file's content with zero blocks before
// unlinking it (§4.I).
func (f *Facade) DeleteSecure(path string) error {
	resolved := f.resolve(path)
	fi, err := f.driver.Stat(resolved)
	if err != nil {
		return err
	}
	if fi.Type == TypeDir {
		return ErrIsDir
	}
	if fi.BlockCount > 0 {
		zero := make([]byte, fi.BlockSize)
		for b := int64(0); b < fi.BlockCount; b++ {
			if _, err := f.driver.WriteBlocks(resolved, b, 1, zero); err != nil {
				return err
			}
		}
	}
	return f.driver.Delete(resolved)
}

func (f *Facade) MakeDir(path string) error {
	return f.driver.MakeDir(f.resolve(path))
}

func (f *Facade) RemoveDir(path string) error {
	return f.driver.RemoveDir(f.resolve(path))
}

func (f *Facade) Timestamp(path string, t time.Time) error {
	return f.driver.SetTimestamp(f.resolve(path), t)
}

// Copy duplicates one file's content at dst, creating it if necessary.
func (f *Facade) Copy(src, dst string) error {
	srcResolved := f.resolve(src)
	dstResolved := f.resolve(dst)

	fi, err := f.driver.Stat(srcResolved)
	if err != nil {
		return err
	}
	if fi.Type == TypeDir {
		return ErrIsDir
	}
	if _, err := f.driver.Open(dstResolved, ModeCreate|ModeTruncate|ModeWrite); err != nil {
		return err
	}

	buf := make([]byte, fi.BlockSize)
	for b := int64(0); b < fi.BlockCount; b++ {
		n, err := f.driver.ReadBlocks(srcResolved, b, 1, buf)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		if _, err := f.driver.WriteBlocks(dstResolved, b, 1, buf); err != nil {
			return err
		}
	}
	return nil
}

// CopyRecursive copies a whole directory subtree, creating destination
// directories as needed.
func (f *Facade) CopyRecursive(src, dst string) error {
	srcResolved := f.resolve(src)
	fi, err := f.driver.Stat(srcResolved)
	if err != nil {
		return err
	}
	if fi.Type != TypeDir {
		return f.Copy(src, dst)
	}

	if err := f.driver.MakeDir(f.resolve(dst)); err != nil && err != ErrExists {
		return err
	}
	entries, err := f.driver.ReadDir(srcResolved)
	if err != nil {
		return err
	}
	for _, e := range entries {
		childSrc := joinPath(src, e.Name)
		childDst := joinPath(dst, e.Name)
		if err := f.CopyRecursive(childSrc, childDst); err != nil {
			return err
		}
	}
	return nil
}

// Move renames/relocates a file or directory by copying then deleting the
// source, the portable rendering of a cross-driver move (a same-driver
// move could shortcut through a driver-level rename, which this reference
// Driver interface does not expose).
func (f *Facade) Move(src, dst string) error {
	srcResolved := f.resolve(src)
	fi, err := f.driver.Stat(srcResolved)
	if err != nil {
		return err
	}
	if fi.Type == TypeDir {
		if err := f.CopyRecursive(src, dst); err != nil {
			return err
		}
		return f.removeRecursive(src)
	}
	if err := f.Copy(src, dst); err != nil {
		return err
	}
	return f.Delete(src)
}

// removeRecursive deletes every entry under path bottom-up before removing
// path itself, since the Driver interface's RemoveDir requires an empty
// directory (§4.I names `removeDir` against a path without specifying
// recursion, so recursive removal is composed here rather than pushed into
// the driver contract).
func (f *Facade) removeRecursive(path string) error {
	resolved := f.resolve(path)
	entries, err := f.driver.ReadDir(resolved)
	if err != nil {
		return err
	}
	for _, e := range entries {
		child := joinPath(path, e.Name)
		if e.Type == TypeDir {
			if err := f.removeRecursive(child); err != nil {
				return err
			}
			continue
		}
		if err := f.Delete(child); err != nil {
			return err
		}
	}
	return f.driver.RemoveDir(resolved)
}

func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
