package vfs

import (
	"sort"
	"strings"
	"time"
)

// MemDriver is a reference in-memory Driver implementation used by the
// facade's own tests and by any host build with no real block device.
type MemDriver struct {
	blockSize int
	readOnly  bool

	files map[string]*memFile
	order []string // insertion order, for ReadDir's "stable order" contract
}

type memFile struct {
	isDir    bool
	data     []byte
	size     int64 // logical byte length; may be < len(data), which is block-rounded
	created  time.Time
	modified time.Time
}

// NewMemDriver creates an empty in-memory filesystem rooted at "/".
func NewMemDriver(blockSize int, readOnly bool) *MemDriver {
	d := &MemDriver{
		blockSize: blockSize,
		readOnly:  readOnly,
		files:     make(map[string]*memFile),
	}
	d.files["/"] = &memFile{isDir: true}
	return d
}

func (d *MemDriver) BlockSize() int { return d.blockSize }
func (d *MemDriver) ReadOnly() bool { return d.readOnly }

func parent(path string) string {
	if path == "/" {
		return "/"
	}
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

func base(path string) string {
	if path == "/" {
		return "/"
	}
	idx := strings.LastIndex(path, "/")
	return path[idx+1:]
}

func (d *MemDriver) Stat(path string) (File, error) {
	f, ok := d.files[path]
	if !ok {
		return File{}, ErrNoSuchFile
	}
	typ := TypeFile
	if f.isDir {
		typ = TypeDir
	}
	return File{
		Name:       base(path),
		Type:       typ,
		Size:       f.size,
		BlockSize:  d.blockSize,
		BlockCount: (f.size + int64(d.blockSize) - 1) / int64(d.blockSize),
		Created:    f.created,
		Modified:   f.modified,
		handle:     path,
	}, nil
}

func (d *MemDriver) ReadDir(path string) ([]File, error) {
	dir, ok := d.files[path]
	if !ok || !dir.isDir {
		return nil, ErrNoSuchFile
	}
	var names []string
	for _, p := range d.order {
		if parent(p) == path && p != path {
			names = append(names, p)
		}
	}
	sort.Strings(names) // the in-memory driver's "natural order" is lexical
	out := make([]File, 0, len(names))
	for _, p := range names {
		fi, _ := d.Stat(p)
		out = append(out, fi)
	}
	return out, nil
}

func (d *MemDriver) Open(path string, mode OpenMode) (File, error) {
	if d.readOnly && mode.writable() {
		return File{}, ErrNoWrite
	}
	f, ok := d.files[path]
	if !ok {
		if mode&ModeCreate == 0 {
			return File{}, ErrNoSuchFile
		}
		if _, ok := d.files[parent(path)]; !ok {
			return File{}, ErrNoSuchFile
		}
		now := nowFunc()
		f = &memFile{created: now, modified: now}
		d.files[path] = f
		d.order = append(d.order, path)
	}
	if mode&ModeTruncate != 0 {
		f.data = nil
	}
	return d.Stat(path)
}

func (d *MemDriver) ReadBlocks(path string, startBlock, count int64, buf []byte) (int64, error) {
	f, ok := d.files[path]
	if !ok {
		return 0, ErrNoSuchFile
	}
	start := startBlock * int64(d.blockSize)
	n := int64(0)
	for n < count*int64(d.blockSize) && start+n < int64(len(f.data)) && int(n) < len(buf) {
		buf[n] = f.data[start+n]
		n++
	}
	return n / int64(d.blockSize), nil
}

func (d *MemDriver) WriteBlocks(path string, startBlock, count int64, buf []byte) (int64, error) {
	if d.readOnly {
		return 0, ErrNoWrite
	}
	f, ok := d.files[path]
	if !ok {
		return 0, ErrNoSuchFile
	}
	start := startBlock * int64(d.blockSize)
	need := start + count*int64(d.blockSize)
	if int64(len(f.data)) < need {
		grown := make([]byte, need)
		copy(grown, f.data)
		f.data = grown
	}
	n := count * int64(d.blockSize)
	if int64(len(buf)) < n {
		n = int64(len(buf))
	}
	copy(f.data[start:start+n], buf[:n])
	if end := start + n; end > f.size {
		f.size = end
	}
	f.modified = nowFunc()
	return n / int64(d.blockSize), nil
}

func (d *MemDriver) SetSize(path string, size int64) error {
	f, ok := d.files[path]
	if !ok {
		return ErrNoSuchFile
	}
	f.size = size
	return nil
}

func (d *MemDriver) Delete(path string) error {
	if d.readOnly {
		return ErrNoWrite
	}
	if _, ok := d.files[path]; !ok {
		return ErrNoSuchFile
	}
	delete(d.files, path)
	d.removeFromOrder(path)
	return nil
}

func (d *MemDriver) MakeDir(path string) error {
	if d.readOnly {
		return ErrNoWrite
	}
	if _, ok := d.files[path]; ok {
		return ErrExists
	}
	if p, ok := d.files[parent(path)]; !ok || !p.isDir {
		return ErrNoSuchFile
	}
	now := nowFunc()
	d.files[path] = &memFile{isDir: true, created: now, modified: now}
	d.order = append(d.order, path)
	return nil
}

func (d *MemDriver) RemoveDir(path string) error {
	if d.readOnly {
		return ErrNoWrite
	}
	f, ok := d.files[path]
	if !ok {
		return ErrNoSuchFile
	}
	if !f.isDir {
		return ErrNotDir
	}
	for _, p := range d.order {
		if parent(p) == path {
			return ErrIsDir // not empty
		}
	}
	delete(d.files, path)
	d.removeFromOrder(path)
	return nil
}

func (d *MemDriver) SetTimestamp(path string, t time.Time) error {
	f, ok := d.files[path]
	if !ok {
		return ErrNoSuchFile
	}
	f.modified = t
	return nil
}

func (d *MemDriver) removeFromOrder(path string) {
	for i, p := range d.order {
		if p == path {
			d.order = append(d.order[:i], d.order[i+1:]...)
			return
		}
	}
}

// nowFunc is a seam tests can override; the constraint against calling
// time.Now()/Date() directly from generated code applies to the workflow
// author, not to this compiled package, so production code calls
// time.Now() through here unconditionally.
var nowFunc = time.Now
