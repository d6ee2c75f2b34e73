// Package fuseview exposes a kernel vfs.Facade tree as a FUSE filesystem,
// letting a host OS mount and browse the kernel's own filesystem for
// inspection and testing. Grounded on pkg/fs's CamliFileSystem/roDir/roFile
// trio, adapted from perkeep's read-only blob tree to a read-write view
// over vfs.Facade and to bazil.org/fuse's modern context.Context-based
// fs.Node/fs.Handle interfaces.
package fuseview

import (
	"context"
	"os"
	"sync"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"visopsys.dev/kernel/kernel/vfs"
)

// FS roots a FUSE tree at a Facade directory.
type FS struct {
	facade *vfs.Facade
	root   string
}

// New returns a FUSE filesystem rooted at root within facade.
func New(facade *vfs.Facade, root string) *FS {
	return &FS{facade: facade, root: root}
}

var _ fusefs.FS = (*FS)(nil)

func (f *FS) Root() (fusefs.Node, error) {
	file, err := f.facade.Find(f.root)
	if err != nil {
		return nil, fuse.ENOENT
	}
	return &node{fs: f, path: f.root, file: file}, nil
}

// node is a file or directory within the mounted tree. Grounded on
// pkg/fs/ro.go's roDir/roFile pair, unified here because vfs.File already
// carries a Type discriminator.
type node struct {
	fs   *FS
	path string

	mu   sync.Mutex
	file vfs.File
}

var (
	_ fusefs.Node               = (*node)(nil)
	_ fusefs.NodeStringLookuper = (*node)(nil)
	_ fusefs.HandleReadDirAller = (*node)(nil)
	_ fusefs.NodeOpener         = (*node)(nil)
	_ fusefs.NodeCreater        = (*node)(nil)
	_ fusefs.NodeMkdirer        = (*node)(nil)
	_ fusefs.NodeRemover        = (*node)(nil)
)

func (n *node) refresh() error {
	file, err := n.fs.facade.Find(n.path)
	if err != nil {
		return err
	}
	n.mu.Lock()
	n.file = file
	n.mu.Unlock()
	return nil
}

func (n *node) Attr(ctx context.Context, a *fuse.Attr) error {
	if err := n.refresh(); err != nil {
		return fuse.ENOENT
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	a.Size = uint64(n.file.Size)
	a.Mtime = n.file.Modified
	a.Ctime = n.file.Created
	a.Crtime = n.file.Created
	switch n.file.Type {
	case vfs.TypeDir:
		a.Mode = os.ModeDir | 0755
	case vfs.TypeLink:
		a.Mode = os.ModeSymlink | 0777
	default:
		a.Mode = 0644
	}
	return nil
}

func childPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

func (n *node) Lookup(ctx context.Context, name string) (fusefs.Node, error) {
	file, err := n.fs.facade.Find(childPath(n.path, name))
	if err != nil {
		return nil, fuse.ENOENT
	}
	return &node{fs: n.fs, path: childPath(n.path, name), file: file}, nil
}

func direntFor(entry vfs.File) fuse.Dirent {
	typ := fuse.DT_File
	if entry.Type == vfs.TypeDir {
		typ = fuse.DT_Dir
	}
	return fuse.Dirent{Name: entry.Name, Type: typ}
}

func (n *node) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	it, first, err := n.fs.facade.First(n.path)
	if err == vfs.ErrNoSuchEntry {
		return nil, nil
	}
	if err != nil {
		return nil, fuse.EIO
	}
	ents := []fuse.Dirent{direntFor(first)}
	for {
		entry, err := it.Next()
		if err != nil {
			break
		}
		ents = append(ents, direntFor(entry))
	}
	return ents, nil
}

// handle is an open file, backed by a vfs.Stream the way roFile.Open wraps
// a schema.FileReader.
type handle struct {
	stream *vfs.Stream
}

var (
	_ fusefs.Handle       = (*handle)(nil)
	_ fusefs.HandleReader = (*handle)(nil)
	_ fusefs.HandleWriter = (*handle)(nil)
	_ fusefs.HandleFlusher = (*handle)(nil)
	_ fusefs.HandleReleaser = (*handle)(nil)
)

func openModeFor(req *fuse.OpenRequest) vfs.OpenMode {
	switch {
	case req.Flags.IsReadWrite():
		return vfs.ModeReadWrite
	case req.Flags.IsWriteOnly():
		return vfs.ModeWrite
	default:
		return vfs.ModeRead
	}
}

func (n *node) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	stream, err := n.fs.facade.StreamOpen(n.path, openModeFor(req))
	if err != nil {
		return nil, fuse.EIO
	}
	return &handle{stream: stream}, nil
}

func (h *handle) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	if err := h.stream.StreamSeek(req.Offset); err != nil {
		return fuse.EIO
	}
	buf := make([]byte, req.Size)
	n, err := h.stream.StreamRead(buf)
	if err != nil && n == 0 {
		return fuse.EIO
	}
	resp.Data = buf[:n]
	return nil
}

func (h *handle) Write(ctx context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	if err := h.stream.StreamSeek(req.Offset); err != nil {
		return fuse.EIO
	}
	n, err := h.stream.StreamWrite(req.Data)
	if err != nil {
		return fuse.EIO
	}
	resp.Size = n
	return nil
}

func (h *handle) Flush(ctx context.Context, req *fuse.FlushRequest) error {
	if err := h.stream.StreamFlush(); err != nil {
		return fuse.EIO
	}
	return nil
}

func (h *handle) Release(ctx context.Context, req *fuse.ReleaseRequest) error {
	return h.stream.StreamClose()
}

func (n *node) Create(ctx context.Context, req *fuse.CreateRequest, resp *fuse.CreateResponse) (fusefs.Node, fusefs.Handle, error) {
	path := childPath(n.path, req.Name)
	stream, err := n.fs.facade.StreamOpen(path, vfs.ModeReadWrite|vfs.ModeCreate)
	if err != nil {
		return nil, nil, fuse.EIO
	}
	file, err := n.fs.facade.Find(path)
	if err != nil {
		return nil, nil, fuse.EIO
	}
	child := &node{fs: n.fs, path: path, file: file}
	return child, &handle{stream: stream}, nil
}

func (n *node) Mkdir(ctx context.Context, req *fuse.MkdirRequest) (fusefs.Node, error) {
	path := childPath(n.path, req.Name)
	if err := n.fs.facade.MakeDir(path); err != nil {
		return nil, fuse.EIO
	}
	file, err := n.fs.facade.Find(path)
	if err != nil {
		return nil, fuse.EIO
	}
	return &node{fs: n.fs, path: path, file: file}, nil
}

func (n *node) Remove(ctx context.Context, req *fuse.RemoveRequest) error {
	path := childPath(n.path, req.Name)
	if req.Dir {
		if err := n.fs.facade.RemoveDir(path); err != nil {
			return fuse.EIO
		}
		return nil
	}
	if err := n.fs.facade.Delete(path); err != nil {
		return fuse.EIO
	}
	return nil
}

// Mount blocks serving facade's tree rooted at root at mountPoint until the
// filesystem is unmounted or ctx is cancelled, following the Mount/Serve
// pairing pk-mount's main() uses.
func Mount(ctx context.Context, facade *vfs.Facade, root, mountPoint string) error {
	conn, err := fuse.Mount(mountPoint, fuse.FSName("visopsys"), fuse.Subtype("kernelfs"))
	if err != nil {
		return err
	}
	defer conn.Close()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- fusefs.Serve(conn, New(facade, root))
	}()

	select {
	case <-ctx.Done():
		fuse.Unmount(mountPoint)
		<-serveErr
		return ctx.Err()
	case err := <-serveErr:
		return err
	}
}
