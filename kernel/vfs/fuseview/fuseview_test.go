package fuseview

import (
	"context"
	"testing"

	"bazil.org/fuse"

	"visopsys.dev/kernel/kernel/vfs"
)

func newFacade(t *testing.T) *vfs.Facade {
	t.Helper()
	return vfs.NewFacade(vfs.NewMemDriver(512, false))
}

func TestRootAndLookup(t *testing.T) {
	facade := newFacade(t)
	if err := facade.MakeDir("/docs"); err != nil {
		t.Fatalf("MakeDir: %v", err)
	}

	fs := New(facade, "/")
	root, err := fs.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}

	n := root.(*node)
	child, err := n.Lookup(context.Background(), "docs")
	if err != nil {
		t.Fatalf("Lookup(docs): %v", err)
	}
	cn := child.(*node)
	if cn.path != "/docs" {
		t.Fatalf("Lookup path = %q, want /docs", cn.path)
	}
}

func TestLookupMissingIsENOENT(t *testing.T) {
	facade := newFacade(t)
	fs := New(facade, "/")
	root, _ := fs.Root()
	n := root.(*node)
	if _, err := n.Lookup(context.Background(), "missing"); err != fuse.ENOENT {
		t.Fatalf("Lookup(missing) = %v, want ENOENT", err)
	}
}

func TestReadDirAllListsEntries(t *testing.T) {
	facade := newFacade(t)
	if err := facade.MakeDir("/a"); err != nil {
		t.Fatalf("MakeDir(a): %v", err)
	}
	if err := facade.MakeDir("/b"); err != nil {
		t.Fatalf("MakeDir(b): %v", err)
	}

	fs := New(facade, "/")
	root, _ := fs.Root()
	n := root.(*node)
	ents, err := n.ReadDirAll(context.Background())
	if err != nil {
		t.Fatalf("ReadDirAll: %v", err)
	}
	if len(ents) != 2 {
		t.Fatalf("ReadDirAll returned %d entries, want 2", len(ents))
	}
}

func TestReadDirAllEmptyDirReturnsNoEntries(t *testing.T) {
	facade := newFacade(t)
	if err := facade.MakeDir("/empty"); err != nil {
		t.Fatalf("MakeDir: %v", err)
	}

	fs := New(facade, "/")
	root, _ := fs.Root()
	n := root.(*node)
	child, err := n.Lookup(context.Background(), "empty")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	ents, err := child.(*node).ReadDirAll(context.Background())
	if err != nil {
		t.Fatalf("ReadDirAll: %v", err)
	}
	if len(ents) != 0 {
		t.Fatalf("ReadDirAll = %d entries, want 0", len(ents))
	}
}

func TestCreateWriteAndRead(t *testing.T) {
	facade := newFacade(t)
	fs := New(facade, "/")
	root, _ := fs.Root()
	n := root.(*node)

	_, h, err := n.Create(context.Background(), &fuse.CreateRequest{Name: "file.txt"}, &fuse.CreateResponse{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	hd := h.(*handle)

	wreq := &fuse.WriteRequest{Data: []byte("hello")}
	wresp := &fuse.WriteResponse{}
	if err := hd.Write(context.Background(), wreq, wresp); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if wresp.Size != 5 {
		t.Fatalf("Write size = %d, want 5", wresp.Size)
	}

	rreq := &fuse.ReadRequest{Offset: 0, Size: 5}
	rresp := &fuse.ReadResponse{}
	if err := hd.Read(context.Background(), rreq, rresp); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(rresp.Data) != "hello" {
		t.Fatalf("Read data = %q, want hello", rresp.Data)
	}
}

func TestMkdirAndRemove(t *testing.T) {
	facade := newFacade(t)
	fs := New(facade, "/")
	root, _ := fs.Root()
	n := root.(*node)

	child, err := n.Mkdir(context.Background(), &fuse.MkdirRequest{Name: "sub"})
	if err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if child.(*node).path != "/sub" {
		t.Fatalf("Mkdir path = %q, want /sub", child.(*node).path)
	}

	if err := n.Remove(context.Background(), &fuse.RemoveRequest{Name: "sub", Dir: true}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := n.Lookup(context.Background(), "sub"); err != fuse.ENOENT {
		t.Fatalf("Lookup after Remove = %v, want ENOENT", err)
	}
}
