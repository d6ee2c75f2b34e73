package loader

import (
	"testing"

	"visopsys.dev/kernel/kernel/vfs"
)

func newTestLoader(t *testing.T) (*Loader, *vfs.Facade) {
	t.Helper()
	driver := vfs.NewMemDriver(512, false)
	fs := vfs.NewFacade(driver)
	return New(fs, nil), fs
}

func writeFile(t *testing.T, fs *vfs.Facade, path string, data []byte) {
	t.Helper()
	s, err := fs.StreamOpen(path, vfs.ModeWrite|vfs.ModeCreate|vfs.ModeTruncate)
	if err != nil {
		t.Fatalf("StreamOpen: %v", err)
	}
	if _, err := s.StreamWrite(data); err != nil {
		t.Fatalf("StreamWrite: %v", err)
	}
	if err := s.StreamClose(); err != nil {
		t.Fatalf("StreamClose: %v", err)
	}
}

func TestLoadClassifiesText(t *testing.T) {
	l, fs := newTestLoader(t)
	writeFile(t, fs, "/readme.txt", []byte("hello there, this is text\n"))

	lf, err := l.Load("/readme.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lf.Class.ClassName != "text" {
		t.Fatalf("Class = %+v", lf.Class)
	}
	if string(lf.Data) != "hello there, this is text\n" {
		t.Fatalf("Data = %q", lf.Data)
	}
}

func TestGetSymbolsRejectsNonELF(t *testing.T) {
	l, fs := newTestLoader(t)
	writeFile(t, fs, "/readme.txt", []byte("plain text content\n"))

	if _, err := l.GetSymbols("/readme.txt"); err != ErrUnsupportedExecSubclass {
		t.Fatalf("GetSymbols err = %v, want ErrUnsupportedExecSubclass", err)
	}
}

func TestLoadProgramRejectsNonExecutable(t *testing.T) {
	l, fs := newTestLoader(t)
	writeFile(t, fs, "/data.bin", []byte{0x01, 0x02, 0xFE, 0xFF, 0x00, 0x10, 0xAB})

	if _, err := l.LoadProgram("/data.bin"); err != ErrUnsupportedExecSubclass && err != ErrNotExecutable {
		t.Fatalf("LoadProgram err = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	l, _ := newTestLoader(t)
	if _, err := l.Load("/nope"); err == nil {
		t.Fatal("Load of missing file should fail")
	}
}
