package vfs

import "testing"

func TestStreamWriteReadAcrossBlocks(t *testing.T) {
	f := NewFacade(NewMemDriver(16, false))
	w, err := f.StreamOpen("/s.bin", ModeCreate|ModeWrite)
	if err != nil {
		t.Fatalf("StreamOpen: %v", err)
	}
	payload := make([]byte, 40)
	for i := range payload {
		payload[i] = byte(i)
	}
	n, err := w.StreamWrite(payload)
	if err != nil || n != len(payload) {
		t.Fatalf("StreamWrite = %d, %v, want %d, nil", n, err, len(payload))
	}
	if err := w.StreamClose(); err != nil {
		t.Fatalf("StreamClose: %v", err)
	}

	r, err := f.StreamOpen("/s.bin", ModeRead)
	if err != nil {
		t.Fatalf("StreamOpen(read): %v", err)
	}
	got := make([]byte, 40)
	n, err = r.StreamRead(got)
	if err != nil || n != 40 {
		t.Fatalf("StreamRead = %d, %v, want 40, nil", n, err)
	}
	for i := range got {
		if got[i] != byte(i) {
			t.Fatalf("byte %d = %d, want %d", i, got[i], i)
		}
	}
}

func TestStreamSeek(t *testing.T) {
	f := NewFacade(NewMemDriver(16, false))
	w, _ := f.StreamOpen("/s.bin", ModeCreate|ModeWrite)
	w.StreamWrite([]byte("0123456789abcdef"))
	w.StreamClose()

	r, _ := f.StreamOpen("/s.bin", ModeRead)
	if err := r.StreamSeek(10); err != nil {
		t.Fatalf("StreamSeek: %v", err)
	}
	got := make([]byte, 4)
	n, err := r.StreamRead(got)
	if err != nil || n != 4 || string(got) != "abcd" {
		t.Fatalf("StreamRead after seek = %q, %d, %v, want abcd, 4, nil", got, n, err)
	}
}

func TestStreamClosedRejectsIO(t *testing.T) {
	f := NewFacade(NewMemDriver(16, false))
	w, _ := f.StreamOpen("/s.bin", ModeCreate|ModeWrite)
	w.StreamClose()
	if _, err := w.StreamWrite([]byte("x")); err != ErrStreamClosed {
		t.Fatalf("StreamWrite after close = %v, want ErrStreamClosed", err)
	}
}

func TestStreamAppendStartsAtEnd(t *testing.T) {
	f := NewFacade(NewMemDriver(16, false))
	w, _ := f.StreamOpen("/s.bin", ModeCreate|ModeWrite)
	w.StreamWrite([]byte("hello"))
	w.StreamClose()

	a, err := f.StreamOpen("/s.bin", ModeAppend|ModeWrite)
	if err != nil {
		t.Fatalf("StreamOpen(append): %v", err)
	}
	a.StreamWrite([]byte(" world"))
	a.StreamClose()

	r, _ := f.StreamOpen("/s.bin", ModeRead)
	got := make([]byte, 11)
	r.StreamRead(got)
	if string(got) != "hello world" {
		t.Fatalf("content = %q, want %q", got, "hello world")
	}
}
