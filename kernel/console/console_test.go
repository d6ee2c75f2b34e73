package console

import "testing"

func TestPrintLeavesCursorUnmoved(t *testing.T) {
	ta, err := New(NewTextBackend(), 10, 3, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ta.Print("hello")
	col, row := ta.Cursor()
	// Print doesn't move the TextArea's own cursor fields, only the
	// backend's -- SetCursor is the explicit op.
	if col != 0 || row != 0 {
		t.Fatalf("cursor moved by Print without SetCursor: (%d,%d)", col, row)
	}
}

func TestEnqueueEchoesWhenOn(t *testing.T) {
	b := NewTextBackend()
	ta, _ := New(b, 10, 3, 0)
	ta.SetEcho(true)
	ta.Enqueue('a')
	if row := b.Row(0); len(row) == 0 || row[0] != 'a' {
		t.Fatalf("backend row 0 = %q, want echoed 'a' first", row)
	}
	c, err := ta.Dequeue()
	if err != nil || c != 'a' {
		t.Fatalf("Dequeue = %c, %v, want a, nil", c, err)
	}
	if _, err := ta.Dequeue(); err != ErrQueueEmpty {
		t.Fatalf("Dequeue on empty = %v, want ErrQueueEmpty", err)
	}
}

func TestSwitchToGraphicsPreservesHistory(t *testing.T) {
	ta, _ := New(NewTextBackend(), 10, 3, 10)
	ta.Print("line one")

	g := NewTextBackend()
	if err := ta.SwitchToGraphics(g); err != nil {
		t.Fatalf("SwitchToGraphics: %v", err)
	}
	if got := g.Row(0)[:8]; got != "line one" {
		t.Fatalf("graphics backend row 0 = %q, want replayed history", got)
	}
}

func TestNewRejectsNilBackend(t *testing.T) {
	if _, err := New(nil, 80, 25, 0); err != ErrNoSuchBackend {
		t.Fatalf("New(nil) = %v, want ErrNoSuchBackend", err)
	}
}

func TestDeleteCharAndScreenSaveRestore(t *testing.T) {
	b := NewTextBackend()
	b.Init(5, 1)
	b.Print("abc")
	snap := b.ScreenSave()
	b.DeleteChar()
	if b.Row(0)[:3] != "ab " {
		t.Fatalf("after DeleteChar row = %q", b.Row(0))
	}
	b.ScreenRestore(snap)
	if b.Row(0)[:3] != "abc" {
		t.Fatalf("after ScreenRestore row = %q", b.Row(0))
	}
}
