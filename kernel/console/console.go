// Package console implements the kernel's text console abstraction (§4.D):
// a single TextArea operation set satisfied by two interchangeable
// back-ends (hardware text-mode and graphics-rendered), an input queue with
// optional echo, and a switchToGraphics rebind that preserves buffered
// content.
package console

import (
	"bytes"
	"errors"
	"sync"
)

var (
	ErrNoSuchBackend = errors.New("console: no backend bound")
	ErrQueueEmpty    = errors.New("console: input queue empty")
)

// Color is a simple RGB triple; both back-ends interpret it their own way
// (palette index for text mode, direct RGB for graphics).
type Color struct{ R, G, B byte }

// Backend is the operation set both the hardware-text and graphics
// back-ends satisfy (§4.D's `{init, get_cursor_addr, set_cursor_addr,
// set_foreground, set_background, print, delete_char, screen_draw,
// screen_clear, screen_save, screen_restore}`).
type Backend interface {
	Init(columns, rows int) error
	GetCursorAddr() (col, row int)
	SetCursorAddr(col, row int) error
	SetForeground(c Color)
	SetBackground(c Color)
	Print(s string)
	DeleteChar() error
	ScreenDraw()
	ScreenClear()
	ScreenSave() []byte
	ScreenRestore(snapshot []byte)
}

// TextArea is the console-facing state: geometry, cursor, colors, a
// circular scrollback buffer, and an input queue, bound to one Backend at
// a time (§3's TextArea field list).
type TextArea struct {
	mu sync.Mutex

	columns, rows   int
	cursorCol       int
	cursorRow       int
	foreground      Color
	background      Color
	scrollBackLines int
	history         [][]byte // circular, oldest first after wraparound

	backend Backend

	inputQueue []byte
	echo       bool
	output     *bytes.Buffer // accumulates Print output when echo is on
}

// New creates a TextArea bound to backend with the given geometry and
// scrollback depth.
func New(backend Backend, columns, rows, scrollBackLines int) (*TextArea, error) {
	if backend == nil {
		return nil, ErrNoSuchBackend
	}
	if err := backend.Init(columns, rows); err != nil {
		return nil, err
	}
	return &TextArea{
		columns:         columns,
		rows:            rows,
		scrollBackLines: scrollBackLines,
		backend:         backend,
		output:          &bytes.Buffer{},
	}, nil
}

func (t *TextArea) Columns() int { t.mu.Lock(); defer t.mu.Unlock(); return t.columns }
func (t *TextArea) Rows() int    { t.mu.Lock(); defer t.mu.Unlock(); return t.rows }

func (t *TextArea) SetEcho(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.echo = on
}

// Print writes s through the bound backend, recording it in the scrollback
// history and, when echo is on, in the accumulated output stream.
func (t *TextArea) Print(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backend.Print(s)
	t.pushHistory([]byte(s))
	if t.echo {
		t.output.WriteString(s)
	}
}

func (t *TextArea) pushHistory(line []byte) {
	t.history = append(t.history, line)
	if t.scrollBackLines > 0 && len(t.history) > t.scrollBackLines {
		t.history = t.history[len(t.history)-t.scrollBackLines:]
	}
}

func (t *TextArea) SetForeground(c Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.foreground = c
	t.backend.SetForeground(c)
}

func (t *TextArea) SetBackground(c Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.background = c
	t.backend.SetBackground(c)
}

func (t *TextArea) SetCursor(col, row int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.backend.SetCursorAddr(col, row); err != nil {
		return err
	}
	t.cursorCol, t.cursorRow = col, row
	return nil
}

func (t *TextArea) Cursor() (col, row int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursorCol, t.cursorRow
}

func (t *TextArea) DeleteChar() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.backend.DeleteChar()
}

func (t *TextArea) ScreenClear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backend.ScreenClear()
}

func (t *TextArea) ScreenSave() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.backend.ScreenSave()
}

func (t *TextArea) ScreenRestore(snapshot []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backend.ScreenRestore(snapshot)
}

// Enqueue feeds one input character. When echo is on, the character is
// also written through Print (§4.D's "character-at-a-time with an echo
// flag" input semantics).
func (t *TextArea) Enqueue(c byte) {
	t.mu.Lock()
	t.inputQueue = append(t.inputQueue, c)
	echo := t.echo
	t.mu.Unlock()
	if echo {
		t.Print(string(c))
	}
}

// Dequeue pops the oldest queued input character.
func (t *TextArea) Dequeue() (byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.inputQueue) == 0 {
		return 0, ErrQueueEmpty
	}
	c := t.inputQueue[0]
	t.inputQueue = t.inputQueue[1:]
	return c, nil
}

// SwitchToGraphics rebinds the active backend to a graphics implementation
// without losing buffered scrollback content: the new backend is
// initialized, then every history line is replayed through it (§4.D).
func (t *TextArea) SwitchToGraphics(graphics Backend) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := graphics.Init(t.columns, t.rows); err != nil {
		return err
	}
	graphics.SetForeground(t.foreground)
	graphics.SetBackground(t.background)
	for _, line := range t.history {
		graphics.Print(string(line))
	}
	t.backend = graphics
	return nil
}
