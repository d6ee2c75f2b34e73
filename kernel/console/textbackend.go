package console

// TextBackend is a reference hardware-text-mode Backend implementation
// modeling a flat character/attribute buffer (the VGA text-mode shape),
// useful for tests and for any host build that has no real framebuffer.
type TextBackend struct {
	columns, rows int
	cursorCol     int
	cursorRow     int
	fg, bg        Color
	cells         []byte // one byte per cell, ' ' for blank
}

func NewTextBackend() *TextBackend { return &TextBackend{} }

func (b *TextBackend) Init(columns, rows int) error {
	b.columns, b.rows = columns, rows
	b.cells = make([]byte, columns*rows)
	for i := range b.cells {
		b.cells[i] = ' '
	}
	return nil
}

func (b *TextBackend) GetCursorAddr() (int, int) { return b.cursorCol, b.cursorRow }

func (b *TextBackend) SetCursorAddr(col, row int) error {
	b.cursorCol, b.cursorRow = col, row
	return nil
}

func (b *TextBackend) SetForeground(c Color) { b.fg = c }
func (b *TextBackend) SetBackground(c Color) { b.bg = c }

// Print writes s starting at the cursor, advancing column by column and
// wrapping to the next row; '\n' forces a wrap.
func (b *TextBackend) Print(s string) {
	for _, r := range s {
		if r == '\n' {
			b.cursorCol = 0
			b.cursorRow++
			continue
		}
		if b.cursorCol >= b.columns {
			b.cursorCol = 0
			b.cursorRow++
		}
		if b.cursorRow >= b.rows {
			b.scroll()
			b.cursorRow = b.rows - 1
		}
		b.cells[b.cursorRow*b.columns+b.cursorCol] = byte(r)
		b.cursorCol++
	}
}

func (b *TextBackend) scroll() {
	copy(b.cells, b.cells[b.columns:])
	for i := len(b.cells) - b.columns; i < len(b.cells); i++ {
		b.cells[i] = ' '
	}
}

func (b *TextBackend) DeleteChar() error {
	if b.cursorCol == 0 {
		return nil
	}
	b.cursorCol--
	b.cells[b.cursorRow*b.columns+b.cursorCol] = ' '
	return nil
}

func (b *TextBackend) ScreenDraw() {}

func (b *TextBackend) ScreenClear() {
	for i := range b.cells {
		b.cells[i] = ' '
	}
	b.cursorCol, b.cursorRow = 0, 0
}

func (b *TextBackend) ScreenSave() []byte {
	out := make([]byte, len(b.cells))
	copy(out, b.cells)
	return out
}

func (b *TextBackend) ScreenRestore(snapshot []byte) {
	copy(b.cells, snapshot)
}

// Row returns one row's contents as a string, trimmed of nothing (callers
// that want a trimmed comparison should strings.TrimRight the result).
func (b *TextBackend) Row(row int) string {
	return string(b.cells[row*b.columns : (row+1)*b.columns])
}

var _ Backend = (*TextBackend)(nil)
