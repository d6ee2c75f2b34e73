// Package editcore implements the text editor's core state (§3's
// ScreenLine/EditState): a lazy on-screen-row -> file-offset mapping built
// by walking a byte stream, expanding tabs per the fixed TAB_SIZE rule, and
// wrapping at a configured screen width. It has no terminal UI of its own;
// it exists to exercise the file-stream facade's StreamRead/StreamSeek the
// way the original editor's line-mapping walk did.
package editcore

import (
	"errors"
)

// TabSize is the original editor's fixed tab stop width.
const TabSize = 8

// ExpandWidth returns how many columns a tab at the given column expands
// to: TAB_SIZE - (column mod TAB_SIZE) (§3).
func ExpandWidth(column int) int {
	return TabSize - (column % TabSize)
}

// ScreenLine maps one on-screen row to its starting file offset and the
// logical (newline-delimited) line it belongs to (§3).
type ScreenLine struct {
	Row         int
	Offset      int64
	LogicalLine int
}

var ErrNoSuchRow = errors.New("editcore: no such row")

// byteSource is the minimal read/seek contract EditState needs; *vfs.Stream
// satisfies it without editcore importing vfs directly, keeping the
// line-mapping walk independent of any particular stream implementation.
type byteSource interface {
	StreamRead(p []byte) (int, error)
	StreamSeek(offset int64) error
}

// EditState is the lazy row->offset mapper. Rows are only computed as far
// as a caller has asked for; RowForOffset/OffsetForRow extend the known
// mapping on demand by reading further from src.
type EditState struct {
	src         byteSource
	screenWidth int

	lines []ScreenLine // known rows, in order, starting at row 0
	eof   bool
	// column/logicalLine/offset carry the walk's position across extend
	// calls so each call resumes exactly where the last left off.
	column      int
	logicalLine int
	offset      int64
}

// New builds an EditState over src with the given screen width; the first
// ScreenLine (row 0, offset 0, logical line 0) is known immediately.
func New(src byteSource, screenWidth int) *EditState {
	return &EditState{
		src:         src,
		screenWidth: screenWidth,
		lines:       []ScreenLine{{Row: 0, Offset: 0, LogicalLine: 0}},
	}
}

// KnownRows returns how many rows have been mapped so far.
func (e *EditState) KnownRows() int { return len(e.lines) }

// OffsetForRow returns row's starting file offset, extending the mapping
// by reading further from src if row has not yet been discovered.
func (e *EditState) OffsetForRow(row int) (int64, error) {
	for row >= len(e.lines) && !e.eof {
		if err := e.extend(); err != nil {
			return 0, err
		}
	}
	if row < 0 || row >= len(e.lines) {
		return 0, ErrNoSuchRow
	}
	return e.lines[row].Offset, nil
}

// RowForOffset returns the row whose span contains offset, extending the
// mapping as needed.
func (e *EditState) RowForOffset(offset int64) (int, error) {
	for (len(e.lines) == 0 || e.lines[len(e.lines)-1].Offset <= offset) && !e.eof {
		if err := e.extend(); err != nil {
			return 0, err
		}
	}
	for i := len(e.lines) - 1; i >= 0; i-- {
		if e.lines[i].Offset <= offset {
			return e.lines[i].Row, nil
		}
	}
	return 0, ErrNoSuchRow
}

// extend reads one more screen row's worth of bytes from src, starting at
// e.offset, and appends the resulting ScreenLine (unless EOF is reached
// with nothing left to map).
func (e *EditState) extend() error {
	if err := e.src.StreamSeek(e.offset); err != nil {
		return err
	}
	buf := make([]byte, 1)
	startOffset := e.offset

	for {
		n, err := e.src.StreamRead(buf)
		if n == 0 {
			e.eof = true
			if e.offset != startOffset {
				e.lines = append(e.lines, ScreenLine{
					Row:         len(e.lines),
					Offset:      e.offset,
					LogicalLine: e.logicalLine,
				})
			}
			return err
		}
		b := buf[0]
		e.offset++

		if b == '\n' {
			e.logicalLine++
			e.column = 0
			e.lines = append(e.lines, ScreenLine{
				Row:         len(e.lines),
				Offset:      e.offset,
				LogicalLine: e.logicalLine,
			})
			return nil
		}
		if b == '\t' {
			e.column += ExpandWidth(e.column)
		} else {
			e.column++
		}
		if e.column >= e.screenWidth {
			e.column = 0
			e.lines = append(e.lines, ScreenLine{
				Row:         len(e.lines),
				Offset:      e.offset,
				LogicalLine: e.logicalLine,
			})
			return nil
		}
	}
}
