package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// vbfMagic is the literal 4-byte VBF header magic (§4.J's file formats:
// "VBF " followed by version, name, points, code page, glyph counts).
var vbfMagic = [4]byte{'V', 'B', 'F', ' '}

var errBadVBF = errors.New("fontutil: not a valid VBF file")

// VBF is a parsed Visopsys Bitmap Font: a fixed header followed by
// num_glyphs four-byte code points and then the glyphs' row-major,
// most-significant-bit-first bitmap bytes.
type VBF struct {
	Version     uint32
	Name        [32]byte
	Points      uint32
	CodePage    [16]byte
	NumGlyphs   uint32
	GlyphWidth  uint32
	GlyphHeight uint32
	CodePoints  []uint32
	Bitmaps     [][]byte // one entry per glyph, ceil(width*height/8) bytes each
}

func glyphBytes(width, height uint32) int {
	bits := int(width) * int(height)
	return (bits + 7) / 8
}

// ParseVBF decodes a VBF file's contents per §4.J's layout.
func ParseVBF(data []byte) (*VBF, error) {
	if len(data) < 4 || !bytes.Equal(data[:4], vbfMagic[:]) {
		return nil, errBadVBF
	}
	r := bytes.NewReader(data[4:])

	var v VBF
	if err := binary.Read(r, binary.LittleEndian, &v.Version); err != nil {
		return nil, errBadVBF
	}
	if err := binary.Read(r, binary.LittleEndian, &v.Name); err != nil {
		return nil, errBadVBF
	}
	if err := binary.Read(r, binary.LittleEndian, &v.Points); err != nil {
		return nil, errBadVBF
	}
	if err := binary.Read(r, binary.LittleEndian, &v.CodePage); err != nil {
		return nil, errBadVBF
	}
	if err := binary.Read(r, binary.LittleEndian, &v.NumGlyphs); err != nil {
		return nil, errBadVBF
	}
	if err := binary.Read(r, binary.LittleEndian, &v.GlyphWidth); err != nil {
		return nil, errBadVBF
	}
	if err := binary.Read(r, binary.LittleEndian, &v.GlyphHeight); err != nil {
		return nil, errBadVBF
	}

	v.CodePoints = make([]uint32, v.NumGlyphs)
	for i := range v.CodePoints {
		if err := binary.Read(r, binary.LittleEndian, &v.CodePoints[i]); err != nil {
			return nil, errBadVBF
		}
	}

	perGlyph := glyphBytes(v.GlyphWidth, v.GlyphHeight)
	v.Bitmaps = make([][]byte, v.NumGlyphs)
	for i := range v.Bitmaps {
		buf := make([]byte, perGlyph)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errBadVBF
		}
		v.Bitmaps[i] = buf
	}
	return &v, nil
}

// Serialize re-encodes v to a VBF byte stream. Load→Serialize→Load is the
// identity on the decoded struct (§9's round-trip invariant).
func (v *VBF) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(vbfMagic[:])
	binary.Write(&buf, binary.LittleEndian, v.Version)
	binary.Write(&buf, binary.LittleEndian, v.Name)
	binary.Write(&buf, binary.LittleEndian, v.Points)
	binary.Write(&buf, binary.LittleEndian, v.CodePage)
	binary.Write(&buf, binary.LittleEndian, v.NumGlyphs)
	binary.Write(&buf, binary.LittleEndian, v.GlyphWidth)
	binary.Write(&buf, binary.LittleEndian, v.GlyphHeight)
	for _, cp := range v.CodePoints {
		binary.Write(&buf, binary.LittleEndian, cp)
	}
	for _, bm := range v.Bitmaps {
		buf.Write(bm)
	}
	return buf.Bytes()
}

func nameString(b [32]byte) string {
	n := bytes.IndexByte(b[:], 0)
	if n < 0 {
		n = len(b)
	}
	return string(b[:n])
}

func (v *VBF) String() string {
	return fmt.Sprintf("%s: %dpt, %dx%d, %d glyphs", nameString(v.Name), v.Points, v.GlyphWidth, v.GlyphHeight, v.NumGlyphs)
}
