package main

import (
	"bytes"
	"testing"
)

func sampleVBF() *VBF {
	v := &VBF{
		Version:     1,
		Points:      12,
		NumGlyphs:   2,
		GlyphWidth:  8,
		GlyphHeight: 8,
		CodePoints:  []uint32{'A', 'B'},
		Bitmaps:     [][]byte{make([]byte, 8), make([]byte, 8)},
	}
	copy(v.Name[:], "testfont")
	return v
}

func TestVBFRoundTrip(t *testing.T) {
	v := sampleVBF()
	v.Bitmaps[0][0] = 0xFF
	v.Bitmaps[1][7] = 0x01

	encoded := v.Serialize()
	got, err := ParseVBF(encoded)
	if err != nil {
		t.Fatalf("ParseVBF: %v", err)
	}
	if got.Version != v.Version || got.Points != v.Points || got.NumGlyphs != v.NumGlyphs {
		t.Fatalf("header mismatch: %+v", got)
	}
	if nameString(got.Name) != "testfont" {
		t.Fatalf("Name = %q, want testfont", nameString(got.Name))
	}
	for i := range v.Bitmaps {
		if !bytes.Equal(got.Bitmaps[i], v.Bitmaps[i]) {
			t.Fatalf("glyph %d bitmap mismatch", i)
		}
	}
}

func TestParseVBFRejectsBadMagic(t *testing.T) {
	if _, err := ParseVBF([]byte("nope")); err != errBadVBF {
		t.Fatalf("ParseVBF(bad magic) = %v, want errBadVBF", err)
	}
}

func TestParseVBFRejectsTruncated(t *testing.T) {
	v := sampleVBF()
	encoded := v.Serialize()
	if _, err := ParseVBF(encoded[:len(encoded)-4]); err == nil {
		t.Fatal("ParseVBF(truncated) succeeded, want error")
	}
}
