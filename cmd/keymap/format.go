package main

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// keymapMagic is the literal "keymap" header string (§4.J).
var keymapMagic = []byte("keymap")

var errBadKeyMap = errors.New("keymap: not a valid KeyMap file")

// scanTableSize is the fixed 256-entry scan-code table size; 0xFF marks
// "use the universal default" for that scan code.
const scanTableSize = 256

const defaultScanCode = 0xFF

// KeyMap is a parsed Visopsys keyboard mapping: a name plus four
// contiguous 256-byte scan-code tables (regular, shift, control, alt-gr).
type KeyMap struct {
	Name    [32]byte
	Regular [scanTableSize]byte
	Shift   [scanTableSize]byte
	Control [scanTableSize]byte
	AltGr   [scanTableSize]byte
}

// ParseKeyMap decodes a KeyMap file's contents per §4.J's layout.
func ParseKeyMap(data []byte) (*KeyMap, error) {
	if len(data) < len(keymapMagic) || !bytes.Equal(data[:len(keymapMagic)], keymapMagic) {
		return nil, errBadKeyMap
	}
	r := bytes.NewReader(data[len(keymapMagic):])

	var km KeyMap
	for _, field := range []interface{}{&km.Name, &km.Regular, &km.Shift, &km.Control, &km.AltGr} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return nil, errBadKeyMap
		}
	}
	return &km, nil
}

// Serialize re-encodes km to a KeyMap byte stream; Serialize→Parse is the
// identity (§9's round-trip invariant).
func (km *KeyMap) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(keymapMagic)
	binary.Write(&buf, binary.LittleEndian, km.Name)
	binary.Write(&buf, binary.LittleEndian, km.Regular)
	binary.Write(&buf, binary.LittleEndian, km.Shift)
	binary.Write(&buf, binary.LittleEndian, km.Control)
	binary.Write(&buf, binary.LittleEndian, km.AltGr)
	return buf.Bytes()
}

// Resolve looks up scanCode in the table selected by shift/control/altGr,
// falling back to base when the selected table holds defaultScanCode.
func (km *KeyMap) Resolve(scanCode byte, shift, control, altGr bool) byte {
	var table *[scanTableSize]byte
	switch {
	case altGr:
		table = &km.AltGr
	case control:
		table = &km.Control
	case shift:
		table = &km.Shift
	default:
		table = &km.Regular
	}
	if v := table[scanCode]; v != defaultScanCode {
		return v
	}
	return km.Regular[scanCode]
}

func nameString(b [32]byte) string {
	n := bytes.IndexByte(b[:], 0)
	if n < 0 {
		n = len(b)
	}
	return string(b[:n])
}
