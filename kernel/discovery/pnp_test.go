package discovery

import (
	"encoding/binary"
	"testing"
)

func TestFindPnPBIOS(t *testing.T) {
	const structLen = 0x21
	area := make([]byte, 0x200)
	off := 0x40
	copy(area[off:], pnpSignature)
	area[off+4] = 0x10 // revision
	area[off+5] = structLen
	area[off+8] = 0x04 // control field
	binary.LittleEndian.PutUint16(area[off+0x0D:off+0x0F], 0x1234)
	binary.LittleEndian.PutUint16(area[off+0x0F:off+0x11], 0xF000)
	binary.LittleEndian.PutUint32(area[off+0x11:off+0x15], 0xDEADBEEF)

	area[off+9] = byte(-int(checksum8(area[off:off+structLen])) & 0xFF)

	info, err := FindPnPBIOS(area)
	if err != nil {
		t.Fatalf("FindPnPBIOS: %v", err)
	}
	if info.Revision != 0x10 || info.RealModeEntryOffset != 0x1234 || info.RealModeEntrySeg != 0xF000 || info.OEMDeviceID != 0xDEADBEEF {
		t.Fatalf("FindPnPBIOS = %+v", info)
	}
}

func TestFindPnPBIOSAbsent(t *testing.T) {
	area := make([]byte, 0x200)
	if _, err := FindPnPBIOS(area); err != ErrNotFound {
		t.Fatalf("FindPnPBIOS on empty area = %v, want ErrNotFound", err)
	}
}

func TestFindBIOS32(t *testing.T) {
	area := make([]byte, 0x100)
	off := 0x20
	copy(area[off:], bios32Signature)
	binary.LittleEndian.PutUint32(area[off+4:off+8], 0xF0000)
	area[off+9] = 0 // length in paragraphs, unused by the parser
	area[off+8] = byte(-int(checksum8(area[off:off+16])) & 0xFF)

	info, err := FindBIOS32(area)
	if err != nil {
		t.Fatalf("FindBIOS32: %v", err)
	}
	if info.EntryPoint != 0xF0000 {
		t.Fatalf("EntryPoint = %#x, want 0xF0000", info.EntryPoint)
	}
}
