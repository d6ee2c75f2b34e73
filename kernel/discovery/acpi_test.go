package discovery

import (
	"encoding/binary"
	"testing"
)

func buildRSDP(revision byte, rsdtAddr uint32) []byte {
	buf := make([]byte, 20)
	copy(buf[0:8], rsdpSignature)
	// OEMID + revision byte live at [9:16); revision at offset 15.
	buf[15] = revision
	binary.LittleEndian.PutUint32(buf[16:20], rsdtAddr)
	buf[8] = 0
	buf[8] = byte(-int(checksum8(buf)) & 0xFF)
	return buf
}

func TestFindRSDP(t *testing.T) {
	rsdp := buildRSDP(0, 0x000E2000)
	area := make([]byte, 0x1000)
	copy(area[0x200:], rsdp)

	got, err := FindRSDP(area)
	if err != nil {
		t.Fatalf("FindRSDP: %v", err)
	}
	if got.RSDTAddr != 0x000E2000 {
		t.Fatalf("RSDTAddr = %#x, want 0xE2000", got.RSDTAddr)
	}
}

func TestFindRSDPBadChecksumRejected(t *testing.T) {
	rsdp := buildRSDP(0, 0x1000)
	rsdp[8] ^= 0xFF // corrupt the checksum byte
	area := make([]byte, 0x100)
	copy(area[0x10:], rsdp)

	if _, err := FindRSDP(area); err != ErrChecksum {
		t.Fatalf("FindRSDP with bad checksum = %v, want ErrChecksum", err)
	}
}

func buildTableHeader(sig string, length uint32) []byte {
	buf := make([]byte, length)
	copy(buf[0:4], sig)
	binary.LittleEndian.PutUint32(buf[4:8], length)
	return buf
}

func finalizeChecksum(buf []byte) {
	buf[9] = 0
	buf[9] = byte(-int(checksum8(buf)) & 0xFF)
}

func TestParseRSDT(t *testing.T) {
	buf := buildTableHeader("RSDT", 36+8)
	binary.LittleEndian.PutUint32(buf[36:40], 0xAABBCCDD)
	binary.LittleEndian.PutUint32(buf[40:44], 0x11223344)
	finalizeChecksum(buf)

	rsdt, err := ParseRSDT(buf)
	if err != nil {
		t.Fatalf("ParseRSDT: %v", err)
	}
	if len(rsdt.Entries) != 2 || rsdt.Entries[0] != 0xAABBCCDD || rsdt.Entries[1] != 0x11223344 {
		t.Fatalf("Entries = %#x, want [0xaabbccdd 0x11223344]", rsdt.Entries)
	}
}

func TestParseRSDTWrongSignature(t *testing.T) {
	buf := buildTableHeader("FACP", 36)
	finalizeChecksum(buf)
	if _, err := ParseRSDT(buf); err == nil {
		t.Fatalf("ParseRSDT on a FACP table should fail")
	}
}

func TestParseRSDTBadChecksum(t *testing.T) {
	buf := buildTableHeader("RSDT", 36+4)
	binary.LittleEndian.PutUint32(buf[36:40], 1)
	finalizeChecksum(buf)
	buf[len(buf)-1] ^= 0xFF
	if _, err := ParseRSDT(buf); err != ErrChecksum {
		t.Fatalf("ParseRSDT with bad checksum = %v, want ErrChecksum (invariant 6)", err)
	}
}

func TestParseFADT(t *testing.T) {
	buf := buildTableHeader("FACP", 76)
	binary.LittleEndian.PutUint32(buf[fadtFirmwareCtrl:fadtFirmwareCtrl+4], 0x1000)
	binary.LittleEndian.PutUint32(buf[fadtDSDT:fadtDSDT+4], 0x2000)
	binary.LittleEndian.PutUint16(buf[fadtSCIInt:fadtSCIInt+2], 9)
	binary.LittleEndian.PutUint32(buf[fadtPM1aCtrlBlk:fadtPM1aCtrlBlk+4], 0x404)
	finalizeChecksum(buf)

	f, err := ParseFADT(buf)
	if err != nil {
		t.Fatalf("ParseFADT: %v", err)
	}
	if f.DSDTAddr != 0x2000 || f.SCIInterrupt != 9 || f.PM1aCtrlBlk != 0x404 {
		t.Fatalf("ParseFADT fields = %+v", f)
	}
}
