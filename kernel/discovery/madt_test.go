package discovery

import (
	"encoding/binary"
	"testing"

	"visopsys.dev/kernel/kernel/intr"
)

func buildMADT(localAPICAddr uint32, entries ...[]byte) []byte {
	body := make([]byte, 0, 8)
	le4 := make([]byte, 4)
	binary.LittleEndian.PutUint32(le4, localAPICAddr)
	body = append(body, le4...)
	body = append(body, 0, 0, 0, 0) // flags, unused by the parser

	for _, e := range entries {
		body = append(body, e...)
	}

	total := tableHeaderSize + len(body)
	buf := buildTableHeader("APIC", uint32(total))
	copy(buf[tableHeaderSize:], body)
	finalizeChecksum(buf)
	return buf
}

func localAPICEntry(procID, apicID byte, enabled bool) []byte {
	var flags uint32
	if enabled {
		flags = 1
	}
	e := make([]byte, 8)
	e[0] = madtEntryLocalAPIC
	e[1] = 8
	e[2] = procID
	e[3] = apicID
	binary.LittleEndian.PutUint32(e[4:8], flags)
	return e
}

func ioAPICEntry(id byte, addr, base uint32) []byte {
	e := make([]byte, 12)
	e[0] = madtEntryIOAPIC
	e[1] = 12
	e[2] = id
	binary.LittleEndian.PutUint32(e[4:8], addr)
	binary.LittleEndian.PutUint32(e[8:12], base)
	return e
}

func intSrcOverrideEntry(bus, source byte, globalIntr uint32, flags uint16) []byte {
	e := make([]byte, 10)
	e[0] = madtEntryIntSrcOverride
	e[1] = 10
	e[2] = bus
	e[3] = source
	binary.LittleEndian.PutUint32(e[4:8], globalIntr)
	binary.LittleEndian.PutUint16(e[8:10], flags)
	return e
}

func TestParseMADT(t *testing.T) {
	buf := buildMADT(0xFEE00000,
		localAPICEntry(0, 0, true),
		ioAPICEntry(1, 0xFEC00000, 0),
		intSrcOverrideEntry(0, 0, 2, 0x0D), // flags 0x0D: polarity=01 (active-high), trigger=11 (level)
	)

	m, err := ParseMADT(buf)
	if err != nil {
		t.Fatalf("ParseMADT: %v", err)
	}
	if m.LocalAPICAddr != 0xFEE00000 {
		t.Fatalf("LocalAPICAddr = %#x", m.LocalAPICAddr)
	}
	if len(m.LocalAPICs) != 1 || !m.LocalAPICs[0].Enabled {
		t.Fatalf("LocalAPICs = %+v", m.LocalAPICs)
	}
	if len(m.IOAPICs) != 1 || m.IOAPICs[0].Address != 0xFEC00000 {
		t.Fatalf("IOAPICs = %+v", m.IOAPICs)
	}
	if len(m.IntSrcOverrides) != 1 || m.IntSrcOverrides[0].Source != 0 || m.IntSrcOverrides[0].GlobalIntr != 2 {
		t.Fatalf("IntSrcOverrides = %+v", m.IntSrcOverrides)
	}
}

func TestDecodeMPSFlags(t *testing.T) {
	pol, trig := decodeMPSFlags(0x0F) // polarity=11(low), trigger=11(level)
	if pol != intr.PolarityActiveLow || trig != intr.TriggerLevel {
		t.Fatalf("decodeMPSFlags(0x0F) = %v/%v, want low/level", pol, trig)
	}
	pol, trig = decodeMPSFlags(0x00)
	if pol != intr.PolarityDefault || trig != intr.TriggerDefault {
		t.Fatalf("decodeMPSFlags(0x00) = %v/%v, want default/default", pol, trig)
	}
}

func TestParseMADTBadSignature(t *testing.T) {
	buf := buildTableHeader("FACP", 44)
	finalizeChecksum(buf)
	if _, err := ParseMADT(buf); err == nil {
		t.Fatalf("ParseMADT on a FACP table should fail")
	}
}
