package discovery

import (
	"encoding/binary"

	"visopsys.dev/kernel/kernel/intr"
)

// MADT entry type codes (§4.H).
const (
	madtEntryLocalAPIC          = 0
	madtEntryIOAPIC             = 1
	madtEntryIntSrcOverride     = 2
	madtEntryNMISource          = 3
	madtEntryLocalAPICNMI       = 4
)

// LocalAPICEntry describes one processor's local APIC (MADT type 0).
type LocalAPICEntry struct {
	ProcessorID uint8
	APICID      uint8
	Enabled     bool
}

// IOAPICEntry describes one IO-APIC (MADT type 1).
type IOAPICEntry struct {
	IOAPICID       uint8
	Address        uint32
	GlobalIntrBase uint32
}

// IntSrcOverrideEntry re-maps a bus-relative IRQ to a different global
// interrupt number with its own trigger/polarity, overriding the ISA
// defaults (MADT type 2; feeds AssignSlot's trigger/polarity arguments).
type IntSrcOverrideEntry struct {
	Bus          uint8
	Source       uint8 // the original ISA IRQ
	GlobalIntr   uint32
	Trigger      intr.TriggerMode
	Polarity     intr.Polarity
}

// MADT is the parsed Multiple APIC Description Table: the local-APIC
// address plus every sub-table entry, preserving MADT order (§4.H, §9 --
// discovery populates the device tree and the interrupt controller in
// table order, not sorted).
type MADT struct {
	Header          TableHeader
	LocalAPICAddr   uint32
	LocalAPICs      []LocalAPICEntry
	IOAPICs         []IOAPICEntry
	IntSrcOverrides []IntSrcOverrideEntry
}

// decodeMPSFlags extracts the 2-bit polarity and 2-bit trigger-mode fields
// from an MPS INTI flags word (bits 0-1 polarity, bits 2-3 trigger), as
// carried by MADT interrupt-source-override entries.
func decodeMPSFlags(flags uint16) (intr.Polarity, intr.TriggerMode) {
	pol := flags & 0x3
	trig := (flags >> 2) & 0x3
	// MPS encodes 0=bus-default, 1=active-high/edge, 3=active-low/level
	// (2 is reserved); normalize into intr's Default/High/Low and
	// Default/Edge/Level enums.
	var polarity intr.Polarity
	switch pol {
	case 1:
		polarity = intr.PolarityActiveHigh
	case 3:
		polarity = intr.PolarityActiveLow
	default:
		polarity = intr.PolarityDefault
	}
	var trigger intr.TriggerMode
	switch trig {
	case 1:
		trigger = intr.TriggerEdge
	case 3:
		trigger = intr.TriggerLevel
	default:
		trigger = intr.TriggerDefault
	}
	return polarity, trigger
}

// ParseMADT validates the table (signature "APIC") and its checksum, then
// walks the variable-length sub-table list.
func ParseMADT(buf []byte) (*MADT, error) {
	h, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}
	if h.SigString() != "APIC" {
		return nil, ErrNotFound
	}
	if int(h.Length) > len(buf) || len(buf) < tableHeaderSize+8 {
		return nil, ErrShort
	}
	if err := validateChecksum(buf[:h.Length]); err != nil {
		return nil, err
	}

	m := &MADT{Header: h}
	m.LocalAPICAddr = binary.LittleEndian.Uint32(buf[tableHeaderSize : tableHeaderSize+4])
	// tableHeaderSize+4..+8 is the legacy-PIC-present flags word, not kept.

	off := tableHeaderSize + 8
	for off+2 <= int(h.Length) {
		entryType := buf[off]
		entryLen := int(buf[off+1])
		if entryLen < 2 || off+entryLen > int(h.Length) {
			break
		}
		body := buf[off : off+entryLen]

		switch entryType {
		case madtEntryLocalAPIC:
			if len(body) >= 8 {
				m.LocalAPICs = append(m.LocalAPICs, LocalAPICEntry{
					ProcessorID: body[2],
					APICID:      body[3],
					Enabled:     binary.LittleEndian.Uint32(body[4:8])&1 != 0,
				})
			}
		case madtEntryIOAPIC:
			if len(body) >= 12 {
				m.IOAPICs = append(m.IOAPICs, IOAPICEntry{
					IOAPICID:       body[2],
					Address:        binary.LittleEndian.Uint32(body[4:8]),
					GlobalIntrBase: binary.LittleEndian.Uint32(body[8:12]),
				})
			}
		case madtEntryIntSrcOverride:
			if len(body) >= 10 {
				flags := binary.LittleEndian.Uint16(body[8:10])
				pol, trig := decodeMPSFlags(flags)
				m.IntSrcOverrides = append(m.IntSrcOverrides, IntSrcOverrideEntry{
					Bus:        body[2],
					Source:     body[3],
					GlobalIntr: binary.LittleEndian.Uint32(body[4:8]),
					Trigger:    trig,
					Polarity:   pol,
				})
			}
		}
		off += entryLen
	}
	return m, nil
}
