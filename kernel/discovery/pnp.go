package discovery

import "encoding/binary"

// PnPBIOSInfo is the subset of the $PnP BIOS32 Installation Check
// Structure the kernel acts on: the real-mode entry point used to invoke
// PnP BIOS services, and the BIOS's reported event-notification flags.
type PnPBIOSInfo struct {
	Revision        byte
	ControlField    byte
	RealModeEntryOffset uint16
	RealModeEntrySeg   uint16
	OEMDeviceID     uint32
}

const pnpSignature = "$PnP"

// FindPnPBIOS scans biosArea (conventionally physical [0xF0000, 0x100000))
// for the "$PnP" signature on 16-byte boundaries and validates its
// checksum (§4.H), mirroring FindRSDP's scan discipline.
func FindPnPBIOS(biosArea []byte) (*PnPBIOSInfo, error) {
	off, err := scanSignature(biosArea, []byte(pnpSignature))
	if err != nil {
		return nil, err
	}
	// The structure is at least 0x21 bytes; the length byte at offset 0x05
	// gives its exact size in bytes, over which the checksum is validated;
	// only the fixed-layout prefix is decoded.
	if off+0x21 > len(biosArea) {
		return nil, ErrShort
	}
	if err := validateChecksum(biosArea[off : off+int(biosArea[off+5])]); err != nil {
		return nil, err
	}

	info := &PnPBIOSInfo{
		Revision:            biosArea[off+4],
		ControlField:        biosArea[off+8],
		RealModeEntryOffset: binary.LittleEndian.Uint16(biosArea[off+0x0D : off+0x0F]),
		RealModeEntrySeg:    binary.LittleEndian.Uint16(biosArea[off+0x0F : off+0x11]),
		OEMDeviceID:         binary.LittleEndian.Uint32(biosArea[off+0x11 : off+0x15]),
	}
	return info, nil
}

const bios32Signature = "_32_"

// BIOS32Info is the 32-bit BIOS Service Directory entry the kernel uses to
// locate PCI BIOS and other 32-bit-protected-mode firmware services.
type BIOS32Info struct {
	EntryPoint uint32
	Revision   byte
}

// FindBIOS32 scans biosArea for the "_32_" signature and validates its
// 16-byte header checksum (§4.H).
func FindBIOS32(biosArea []byte) (*BIOS32Info, error) {
	off, err := scanSignature(biosArea, []byte(bios32Signature))
	if err != nil {
		return nil, err
	}
	if off+16 > len(biosArea) {
		return nil, ErrShort
	}
	if err := validateChecksum(biosArea[off : off+16]); err != nil {
		return nil, err
	}
	return &BIOS32Info{
		EntryPoint: binary.LittleEndian.Uint32(biosArea[off+4 : off+8]),
		Revision:   biosArea[off+8],
	}, nil
}
