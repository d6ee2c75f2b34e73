package discovery

import "visopsys.dev/kernel/kernel/device"

// PCIConfigReader abstracts the 0xCF8/0xCFC configuration-space access
// mechanism so the scan logic here is host-testable without real port IO.
type PCIConfigReader interface {
	ReadConfigDWord(bus, slot, fn, offset byte) uint32
}

// PCIDevice is the subset of PCI configuration-space header fields the
// discovery scan and the device tree both need.
type PCIDevice struct {
	Bus, Slot, Function byte
	VendorID, DeviceID  uint16
	ClassCode, Subclass byte
}

const pciVendorAbsent = 0xFFFF

// ScanPCIBuses walks every (bus, slot, function) combination in
// [0, maxBus) x [0, 32) x [0, 8), skipping functions > 0 on devices whose
// header type bit 7 is clear (single-function devices), and returns every
// device found. Grounded on the device tree's own driver-registry
// discipline (§4.F): discovery only reports what it finds, classification
// into the tree happens one layer up.
func ScanPCIBuses(r PCIConfigReader, maxBus int) []PCIDevice {
	var found []PCIDevice
	for bus := 0; bus < maxBus; bus++ {
		for slot := 0; slot < 32; slot++ {
			reg0 := r.ReadConfigDWord(byte(bus), byte(slot), 0, 0x00)
			vendor := uint16(reg0 & 0xFFFF)
			if vendor == pciVendorAbsent {
				continue
			}
			headerReg := r.ReadConfigDWord(byte(bus), byte(slot), 0, 0x0C)
			multiFunction := (headerReg>>16)&0x80 != 0

			maxFn := 1
			if multiFunction {
				maxFn = 8
			}
			for fn := 0; fn < maxFn; fn++ {
				regV := r.ReadConfigDWord(byte(bus), byte(slot), byte(fn), 0x00)
				v := uint16(regV & 0xFFFF)
				if v == pciVendorAbsent {
					continue
				}
				devID := uint16(regV >> 16)
				regC := r.ReadConfigDWord(byte(bus), byte(slot), byte(fn), 0x08)
				found = append(found, PCIDevice{
					Bus: byte(bus), Slot: byte(slot), Function: byte(fn),
					VendorID: v, DeviceID: devID,
					ClassCode: byte(regC >> 24),
					Subclass:  byte(regC >> 16),
				})
			}
		}
	}
	return found
}

// PCI base-class/subclass codes for bridge devices (PCI spec, not ACPI).
const (
	pciClassBridge       = 0x06
	pciSubclassISABridge = 0x01
)

// FindISABridge returns the device.Code the tree should classify the
// first matching device under, or an error if no ISA bridge is present
// (§4.H's "detect the ISA bridge via PCI" step).
func FindISABridge(devices []PCIDevice) (PCIDevice, device.Code, error) {
	for _, d := range devices {
		if d.ClassCode == pciClassBridge && d.Subclass == pciSubclassISABridge {
			return d, device.SubclassBridgeISA, nil
		}
	}
	return PCIDevice{}, 0, ErrNotFound
}
