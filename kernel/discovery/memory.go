package discovery

// MemoryRegionType mirrors the BIOS INT 15h, EAX=E820h type codes the
// original memory map probe reads (§4.H).
type MemoryRegionType int

const (
	MemoryUsable MemoryRegionType = 1 + iota
	MemoryReserved
	MemoryACPIReclaimable
	MemoryACPINVS
	MemoryBad
)

// MemoryRegion is one entry of the firmware-reported physical memory map.
type MemoryRegion struct {
	BaseAddr uint64
	Length   uint64
	Type     MemoryRegionType
}

// MemoryMap is the full firmware-reported layout, in firmware-reported
// (not necessarily sorted or non-overlapping) order.
type MemoryMap struct {
	Regions []MemoryRegion
}

// TotalUsable sums the length of every MemoryUsable region, the figure
// the kernel's page manager uses to size its physical frame bitmap
// (§4.H feeds component E).
func (m MemoryMap) TotalUsable() uint64 {
	var total uint64
	for _, r := range m.Regions {
		if r.Type == MemoryUsable {
			total += r.Length
		}
	}
	return total
}

// TopUsableAddr returns the highest address (exclusive) covered by any
// usable region, i.e. the bound the page manager's frame bitmap must
// cover (§4.E). Returns 0 if no usable region was reported.
func (m MemoryMap) TopUsableAddr() uint64 {
	var top uint64
	for _, r := range m.Regions {
		if r.Type != MemoryUsable {
			continue
		}
		if end := r.BaseAddr + r.Length; end > top {
			top = end
		}
	}
	return top
}

// Overlaps reports whether any two regions in the map overlap, regardless
// of type -- a malformed map a defensive caller may want to reject before
// trusting TotalUsable/TopUsableAddr.
func (m MemoryMap) Overlaps() bool {
	for i := range m.Regions {
		for j := range m.Regions {
			if i == j {
				continue
			}
			a, b := m.Regions[i], m.Regions[j]
			if a.BaseAddr < b.BaseAddr+b.Length && b.BaseAddr < a.BaseAddr+a.Length {
				return true
			}
		}
	}
	return false
}
