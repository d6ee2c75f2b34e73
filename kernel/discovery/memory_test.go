package discovery

import "testing"

func TestMemoryMapTotalsAndTop(t *testing.T) {
	m := MemoryMap{Regions: []MemoryRegion{
		{BaseAddr: 0, Length: 0x9FC00, Type: MemoryUsable},
		{BaseAddr: 0x9FC00, Length: 0x400, Type: MemoryReserved},
		{BaseAddr: 0x100000, Length: 0x1F00000, Type: MemoryUsable},
	}}
	if got, want := m.TotalUsable(), uint64(0x9FC00+0x1F00000); got != want {
		t.Fatalf("TotalUsable = %#x, want %#x", got, want)
	}
	if got, want := m.TopUsableAddr(), uint64(0x100000+0x1F00000); got != want {
		t.Fatalf("TopUsableAddr = %#x, want %#x", got, want)
	}
}

func TestMemoryMapOverlaps(t *testing.T) {
	clean := MemoryMap{Regions: []MemoryRegion{
		{BaseAddr: 0, Length: 0x1000, Type: MemoryUsable},
		{BaseAddr: 0x1000, Length: 0x1000, Type: MemoryReserved},
	}}
	if clean.Overlaps() {
		t.Fatalf("adjacent, non-overlapping regions reported as overlapping")
	}

	dirty := MemoryMap{Regions: []MemoryRegion{
		{BaseAddr: 0, Length: 0x2000, Type: MemoryUsable},
		{BaseAddr: 0x1000, Length: 0x1000, Type: MemoryReserved},
	}}
	if !dirty.Overlaps() {
		t.Fatalf("overlapping regions not detected")
	}
}
