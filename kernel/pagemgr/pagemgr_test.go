package pagemgr

import "testing"

func TestMapAndTranslate(t *testing.T) {
	m := New(nil)
	if err := m.Map(0x1000, 0x500000, AttrWritable); err != nil {
		t.Fatalf("Map: %v", err)
	}
	phys, attr, err := m.Translate(0x1000 + 0x10)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if phys != 0x500010 || attr != AttrWritable {
		t.Fatalf("Translate = %#x/%v, want 0x500010/Writable", phys, attr)
	}
}

func TestTranslateUnmapped(t *testing.T) {
	m := New(nil)
	if _, _, err := m.Translate(0x2000); err == nil {
		t.Fatalf("Translate on unmapped page should fail")
	}
}

func TestUnmap(t *testing.T) {
	m := New(nil)
	m.Map(0x3000, 0x600000, 0)
	if err := m.Unmap(0x3000); err != nil {
		t.Fatalf("Unmap: %v", err)
	}
	if _, _, err := m.Translate(0x3000); err == nil {
		t.Fatalf("Translate after Unmap should fail")
	}
}

func TestMisalignedRejected(t *testing.T) {
	m := New(nil)
	if err := m.Map(0x1001, 0x2000, 0); err != ErrMisaligned {
		t.Fatalf("Map(misaligned virt) = %v, want ErrMisaligned", err)
	}
	if err := m.Map(0x1000, 0x2001, 0); err != ErrMisaligned {
		t.Fatalf("Map(misaligned phys) = %v, want ErrMisaligned", err)
	}
}

func TestSetAttr(t *testing.T) {
	m := New(nil)
	m.Map(0x4000, 0x700000, AttrWritable)
	if err := m.SetAttr(0x4000, AttrUncacheable); err != nil {
		t.Fatalf("SetAttr: %v", err)
	}
	_, attr, _ := m.Translate(0x4000)
	if attr != AttrUncacheable {
		t.Fatalf("attr after SetAttr = %v, want Uncacheable", attr)
	}
}

func TestIdentityMap(t *testing.T) {
	m := New(nil)
	if err := m.IdentityMap(0x1000000, PageSize*3, AttrUncacheable); err != nil {
		t.Fatalf("IdentityMap: %v", err)
	}
	for i := uint64(0); i < 3; i++ {
		addr := 0x1000000 + i*PageSize
		phys, attr, err := m.Translate(addr)
		if err != nil || phys != addr || attr != AttrUncacheable {
			t.Fatalf("page %d: Translate = %#x/%v/%v, want %#x/Uncacheable/nil", i, phys, attr, err, addr)
		}
	}
}
