// Package pagemgr implements the kernel's lock-protected virtual-to-
// physical page map (component E), the layer the device registry's memory
// class and the APIC driver's MMIO identity-mapping step both depend on.
//
// Modeled after varlist's single-lock-guarded-structure shape (§4.B): one
// kernel/lock.Lock embedded in the Map, every mutating method acquiring it
// for the duration of the call.
package pagemgr

import (
	"errors"
	"fmt"

	"visopsys.dev/kernel/kernel/lock"
	"visopsys.dev/kernel/kernel/task"
)

var (
	ErrNotMapped  = errors.New("pagemgr: address not mapped")
	ErrMisaligned = errors.New("pagemgr: address is not page-aligned")
)

// Attr is a bitmask of page attributes, mirroring the x86 page-table entry
// bits the kernel core actually inspects (present is implicit in the map
// key's existence, so it is not modeled as a bit here).
type Attr uint32

const (
	AttrWritable Attr = 1 << iota
	AttrUser
	AttrUncacheable
	AttrWriteThrough
	AttrGlobal
)

// PageSize is the only page size this reference map models: 4 KiB.
const PageSize = 4096

type entry struct {
	physAddr uint64
	attr     Attr
}

// Map is a lock-protected virtual page number -> physical frame table.
type Map struct {
	l     *lock.Lock
	pages map[uint64]entry // key: virtAddr >> 12
}

// New creates an empty page map, consulting f (which may be nil in tests)
// to validate lock ownership the way every other lock-guarded structure in
// the core does.
func New(f task.Facade) *Map {
	return &Map{l: lock.New(f), pages: make(map[uint64]entry)}
}

func pageAligned(addr uint64) bool { return addr%PageSize == 0 }

// Map installs a virtual->physical translation for one page, replacing any
// existing mapping at virtAddr.
func (m *Map) Map(virtAddr, physAddr uint64, attr Attr) error {
	if !pageAligned(virtAddr) || !pageAligned(physAddr) {
		return ErrMisaligned
	}
	if err := m.l.Acquire(); err != nil {
		return err
	}
	defer m.l.Release()

	m.pages[virtAddr>>12] = entry{physAddr: physAddr, attr: attr}
	return nil
}

// Unmap removes the translation for virtAddr, if any.
func (m *Map) Unmap(virtAddr uint64) error {
	if !pageAligned(virtAddr) {
		return ErrMisaligned
	}
	if err := m.l.Acquire(); err != nil {
		return err
	}
	defer m.l.Release()

	delete(m.pages, virtAddr>>12)
	return nil
}

// Translate returns the physical address and attributes currently bound
// to the page containing virtAddr.
func (m *Map) Translate(virtAddr uint64) (uint64, Attr, error) {
	if err := m.l.Acquire(); err != nil {
		return 0, 0, err
	}
	defer m.l.Release()

	e, ok := m.pages[virtAddr>>12]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %#x", ErrNotMapped, virtAddr)
	}
	offset := virtAddr % PageSize
	return e.physAddr + offset, e.attr, nil
}

// SetAttr updates the attribute bits of an existing mapping without
// changing its physical target, the operation the APIC driver's
// MMIO-identity-map step uses to mark a page uncacheable after mapping it
// (§4.G: "mark the page uncacheable").
func (m *Map) SetAttr(virtAddr uint64, attr Attr) error {
	if !pageAligned(virtAddr) {
		return ErrMisaligned
	}
	if err := m.l.Acquire(); err != nil {
		return err
	}
	defer m.l.Release()

	key := virtAddr >> 12
	e, ok := m.pages[key]
	if !ok {
		return fmt.Errorf("%w: %#x", ErrNotMapped, virtAddr)
	}
	e.attr = attr
	m.pages[key] = e
	return nil
}

// IdentityMap maps [base, base+length) virtual == physical, page-aligned
// up to a whole number of pages, the pattern the APIC driver uses to map
// the local APIC's MMIO region (§4.G).
func (m *Map) IdentityMap(base, length uint64, attr Attr) error {
	if !pageAligned(base) {
		return ErrMisaligned
	}
	pages := (length + PageSize - 1) / PageSize
	for i := uint64(0); i < pages; i++ {
		addr := base + i*PageSize
		if err := m.Map(addr, addr, attr); err != nil {
			return err
		}
	}
	return nil
}
