// Package intr implements the kernel's interrupt-controller abstraction
// (§4.G): a single PIC interface with two concrete backends, a legacy
// 8259A-style driver and a local-APIC/IO-APIC driver, registered against
// the kernel/device registry the same way any other class of hardware is.
package intr

import "errors"

// ControllerType distinguishes the two concrete PIC backends (§3).
type ControllerType int

const (
	Legacy ControllerType = iota
	IOAPIC
)

// ErrNoData is returned by GetActive when no interrupt is currently in
// service.
var ErrNoData = errors.New("intr: no active interrupt")

// ErrNoSuchEntry is returned by Mask when no IO-APIC (or legacy PIC) slot
// maps to the given interrupt number.
var ErrNoSuchEntry = errors.New("intr: no such interrupt entry")

// PIC is the operation set both concrete controllers implement (§4.G).
// "PIC" is used generically here, matching the glossary: either the
// legacy 8259A pair or an IO-APIC.
type PIC interface {
	// GetIntNumber translates a bus-local IRQ on the given bus to the
	// global interrupt number this controller covers.
	GetIntNumber(busID int, busIRQ int) (int, error)
	// GetVector computes the CPU vector for a given interrupt number.
	GetVector(intNumber int) (int, error)
	// EndOfInterrupt acknowledges interrupt intNumber.
	EndOfInterrupt(intNumber int) error
	// Mask unmasks the interrupt if on is true, else masks it.
	Mask(intNumber int, on bool) error
	// GetActive returns the currently in-service interrupt number, or
	// ErrNoData if none is active.
	GetActive() (int, error)
	// Type reports which concrete backend this is.
	Type() ControllerType
}

// Disabler is an optional PIC capability: controllers that can be turned
// off entirely (e.g. the legacy PIC, once the APIC takes over) implement
// it; the IO-APIC driver does not need to.
type Disabler interface {
	Disable() error
}

// Controller wraps a concrete PIC with the bookkeeping fields the spec's
// data model assigns it in §3: { type, enabled, start_irq, num_irqs,
// driver, driver_data }.
type Controller struct {
	Type     ControllerType
	Enabled  bool
	StartIRQ int
	NumIRQs  int

	Driver     PIC
	DriverData interface{}
}
