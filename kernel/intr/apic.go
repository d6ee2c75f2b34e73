package intr

import "fmt"

// TriggerMode and Polarity describe an interrupt line's electrical
// properties, as carried by MP-table interrupt-assignment entries and ACPI
// interrupt-source-override entries (§4.G, §4.H).
type TriggerMode int

const (
	TriggerDefault TriggerMode = iota
	TriggerEdge
	TriggerLevel
)

type Polarity int

const (
	PolarityDefault Polarity = iota
	PolarityActiveHigh
	PolarityActiveLow
)

// DeliveryMode mirrors the low 3 bits of an IO-APIC redirection entry.
type DeliveryMode int

const (
	DeliveryFixed DeliveryMode = iota
	DeliveryLowestPriority
	DeliverySMI
	_
	DeliveryNMI
	DeliveryInit
	_
	DeliveryExtINT
)

// BusType is the bus an interrupt-assignment entry is declared against.
type BusType int

const (
	BusISA BusType = iota
	BusPCI
)

// IOAPICSlot is one programmed redirection-table entry: the destination
// (high 32 bits of the real register) and the delivery/vector/trigger/
// polarity bits (low 32 bits), per §4.G's matrix.
type IOAPICSlot struct {
	IntNumber int // the global interrupt number this slot serves
	Bus       BusType
	BusIRQ    int
	Trigger   TriggerMode
	Polarity  Polarity
	Delivery  DeliveryMode
	Vector    int
	Masked    bool
}

// defaultTriggerPolarity applies §4.G's bus-default matrix, with
// MP-table/ACPI overrides (trigger/polarity already set to non-Default)
// replacing the defaults, and the "level + default polarity forced
// active-low" rule.
func defaultTriggerPolarity(bus BusType, trigger TriggerMode, polarity Polarity) (TriggerMode, Polarity) {
	if trigger == TriggerDefault {
		if bus == BusPCI {
			trigger = TriggerLevel
		} else {
			trigger = TriggerEdge
		}
	}
	if polarity == PolarityDefault {
		if bus == BusPCI {
			polarity = PolarityActiveLow
		} else {
			polarity = PolarityActiveHigh
		}
		if trigger == TriggerLevel {
			polarity = PolarityActiveLow
		}
	}
	return trigger, polarity
}

// APIC implements PIC on top of a local-APIC/IO-APIC pair. Vector
// assignment follows the priority scheme in §4.G exactly: legacy IRQs
// 0-15 are banded into floor((0x100-vectorStart)/16) priority levels, two
// IRQs per level, IRQ 0 at the highest priority.
type APIC struct {
	vectorStart int
	priorities  int
	slots       []IOAPICSlot
}

// NewAPIC creates an APIC driver for the given vector_start (conventionally
// 0x20) and the IO-APIC redirection slots assigned at MP-table parse time
// (§4.H feeds these in via AssignSlot).
func NewAPIC(vectorStart int) *APIC {
	return &APIC{
		vectorStart: vectorStart,
		priorities:  (0x100 - vectorStart) / 16,
	}
}

func (a *APIC) Type() ControllerType { return IOAPIC }

// Vector implements the formula from §4.G:
//
//	priorities  = (0x100 - vectorStart) / 16
//	vector(irq) = (0xF - ((irq mod (priorities*2)) / 2)) * 16
//	            + ((irq / (priorities*2)) * 2)
//	            + (irq and 1)
func (a *APIC) Vector(irq int) int {
	band := a.priorities * 2
	level := irq % band
	group := level / 2
	wrap := irq / band
	parity := irq & 1
	return (0xF-group)*16 + wrap*2 + parity
}

// IntNumber is the exact inverse of Vector, derived by undoing each step:
// the high nibble recovers group, the low nibble's parity and halved value
// recover parity and wrap, and level+wrap*band recovers irq.
func (a *APIC) IntNumber(vector int) int {
	band := a.priorities * 2
	group := 0xF - (vector >> 4)
	low := vector & 0xF
	parity := low & 1
	wrap := low >> 1
	level := group*2 + parity
	return wrap*band + level
}

func (a *APIC) GetVector(intNumber int) (int, error) {
	if intNumber < 0 {
		return 0, fmt.Errorf("intr: negative interrupt number %d", intNumber)
	}
	return a.Vector(intNumber), nil
}

func (a *APIC) GetIntNumber(busID int, busIRQ int) (int, error) {
	// A bus entry's busID indexes into the MP table's bus list in a real
	// kernel; this reference driver's slot list already carries a global
	// interrupt number per bus/IRQ pair assigned at AssignSlot time, so
	// GetIntNumber is a lookup rather than a formula.
	for _, s := range a.slots {
		if s.BusIRQ == busIRQ {
			return s.IntNumber, nil
		}
	}
	return 0, fmt.Errorf("intr: no interrupt assignment for bus %d irq %d", busID, busIRQ)
}

// AssignSlot programs (conceptually) one IO-APIC redirection table entry
// for a real ISA or PCI interrupt assignment, applying the bus default
// trigger/polarity unless the MP table overrides them, and computing this
// slot's vector from the priority formula.
func (a *APIC) AssignSlot(intNumber int, bus BusType, busIRQ int, trigger TriggerMode, polarity Polarity, delivery DeliveryMode) IOAPICSlot {
	trigger, polarity = defaultTriggerPolarity(bus, trigger, polarity)
	slot := IOAPICSlot{
		IntNumber: intNumber,
		Bus:       bus,
		BusIRQ:    busIRQ,
		Trigger:   trigger,
		Polarity:  polarity,
		Delivery:  delivery,
		Vector:    a.Vector(intNumber),
		Masked:    true,
	}
	a.slots = append(a.slots, slot)
	return slot
}

func (a *APIC) EndOfInterrupt(intNumber int) error {
	// A real driver writes the local APIC's EOI register; there is
	// nothing further to validate against the slot list.
	return nil
}

// Mask scans all IO-APIC slots; for each slot whose delivery mode is not
// ExtINT and whose vector maps back to intNumber, it flips the mask bit.
// Per §4.G / §9's open question, only the first matching IO-APIC's slots
// are scanned when multiple IO-APICs share a PIC -- this reference driver
// models exactly one IO-APIC's slot list, so that limitation is structural
// here rather than an oversight to fix.
func (a *APIC) Mask(intNumber int, on bool) error {
	matched := false
	for i := range a.slots {
		s := &a.slots[i]
		if s.Delivery == DeliveryExtINT {
			continue
		}
		if s.IntNumber != intNumber {
			continue
		}
		s.Masked = !on
		matched = true
	}
	if !matched {
		return ErrNoSuchEntry
	}
	return nil
}

func (a *APIC) GetActive() (int, error) {
	// The reference driver has no hardware in-service register to poll;
	// callers needing this should consult the local APIC's ISR through a
	// platform-specific seam not modeled here.
	return 0, ErrNoData
}

var _ PIC = (*APIC)(nil)
