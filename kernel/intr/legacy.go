package intr

import "fmt"

// LegacyPIC implements PIC for a pair of cascaded 8259A controllers, IRQs
// 0-15, one vector per IRQ starting at a configurable base (conventionally
// remapped away from the CPU exception range, e.g. 0x20).
type LegacyPIC struct {
	vectorStart int
	masked      [16]bool
	active      int // -1 means none active
	portWrite   func(port uint16, value byte) // test/host seam for out()
	portRead    func(port uint16) byte        // test/host seam for in()
}

// NewLegacyPIC creates a legacy PIC driver. portWrite/portRead may be nil
// in tests that never touch real hardware ports; GetVector/GetIntNumber/
// Mask/EndOfInterrupt do not call them -- only a real ISR querying
// GetActive against hardware would, and the reference implementation here
// tracks "active" purely in software for testability (see SetActiveForTest).
func NewLegacyPIC(vectorStart int, portWrite func(uint16, byte), portRead func(uint16) byte) *LegacyPIC {
	return &LegacyPIC{
		vectorStart: vectorStart,
		active:      -1,
		portWrite:   portWrite,
		portRead:    portRead,
	}
}

func (p *LegacyPIC) Type() ControllerType { return Legacy }

// GetIntNumber on the legacy PIC is the identity map: bus-local IRQ ==
// global interrupt number, since there is exactly one legacy controller
// and no IO-APIC-style pin remapping.
func (p *LegacyPIC) GetIntNumber(busID int, busIRQ int) (int, error) {
	if busIRQ < 0 || busIRQ > 15 {
		return 0, fmt.Errorf("intr: legacy PIC has no IRQ %d", busIRQ)
	}
	return busIRQ, nil
}

func (p *LegacyPIC) GetVector(intNumber int) (int, error) {
	if intNumber < 0 || intNumber > 15 {
		return 0, fmt.Errorf("intr: legacy PIC has no interrupt %d", intNumber)
	}
	return p.vectorStart + intNumber, nil
}

func (p *LegacyPIC) EndOfInterrupt(intNumber int) error {
	if intNumber < 0 || intNumber > 15 {
		return fmt.Errorf("intr: legacy PIC has no interrupt %d", intNumber)
	}
	if p.active == intNumber {
		p.active = -1
	}
	if p.portWrite != nil {
		// 0x20 master command port, 0xA0 slave; EOI command is 0x20.
		p.portWrite(0x20, 0x20)
		if intNumber >= 8 {
			p.portWrite(0xA0, 0x20)
		}
	}
	return nil
}

func (p *LegacyPIC) Mask(intNumber int, on bool) error {
	if intNumber < 0 || intNumber > 15 {
		return fmt.Errorf("intr: legacy PIC has no interrupt %d", intNumber)
	}
	p.masked[intNumber] = !on
	return nil
}

func (p *LegacyPIC) GetActive() (int, error) {
	if p.active < 0 {
		return 0, ErrNoData
	}
	return p.active, nil
}

// SetActiveForTest lets a test simulate an in-service interrupt without a
// real hardware ISR. Not part of the PIC interface.
func (p *LegacyPIC) SetActiveForTest(intNumber int) {
	p.active = intNumber
}

func (p *LegacyPIC) Disable() error {
	for i := range p.masked {
		p.masked[i] = true
	}
	return nil
}

var _ PIC = (*LegacyPIC)(nil)
var _ Disabler = (*LegacyPIC)(nil)
