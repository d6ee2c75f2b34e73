// Package power implements the kernel's shutdown orchestration (§4.L):
// flush/unmount filesystems, stop non-kernel processes, then dispatch to a
// halt, reboot, or ACPI power-off path.
package power

import (
	"errors"

	"visopsys.dev/kernel/kernel/discovery"
	"visopsys.dev/kernel/kernel/task"
)

// Kind is the shutdown flavor requested (§4.L).
type Kind int

const (
	Halt Kind = iota
	Reboot
	PowerOff
)

var (
	ErrNoPowerOps = errors.New("power: no ACPI PowerOps table advertised")
)

// PM1Control is the register interface the ACPI driver exposes for the
// final power-off write; a real build backs this with port I/O against
// PM1a_CTRL/PM1b_CTRL (§8: writing SLP_EN | SLP_TYPa powers the system off
// on conforming hardware).
type PM1Control interface {
	WritePM1aControl(value uint16) error
	WritePM1bControl(value uint16) error
}

// PowerOps is what an ACPI driver "advertises" when power-off is supported
// (§4.L: "power_off calls into the ACPI driver if it advertises a PowerOps
// table", mirroring the device registry's per-class ops table pattern).
type PowerOps struct {
	PM1  PM1Control
	DSDT []byte // the AML blob FindS5 scans
}

const slpEnBit uint16 = 1 << 13 // SLP_EN, bit 13 of PM1_CNT (§8)

// Mount is one flush/unmount target Shutdown walks. Flush is a thin
// callback rather than a *vfs.Facade method call, since the Facade has no
// notion of "every stream open against it" -- the caller (whoever opened
// the streams) is the one who can flush and unmount them.
type Mount struct {
	Path    string
	Flush   func() error
	Unmount func() error
}

// Shutdowner drives §4.L's sequence: filesystem flush/unmount, process
// stop, then halt/reboot/power-off dispatch.
type Shutdowner struct {
	proc   task.Facade
	pids   []task.PID
	mounts []Mount
	ops    *PowerOps

	// halt/reboot are architecture hooks; a hosted test build supplies
	// fakes, a real kernel wires `hlt`-with-interrupts-disabled and the
	// keyboard-controller reset pulse respectively.
	haltCPU    func()
	resetPulse func()
}

// New builds a Shutdowner. pids is the set of live process identifiers to
// consider for the "stop non-kernel processes" step; the core has no
// process-enumeration primitive of its own; whatever owns the process
// table (the scheduler's caller) supplies the current roster.
func New(proc task.Facade, pids []task.PID, mounts []Mount, ops *PowerOps, haltCPU, resetPulse func()) *Shutdowner {
	return &Shutdowner{proc: proc, pids: pids, mounts: mounts, ops: ops, haltCPU: haltCPU, resetPulse: resetPulse}
}

// Shutdown implements §4.L. force makes filesystem flush and unmount
// best-effort (errors ignored, not returned) instead of failing the whole
// sequence.
func (s *Shutdowner) Shutdown(kind Kind, force bool) error {
	if err := s.flushAndUnmount(force); err != nil {
		return err
	}
	s.stopProcesses()

	switch kind {
	case Halt:
		s.haltCPU()
		return nil
	case Reboot:
		s.resetPulse()
		return nil
	case PowerOff:
		return s.powerOff()
	default:
		return errors.New("power: unknown shutdown kind")
	}
}

func (s *Shutdowner) flushAndUnmount(force bool) error {
	for _, m := range s.mounts {
		if m.Flush != nil {
			if err := m.Flush(); err != nil && !force {
				return err
			}
		}
		if m.Unmount != nil {
			if err := m.Unmount(); err != nil && !force {
				return err
			}
		}
	}
	return nil
}

// stopProcesses force-kills every known process except the kernel's own
// (§4.M's KernelPID is never a kill target).
func (s *Shutdowner) stopProcesses() {
	for _, pid := range s.pids {
		if pid == task.KernelPID {
			continue
		}
		s.proc.Kill(pid, true)
	}
}

// powerOff decodes \_S5_ from the advertised DSDT and writes SLP_EN |
// SLP_TYPa to PM1a_CTRL, then SLP_EN | SLP_TYPb to PM1b_CTRL, per
// §4.L/§8/S2. The PM1b write is made unconditionally: powerOff does not
// check whether a PM1b control block exists.
func (s *Shutdowner) powerOff() error {
	if s.ops == nil || s.ops.PM1 == nil {
		return ErrNoPowerOps
	}
	sleep, err := discovery.FindS5(s.ops.DSDT)
	if err != nil {
		return err
	}
	a, b := SlpValues(sleep)
	if err := s.ops.PM1.WritePM1aControl(slpEnBit | a); err != nil {
		return err
	}
	return s.ops.PM1.WritePM1bControl(slpEnBit | b)
}

// SlpValues shifts the raw SLP_TYPa/SLP_TYPb bytes FindS5 extracts into
// PM1_CNT's SLP_TYPx field position (bits 10-12), matching S2's literal
// "SLP_TYPa is 5 << 10" (§8).
func SlpValues(sleep discovery.SleepTypes) (a, b uint16) {
	return uint16(sleep.SLPTypA) << 10, uint16(sleep.SLPTypB) << 10
}
