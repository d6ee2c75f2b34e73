// Package device implements the kernel's driver/device registry (§4.F): a
// tree of Device nodes classified by (class, subclass), a Driver registry
// keyed by those same codes, and the deviceInitialize bring-up sequence
// that probes hardware in a fixed order.
//
// The registration shape -- a global, lock-guarded map from a type code to
// a constructor, populated by each driver's own init-time call -- is
// adapted from pkg/blobserver's RegisterStorageConstructor/CreateStorage
// pair: there, a storage "type" string maps to a StorageConstructor; here,
// a (class, subclass) Code maps to a Driver's register_fn.
package device

import "fmt"

// Code identifies a device class or subclass. The subclass space is
// disjoint from the class space by construction: subclassBit is set in
// every subclass Code, so a single lookup table selector (GetClass) can
// serve both without the caller needing to know which kind of code it
// holds.
type Code uint32

const subclassBit Code = 1 << 16

// IsSubclass reports whether c was minted by NewSubclass rather than
// NewClass.
func (c Code) IsSubclass() bool { return c&subclassBit != 0 }

// Class codes. The original's enumeration is a flat C enum; a Go iota
// block plus the subclass-bit trick reproduces the "one lookup routine
// serves both spaces" property from §3 exactly.
const (
	ClassSystem Code = iota
	ClassCPU
	ClassMemory
	ClassBus
	ClassPIC
	ClassSystimer
	ClassRTC
	ClassDMA
	ClassKeyboard
	ClassMouse
	ClassDisk
	ClassGraphic
	ClassNetwork
	ClassBridge
)

// Subclass codes, each with subclassBit set. Values are namespaced by
// their parent class in comments only -- the registry does not enforce
// parent/child class relationships beyond what drivers declare.
const (
	SubclassDiskFloppy Code = subclassBit + iota
	SubclassDiskIDE
	SubclassDiskSCSI
	SubclassBusPCI
	SubclassBridgeISA
	SubclassMousePS2
	SubclassMouseUSB
	SubclassKeyboardPS2
	SubclassKeyboardUSB
)

// ClassInfo is the human-readable descriptor GetClass returns.
type ClassInfo struct {
	Code Code
	Name string
}

var classNames = map[Code]string{
	ClassSystem:   "system",
	ClassCPU:      "cpu",
	ClassMemory:   "memory",
	ClassBus:      "bus",
	ClassPIC:      "pic",
	ClassSystimer: "systimer",
	ClassRTC:      "rtc",
	ClassDMA:      "dma",
	ClassKeyboard: "keyboard",
	ClassMouse:    "mouse",
	ClassDisk:     "disk",
	ClassGraphic:  "graphic",
	ClassNetwork:  "network",
	ClassBridge:   "bridge",
}

var subclassNames = map[Code]string{
	SubclassDiskFloppy:  "floppy",
	SubclassDiskIDE:     "ide",
	SubclassDiskSCSI:    "scsi",
	SubclassBusPCI:      "pci",
	SubclassBridgeISA:   "isa",
	SubclassMousePS2:    "ps2",
	SubclassMouseUSB:    "usb",
	SubclassKeyboardPS2: "ps2",
	SubclassKeyboardUSB: "usb",
}

// GetClass returns the descriptor for a class or subclass code, selecting
// the table by the subclass bit (§4.F).
func GetClass(code Code) (ClassInfo, error) {
	table := classNames
	if code.IsSubclass() {
		table = subclassNames
	}
	name, ok := table[code]
	if !ok {
		return ClassInfo{}, fmt.Errorf("device: no such class code %#x", uint32(code))
	}
	return ClassInfo{Code: code, Name: name}, nil
}
