package device

import (
	"fmt"
	"sync"
)

// DetectFunc probes for hardware matching a Driver and constructs zero or
// more Devices under parent, attaching the Driver's Ops table to each one
// it creates (§3).
type DetectFunc func(tree *Tree, parent *Device, drv *Driver) error

// RegisterFunc is called once, at init, to install a Driver's DetectFunc
// and Ops table. It mirrors a StorageConstructor's role in
// pkg/blobserver's registry: a thin factory invoked by the registry, not
// by the caller directly.
type RegisterFunc func() (DetectFunc, Ops, error)

// Ops is any class-specific operation table (PicOps, PowerOps, NetworkOps,
// FontClassOps, ImageClassOps, ...). The registry treats it as opaque;
// each package under kernel/ defines its own concrete Ops type and type-
// asserts a Device.Driver.ops back to it.
type Ops interface{}

// Driver is the (class, subclass, register_fn, detect_fn, ops) tuple from
// §3. register_fn runs once; detect_fn may run many times (once per
// matching bus slot).
type Driver struct {
	Class    Code
	Subclass Code
	Name     string

	register RegisterFunc
	detect   DetectFunc
	ops      Ops
}

// Ops returns the driver's class-specific operation table, populated once
// Initialize has run the driver's register_fn.
func (d *Driver) Ops() Ops { return d.ops }

var (
	mu      sync.Mutex
	drivers []*Driver
)

// RegisterDriver installs a driver under (class, subclass, name) with the
// given register_fn, and appends it to the declared driver order
// deviceInitialize walks. It is an error to register the same
// (class, subclass, name) triple twice, mirroring
// RegisterStorageConstructor's "already registered" panic in the teacher
// -- except here we return an error instead of panicking, since driver
// registration in this core can be retried by a caller during tests.
func RegisterDriver(class, subclass Code, name string, register RegisterFunc) (*Driver, error) {
	mu.Lock()
	defer mu.Unlock()

	for _, d := range drivers {
		if d.Class == class && d.Subclass == subclass && d.Name == name {
			return nil, fmt.Errorf("device: driver %q already registered for class %#x/%#x", name, class, subclass)
		}
	}
	drv := &Driver{Class: class, Subclass: subclass, Name: name, register: register}
	drivers = append(drivers, drv)
	return drv, nil
}

// Drivers returns the declared registration order. Used by Initialize and
// by tests that want to assert ordering without running a full bring-up.
func Drivers() []*Driver {
	mu.Lock()
	defer mu.Unlock()
	out := make([]*Driver, len(drivers))
	copy(out, drivers)
	return out
}

// ResetRegistry clears the global driver registry. Exported for tests:
// each test that cares about a clean registration order needs it, since
// RegisterDriver's store is process-global by design (drivers register
// themselves from init() in a real kernel build).
func ResetRegistry() {
	mu.Lock()
	defer mu.Unlock()
	drivers = nil
}

// Initialize runs deviceInitialize (§4.F): it creates the tree's root
// device, calls every registered driver's register_fn, then calls every
// driver's detect_fn against the root, in registration order. Order
// matters (PIC before its children can unmask, bus drivers before bus
// children, graphics before mouse, keyboard before PS/2 mouse) --
// Initialize does not enforce any particular order itself; the caller is
// responsible for registering drivers in the order they must detect in,
// exactly as the original's static driver table is written in dependency
// order.
func Initialize() (*Tree, error) {
	tree := NewTree()

	decls := Drivers()
	for _, drv := range decls {
		detectFn, ops, err := drv.register()
		if err != nil {
			return nil, fmt.Errorf("device: register %q: %w", drv.Name, err)
		}
		drv.detect = detectFn
		drv.ops = ops
	}

	for _, drv := range decls {
		if drv.detect == nil {
			continue
		}
		if err := drv.detect(tree, tree.Root(), drv); err != nil {
			return nil, fmt.Errorf("device: detect %q: %w", drv.Name, err)
		}
	}

	return tree, nil
}
