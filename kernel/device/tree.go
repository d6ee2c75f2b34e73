package device

import "visopsys.dev/kernel/kernel/varlist"

// id is an arena index into Tree.nodes. Per §9's design notes, the
// original's cyclic parent/firstChild/next pointers are modeled here with
// an arena of nodes and integer indices rather than Go pointers, so the
// tree can be walked and printed without fighting the garbage collector
// over cycles.
type id int

// noID is never a valid node index; it is not id's zero value (the root is
// always index 0, so 0 collides with "root" rather than "none" -- every
// id field that can legitimately be empty uses -1, not 0, as its sentinel.
// See firstChild/next/parent below).
const noID id = -1

// Device is a node in the device tree (§3). Every device except the root
// has exactly one parent; parent.firstChild begins a linked list reachable
// through next links that terminates at noID.
type Device struct {
	Class    Code
	Subclass Code
	Model    string

	Driver *Driver
	// Data is an opaque, class-specific payload a detect_fn may attach
	// (e.g. the APIC's parsed MP-table slot list, or a PCI function's
	// vendor/device ID pair). The registry never inspects it.
	Data interface{}

	Attrs *varlist.List

	parent     id
	firstChild id
	next       id
	self       id
}

// Tree owns the arena of Device nodes and exposes the deviceAdd/
// deviceFindType/deviceGetClass operations over it.
type Tree struct {
	nodes []*Device
	root  id
}

// NewTree creates a Tree whose root Device is class=system, per
// deviceInitialize step 1 (§4.F).
func NewTree() *Tree {
	t := &Tree{}
	root := &Device{
		Class:      ClassSystem,
		Subclass:   0,
		Attrs:      varlist.New(0, 0),
		parent:     noID,
		firstChild: noID,
		next:       noID,
	}
	t.root = t.alloc(root)
	return t
}

func (t *Tree) alloc(d *Device) id {
	d.self = id(len(t.nodes))
	t.nodes = append(t.nodes, d)
	return d.self
}

// Root returns the tree's root Device.
func (t *Tree) Root() *Device {
	return t.nodes[t.root]
}

// Add appends child to parent.firstChild's linked list (at the tail, to
// keep traversal order equal to registration order). parent == nil attaches
// under the root device (§4.F).
func (t *Tree) Add(parent *Device, class, subclass Code, model string, drv *Driver, data interface{}) *Device {
	if parent == nil {
		parent = t.Root()
	}
	child := &Device{
		Class:      class,
		Subclass:   subclass,
		Model:      model,
		Driver:     drv,
		Data:       data,
		Attrs:      varlist.New(0, 0),
		parent:     parent.self,
		firstChild: noID,
		next:       noID,
	}
	cid := t.alloc(child)

	if parent.firstChild == noID {
		parent.firstChild = cid
	} else {
		last := t.nodes[parent.firstChild]
		for last.next != noID {
			last = t.nodes[last.next]
		}
		last.next = cid
	}
	return child
}

// Children returns d's direct children in registration order.
func (t *Tree) Children(d *Device) []*Device {
	var out []*Device
	for c := d.firstChild; c != noID; c = t.nodes[c].next {
		out = append(out, t.nodes[c])
	}
	return out
}

// Parent returns d's parent, or nil if d is the root.
func (t *Tree) Parent(d *Device) *Device {
	if d.parent == noID {
		return nil
	}
	return t.nodes[d.parent]
}

// FindType performs a depth-first, pre-order traversal of the tree and
// returns up to max devices whose class and subclass both match. The
// result order is stable and equal to the tree's pre-order (§4.F,
// invariant 7 in §8).
func (t *Tree) FindType(class, subclass Code, max int) []*Device {
	var out []*Device
	var walk func(d *Device)
	walk = func(d *Device) {
		if len(out) >= max {
			return
		}
		if d.Class == class && d.Subclass == subclass {
			out = append(out, d)
		}
		for _, c := range t.Children(d) {
			if len(out) >= max {
				return
			}
			walk(c)
		}
	}
	walk(t.Root())
	return out
}

// Walk performs a depth-first pre-order traversal of the entire tree,
// calling fn for every device including the root.
func (t *Tree) Walk(fn func(d *Device)) {
	var walk func(d *Device)
	walk = func(d *Device) {
		fn(d)
		for _, c := range t.Children(d) {
			walk(c)
		}
	}
	walk(t.Root())
}
