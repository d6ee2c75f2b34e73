package device

import "testing"

func TestClassLookupBothSpaces(t *testing.T) {
	ci, err := GetClass(ClassDisk)
	if err != nil || ci.Name != "disk" {
		t.Fatalf("GetClass(ClassDisk) = %+v, %v", ci, err)
	}
	ci, err = GetClass(SubclassDiskIDE)
	if err != nil || ci.Name != "ide" {
		t.Fatalf("GetClass(SubclassDiskIDE) = %+v, %v", ci, err)
	}
}

func TestClassLookupUnknown(t *testing.T) {
	if _, err := GetClass(Code(0xffff)); err == nil {
		t.Fatalf("GetClass(unknown) should fail")
	}
}

func TestTreeRootIsSystem(t *testing.T) {
	tr := NewTree()
	if tr.Root().Class != ClassSystem {
		t.Fatalf("root class = %v, want ClassSystem", tr.Root().Class)
	}
	if tr.Parent(tr.Root()) != nil {
		t.Fatalf("root should have no parent")
	}
}

func TestAddUnderNilAttachesToRoot(t *testing.T) {
	tr := NewTree()
	d := tr.Add(nil, ClassDisk, SubclassDiskIDE, "ide0", nil, nil)
	if tr.Parent(d) != tr.Root() {
		t.Fatalf("device added with nil parent should be under root")
	}
}

func TestChildrenOrderIsRegistrationOrder(t *testing.T) {
	tr := NewTree()
	a := tr.Add(nil, ClassDisk, SubclassDiskIDE, "a", nil, nil)
	b := tr.Add(nil, ClassDisk, SubclassDiskIDE, "b", nil, nil)
	c := tr.Add(nil, ClassDisk, SubclassDiskIDE, "c", nil, nil)

	kids := tr.Children(tr.Root())
	if len(kids) != 3 || kids[0] != a || kids[1] != b || kids[2] != c {
		t.Fatalf("Children order wrong: %v", kids)
	}
}

// §8 invariant 7: FindType returns devices at their pre-order position.
func TestFindTypePreOrder(t *testing.T) {
	tr := NewTree()
	bus := tr.Add(nil, ClassBus, SubclassBusPCI, "pci0", nil, nil)
	d1 := tr.Add(bus, ClassDisk, SubclassDiskIDE, "ide0", nil, nil)
	_ = tr.Add(bus, ClassDisk, SubclassDiskSCSI, "scsi0", nil, nil)
	d2 := tr.Add(nil, ClassDisk, SubclassDiskIDE, "ide1", nil, nil)

	found := tr.FindType(ClassDisk, SubclassDiskIDE, 10)
	if len(found) != 2 || found[0] != d1 || found[1] != d2 {
		t.Fatalf("FindType = %v, want [%v %v]", found, d1, d2)
	}
}

func TestFindTypeRespectsMax(t *testing.T) {
	tr := NewTree()
	for i := 0; i < 5; i++ {
		tr.Add(nil, ClassDisk, SubclassDiskIDE, "ide", nil, nil)
	}
	found := tr.FindType(ClassDisk, SubclassDiskIDE, 2)
	if len(found) != 2 {
		t.Fatalf("FindType with max=2 returned %d devices", len(found))
	}
}

func TestInitializeOrdersRegisteredDrivers(t *testing.T) {
	ResetRegistry()
	defer ResetRegistry()

	var order []string
	register := func(name string) RegisterFunc {
		return func() (DetectFunc, Ops, error) {
			return func(tree *Tree, parent *Device, drv *Driver) error {
				order = append(order, name)
				tree.Add(parent, ClassPIC, 0, name, drv, nil)
				return nil
			}, nil, nil
		}
	}

	if _, err := RegisterDriver(ClassPIC, 0, "pic", register("pic")); err != nil {
		t.Fatalf("RegisterDriver pic: %v", err)
	}
	if _, err := RegisterDriver(ClassBus, SubclassBusPCI, "pci", register("pci")); err != nil {
		t.Fatalf("RegisterDriver pci: %v", err)
	}

	tree, err := Initialize()
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if len(order) != 2 || order[0] != "pic" || order[1] != "pci" {
		t.Fatalf("detect order = %v, want [pic pci]", order)
	}
	if len(tree.Children(tree.Root())) != 2 {
		t.Fatalf("expected 2 devices under root")
	}
}

func TestRegisterDriverDuplicateRejected(t *testing.T) {
	ResetRegistry()
	defer ResetRegistry()

	reg := func() (DetectFunc, Ops, error) { return nil, nil, nil }
	if _, err := RegisterDriver(ClassPIC, 0, "pic", reg); err != nil {
		t.Fatalf("first RegisterDriver: %v", err)
	}
	if _, err := RegisterDriver(ClassPIC, 0, "pic", reg); err == nil {
		t.Fatalf("duplicate RegisterDriver should fail")
	}
}
