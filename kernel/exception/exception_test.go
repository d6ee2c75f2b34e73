package exception

import (
	"context"
	"errors"
	"testing"

	"visopsys.dev/kernel/kernel/task"
)

type fakeTask struct {
	states     map[task.PID]task.State
	killed     map[task.PID]bool
	failSet    bool
}

func newFakeTask() *fakeTask {
	return &fakeTask{states: make(map[task.PID]task.State), killed: make(map[task.PID]bool)}
}

func (f *fakeTask) CurrentPID() task.PID            { return 0 }
func (f *fakeTask) Privilege(task.PID) (int, error) { return 1, nil }
func (f *fakeTask) State(pid task.PID) (task.State, error) {
	s, ok := f.states[pid]
	if !ok {
		return task.Running, nil
	}
	return s, nil
}
func (f *fakeTask) SetState(pid task.PID, s task.State) error {
	if f.failSet {
		return errors.New("boom")
	}
	f.states[pid] = s
	return nil
}
func (f *fakeTask) Yield()                          {}
func (f *fakeTask) Wait(context.Context, int) error { return nil }
func (f *fakeTask) Block(task.PID) error            { return nil }
func (f *fakeTask) Unblock(task.PID) error          { return nil }
func (f *fakeTask) Kill(pid task.PID, force bool) error {
	f.killed[pid] = force
	return nil
}
func (f *fakeTask) SetCurrentDirectory(task.PID, string) error { return nil }
func (f *fakeTask) CurrentDirectory(task.PID) (string, error)  { return "/", nil }
func (f *fakeTask) SetIOPerm(task.PID, uint16, bool) error     { return nil }
func (f *fakeTask) IOPerm(task.PID, uint16) (bool, error)      { return false, nil }
func (f *fakeTask) InInterruptContext() bool                   { return false }

func TestClassifyKnownVectors(t *testing.T) {
	d := Classify(13)
	if d.Name != "general protection fault" || d.Type != Fault || !d.Fatal {
		t.Fatalf("Classify(13) = %+v", d)
	}
	d = Classify(3)
	if d.Type != Trap || d.Fatal {
		t.Fatalf("Classify(3) = %+v", d)
	}
}

func TestClassifyUnknownVector(t *testing.T) {
	d := Classify(200)
	if d.Type != Unknown || !d.Fatal {
		t.Fatalf("Classify(200) = %+v", d)
	}
}

func TestHandleKernelPIDAlwaysPanics(t *testing.T) {
	ft := newFakeTask()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Handle against KernelPID should panic")
		}
	}()
	Handle(ft, task.KernelPID, 13)
}

func TestHandleFatalStopsAndKills(t *testing.T) {
	ft := newFakeTask()
	action, d := Handle(ft, 42, 13)
	if action != ActionKillProcess {
		t.Fatalf("action = %v, want ActionKillProcess", action)
	}
	if !d.Fatal {
		t.Fatal("expected fatal descriptor")
	}
	if ft.states[42] != task.Stopped {
		t.Fatalf("state = %v, want Stopped", ft.states[42])
	}
	if !ft.killed[42] {
		t.Fatal("process not killed")
	}
}

func TestHandleNonFatalResumes(t *testing.T) {
	ft := newFakeTask()
	action, _ := Handle(ft, 42, 0) // divide error, non-fatal
	if action != ActionResume {
		t.Fatalf("action = %v, want ActionResume", action)
	}
	if ft.killed[42] {
		t.Fatal("non-fatal exception must not kill the process")
	}
}

func TestHandlePanicsWhenSetStateFails(t *testing.T) {
	ft := newFakeTask()
	ft.failSet = true
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Handle should panic when SetState fails for a fatal exception")
		}
	}()
	Handle(ft, 42, 13)
}

func TestStackTraceSkipsBelowKernelBase(t *testing.T) {
	table := NewSymbolTable([]Symbol{
		{Name: "kmain", Addr: 0x100000},
		{Name: "kmalloc", Addr: 0x100100},
	})
	stack := []uint32{0x1000, 0x100050, 0x100150}
	trace := StackTrace(stack, 0x100000, table)
	if len(trace) != 2 {
		t.Fatalf("trace = %v, want 2 entries", trace)
	}
}

func TestStackTraceNilTableYieldsNoTrace(t *testing.T) {
	trace := StackTrace([]uint32{0x100050}, 0x100000, nil)
	if trace != nil {
		t.Fatalf("trace = %v, want nil", trace)
	}
}

func TestSymbolTableLookupNearestBelow(t *testing.T) {
	table := NewSymbolTable([]Symbol{
		{Name: "a", Addr: 0x1000},
		{Name: "b", Addr: 0x2000},
	})
	sym, ok := table.Lookup(0x1500)
	if !ok || sym.Name != "a" {
		t.Fatalf("Lookup(0x1500) = %+v, %v", sym, ok)
	}
	if _, ok := table.Lookup(0x500); ok {
		t.Fatal("Lookup below first symbol should fail")
	}
}
