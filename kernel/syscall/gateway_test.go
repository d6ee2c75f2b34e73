package syscall

import "testing"

func TestProcessCallS1ShutdownDispatch(t *testing.T) {
	var called struct {
		kind, force int
	}
	h := Handlers{
		Shutdown: func(kind, force int) error {
			called.kind, called.force = kind, force
			return nil
		},
	}
	g := NewGateway(NewDefaultTable(h))

	// caller at privilege 1 invokes function 99001 (shutdown) with
	// args (type=halt=0, nice=1): expect return 0, no error.
	argList := []interface{}{3, FnShutdown, 0, 1}
	ret, err := g.ProcessCall(argList, 1)
	if err != nil {
		t.Fatalf("ProcessCall: %v", err)
	}
	if ret != 0 {
		t.Fatalf("ret = %v, want 0", ret)
	}
	if called.kind != 0 || called.force != 1 {
		t.Fatalf("called = %+v", called)
	}

	// same call with privilege 3 against an entry whose required
	// privilege is 1 returns PERMISSION.
	_, err = g.ProcessCall(argList, 3)
	if err != ErrPermission {
		t.Fatalf("err = %v, want ErrPermission", err)
	}
}

func TestProcessCallNoSuchFunction(t *testing.T) {
	g := NewGateway(NewDefaultTable(Handlers{}))
	argList := []interface{}{1, 42}
	if _, err := g.ProcessCall(argList, 0); err != ErrNoSuchFunction {
		t.Fatalf("err = %v, want ErrNoSuchFunction", err)
	}
}

func TestProcessCallArgumentCount(t *testing.T) {
	h := Handlers{Version: func() string { return "1.0" }}
	g := NewGateway(NewDefaultTable(h))
	// FnVersion expects 0 args; supply 1.
	argList := []interface{}{2, FnVersion, "extra"}
	if _, err := g.ProcessCall(argList, 1); err != ErrArgumentCount {
		t.Fatalf("err = %v, want ErrArgumentCount", err)
	}
}

func TestProcessCallTooManyArgs(t *testing.T) {
	g := NewGateway(NewDefaultTable(Handlers{}))
	argList := make([]interface{}, 0, APIMaxArgs+3)
	argList = append(argList, APIMaxArgs+2, FnVersion)
	for i := 0; i < APIMaxArgs+1; i++ {
		argList = append(argList, i)
	}
	if _, err := g.ProcessCall(argList, 0); err != ErrTooManyArgs {
		t.Fatalf("err = %v, want ErrTooManyArgs", err)
	}
}

func TestProcessCallFamilyIndexing(t *testing.T) {
	h := Handlers{
		ConsolePrint: func(s string) error { return nil },
		FileOpen:     func(path string, mode int) (int, error) { return 7, nil },
	}
	g := NewGateway(NewDefaultTable(h))

	ret, err := g.ProcessCall([]interface{}{2, FnConsolePrint, "hi"}, 1)
	if err != nil || ret != 0 {
		t.Fatalf("ConsolePrint: ret=%v err=%v", ret, err)
	}
	ret, err = g.ProcessCall([]interface{}{3, FnFileOpen, "/x", 0}, 1)
	if err != nil {
		t.Fatalf("FileOpen: %v", err)
	}
	if ret != 7 {
		t.Fatalf("FileOpen ret = %v, want 7", ret)
	}
}

func TestCallLogRecordsRecentCalls(t *testing.T) {
	h := Handlers{Version: func() string { return "1.0" }}
	g := NewGateway(NewDefaultTable(h))

	g.ProcessCall([]interface{}{1, FnVersion}, 1)
	g.ProcessCall([]interface{}{1, 42}, 1)

	log := g.CallLog()
	if len(log) != 2 {
		t.Fatalf("len(log) = %d, want 2", len(log))
	}
	if log[0].FunctionNumber != FnVersion || log[0].Err != nil {
		t.Fatalf("log[0] = %+v", log[0])
	}
	if log[1].FunctionNumber != 42 || log[1].Err != ErrNoSuchFunction {
		t.Fatalf("log[1] = %+v", log[1])
	}
}

func TestCallLogDropsOldestPastLimit(t *testing.T) {
	g := NewGateway(NewDefaultTable(Handlers{}))
	for i := 0; i < maxCallLog+10; i++ {
		g.ProcessCall([]interface{}{1, i}, 1)
	}
	log := g.CallLog()
	if len(log) != maxCallLog {
		t.Fatalf("len(log) = %d, want %d", len(log), maxCallLog)
	}
	if log[0].FunctionNumber != 10 {
		t.Fatalf("log[0].FunctionNumber = %d, want 10 (oldest 10 dropped)", log[0].FunctionNumber)
	}
}

func TestEntryNumberMismatchIsNoSuchFunction(t *testing.T) {
	// A slot populated at family 1 but queried under a different number
	// within the same family/slot pairing must fail closed, not silently
	// answer for the wrong function (§4.K step 2's entry.number check).
	g := &Gateway{families: map[int]map[int]FunctionEntry{
		1: {
			1: {Number: 1001, ArgCount: 0, Privilege: 0, Fn: func(args []interface{}) (interface{}, error) { return 1, nil }},
			// misindexed: stored at slot 2 but carries number 1001, so a
			// lookup of 1002 (family 1, slot 2) must not silently answer
			// with the wrong entry.
			2: {Number: 1001, ArgCount: 0, Privilege: 0, Fn: func(args []interface{}) (interface{}, error) { return 1, nil }},
		},
	}}
	if _, err := g.lookup(1001); err != nil {
		t.Fatalf("lookup(1001): %v", err)
	}
	if _, err := g.lookup(1002); err != ErrNoSuchFunction {
		t.Fatalf("lookup(1002) = %v, want ErrNoSuchFunction", err)
	}
}
