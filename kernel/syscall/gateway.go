// Package syscall implements the kernel's single-gate syscall dispatcher
// (§4.K): a family-indexed FunctionEntry table plus the argument-count and
// privilege checks every call passes through before its handler runs.
//
// There is no actual far-call/ring-transition here -- that is architecture
// code outside this core's scope -- just the table lookup and validation
// chain processCall performs once the gate has captured arg_list.
package syscall

import (
	"errors"
	"sync"
)

const (
	// APIMaxArgs bounds arg_count; the original reserves room for 9
	// arguments and this implementation does too (§4.K: "implementation-
	// defined, >= 9 suffices").
	APIMaxArgs = 9

	// maxCallLog bounds the gateway's recent-call diagnostic log (kept
	// for netsniff, §6); oldest entries fall off once it fills.
	maxCallLog = 200
)

var (
	ErrTooManyArgs    = errors.New("syscall: argument count exceeds API_MAX_ARGS")
	ErrNoSuchFunction = errors.New("syscall: no such function")
	ErrArgumentCount  = errors.New("syscall: wrong argument count")
	ErrPermission     = errors.New("syscall: insufficient privilege")
)

// FunctionEntry is (number, fn, arg_count, privilege) (§3's glossary entry).
// fn receives exactly ArgCount arguments, boxed as []interface{} since Go
// has no native analogue of the original's variadic raw-word calling
// convention; the gateway itself still enforces ArgCount before fn ever
// sees them.
type FunctionEntry struct {
	Number    int
	ArgCount  int
	Privilege int
	Fn        func(args []interface{}) (interface{}, error)
}

// family index/slot addressing (§3's glossary): number/1000 selects the
// family, number%1000 the slot. The miscellaneous family lives at index 0
// and owns numbers >= 99000.
func familyIndex(number int) int {
	if number >= 99000 {
		return 0
	}
	return number / 1000
}
func familySlot(number int) int  { return number % 1000 }

// CallRecord is one entry in a Gateway's diagnostic call log: the function
// that was dispatched, the privilege the caller presented, and the error
// ProcessCall returned, if any.
type CallRecord struct {
	FunctionNumber int
	Privilege      int
	Err            error
}

// Gateway holds the per-family FunctionEntry arrays and dispatches calls
// against them (§4.K's processCall).
type Gateway struct {
	families map[int]map[int]FunctionEntry

	mu    sync.Mutex
	calls []CallRecord // up to maxCallLog, oldest first
}

// NewGateway builds a Gateway from the function table, indexing every
// entry by its own (family, slot) so a lookup never has to rescan (§4.K
// step 2's "family-index table").
func NewGateway(table []FunctionEntry) *Gateway {
	g := &Gateway{families: make(map[int]map[int]FunctionEntry)}
	for _, e := range table {
		fam := familyIndex(e.Number)
		slot := familySlot(e.Number)
		if g.families[fam] == nil {
			g.families[fam] = make(map[int]FunctionEntry)
		}
		g.families[fam][slot] = e
	}
	return g
}

// lookup maps a function number to its FunctionEntry, failing
// ErrNoSuchFunction if absent or if the entry stored at that slot does not
// actually claim this number (§4.K step 2's "entry.number != function_number"
// guard against a misindexed table).
func (g *Gateway) lookup(number int) (FunctionEntry, error) {
	fam := g.families[familyIndex(number)]
	if fam == nil {
		return FunctionEntry{}, ErrNoSuchFunction
	}
	e, ok := fam[familySlot(number)]
	if !ok || e.Number != number {
		return FunctionEntry{}, ErrNoSuchFunction
	}
	return e, nil
}

// ProcessCall implements §4.K's processCall: validate arg_count, resolve
// the FunctionEntry, validate the caller's privilege, and invoke it.
// argList mirrors the gate's raw layout: argList[0] is argCount+1,
// argList[1] is functionNumber, argList[2:] are the arguments -- kept this
// way so a caller that already has the gate's raw stack frame can hand it
// over unmodified, per §4.K's entry contract.
func (g *Gateway) ProcessCall(argList []interface{}, callerPrivilege int) (interface{}, error) {
	if len(argList) < 2 {
		g.logCall(-1, callerPrivilege, ErrArgumentCount)
		return nil, ErrArgumentCount
	}
	argCountPlusOne, ok := argList[0].(int)
	if !ok {
		g.logCall(-1, callerPrivilege, ErrArgumentCount)
		return nil, ErrArgumentCount
	}
	argCount := argCountPlusOne - 1
	functionNumber, ok := argList[1].(int)
	if !ok {
		g.logCall(-1, callerPrivilege, ErrNoSuchFunction)
		return nil, ErrNoSuchFunction
	}
	args := argList[2:]

	ret, err := g.dispatch(functionNumber, argCount, args, callerPrivilege)
	g.logCall(functionNumber, callerPrivilege, err)
	return ret, err
}

func (g *Gateway) dispatch(functionNumber, argCount int, args []interface{}, callerPrivilege int) (interface{}, error) {
	if argCount > APIMaxArgs {
		return nil, ErrTooManyArgs
	}
	entry, err := g.lookup(functionNumber)
	if err != nil {
		return nil, err
	}
	if argCount != entry.ArgCount {
		return nil, ErrArgumentCount
	}
	// Numerically lower privilege is more privileged; a caller may invoke
	// anything at or below its own privilege number (§4.K step 4).
	if callerPrivilege > entry.Privilege {
		return nil, ErrPermission
	}
	return entry.Fn(args)
}

// logCall appends to the diagnostic call log, dropping the oldest entry
// once it fills (netsniff reads this through CallLog, §6).
func (g *Gateway) logCall(functionNumber, privilege int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) == maxCallLog {
		copy(g.calls, g.calls[1:])
		g.calls = g.calls[:maxCallLog-1]
	}
	g.calls = append(g.calls, CallRecord{FunctionNumber: functionNumber, Privilege: privilege, Err: err})
}

// CallLog returns a snapshot of the gateway's recent calls, oldest first.
func (g *Gateway) CallLog() []CallRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]CallRecord, len(g.calls))
	copy(out, g.calls)
	return out
}
