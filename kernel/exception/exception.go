// Package exception implements the kernel's process-exception classifier
// and handler (§4.M): vector-to-descriptor classification, the
// kernel-PID-always-panics rule, fatal/non-fatal disposition, and a
// best-effort stack trace against the kernel's own symbol table.
package exception

import (
	"fmt"
	"log"
	"sort"

	"visopsys.dev/kernel/kernel/task"
)

// Type is the coarse exception category (§4.M).
type Type int

const (
	Fault Type = iota
	Trap
	Abort
	Unknown
)

func (t Type) String() string {
	switch t {
	case Fault:
		return "fault"
	case Trap:
		return "trap"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Descriptor is what Classify returns for a vector number (§4.M).
type Descriptor struct {
	Vector int
	Name   string
	Type   Type
	Fatal  bool
}

// vectorTable is the x86 exception vector classification (0-19 are
// architecturally defined; everything else is Unknown and treated as
// fatal out of caution).
var vectorTable = map[int]Descriptor{
	0:  {0, "divide error", Fault, false},
	1:  {1, "debug", Trap, false},
	2:  {2, "non-maskable interrupt", Abort, true},
	3:  {3, "breakpoint", Trap, false},
	4:  {4, "overflow", Trap, false},
	5:  {5, "bound range exceeded", Fault, false},
	6:  {6, "invalid opcode", Fault, true},
	7:  {7, "device not available", Fault, false},
	8:  {8, "double fault", Abort, true},
	9:  {9, "coprocessor segment overrun", Fault, true},
	10: {10, "invalid TSS", Fault, true},
	11: {11, "segment not present", Fault, true},
	12: {12, "stack-segment fault", Fault, true},
	13: {13, "general protection fault", Fault, true},
	14: {14, "page fault", Fault, false},
	16: {16, "x87 floating-point exception", Fault, false},
	17: {17, "alignment check", Fault, false},
	18: {18, "machine check", Abort, true},
	19: {19, "SIMD floating-point exception", Fault, false},
}

// Classify maps a vector number to its descriptor; an unrecognized vector
// classifies as Unknown/fatal (§4.M).
func Classify(vector int) Descriptor {
	if d, ok := vectorTable[vector]; ok {
		return d
	}
	return Descriptor{Vector: vector, Name: "unknown exception", Type: Unknown, Fatal: true}
}

// Symbol is one entry of a kernel symbol table: a name and its starting
// address.
type Symbol struct {
	Name string
	Addr uint32
}

// SymbolTable is the kernel's own loaded symbol table, kept sorted by
// address so StackTrace can binary-search it (§4.M: "matched against the
// sorted symbol table").
type SymbolTable struct {
	syms []Symbol
}

// NewSymbolTable sorts symbols by address and returns a ready-to-query
// table.
func NewSymbolTable(symbols []Symbol) *SymbolTable {
	syms := make([]Symbol, len(symbols))
	copy(syms, symbols)
	sort.Slice(syms, func(i, j int) bool { return syms[i].Addr < syms[j].Addr })
	return &SymbolTable{syms: syms}
}

// Lookup names the function most likely to contain addr: the symbol with
// the greatest address <= addr.
func (t *SymbolTable) Lookup(addr uint32) (Symbol, bool) {
	if len(t.syms) == 0 {
		return Symbol{}, false
	}
	i := sort.Search(len(t.syms), func(i int) bool { return t.syms[i].Addr > addr })
	if i == 0 {
		return Symbol{}, false
	}
	return t.syms[i-1], true
}

// StackTrace walks stack, naming every word >= kernelBase against table
// (§4.M). It is attempted only when table is non-nil ("when the kernel has
// loaded its own symbol table").
func StackTrace(stack []uint32, kernelBase uint32, table *SymbolTable) []string {
	if table == nil {
		return nil
	}
	var trace []string
	for _, word := range stack {
		if word < kernelBase {
			continue
		}
		if sym, ok := table.Lookup(word); ok {
			trace = append(trace, fmt.Sprintf("%#x in %s+%#x", word, sym.Name, word-sym.Addr))
		} else {
			trace = append(trace, fmt.Sprintf("%#x in ???", word))
		}
	}
	return trace
}

// Action is what Handle decided to do, for a caller (or test) that wants
// to observe the outcome without parsing log output.
type Action int

const (
	ActionPanic Action = iota
	ActionKillProcess
	ActionResume
)

// Handle implements §4.M's disposition logic: the kernel's own PID always
// panics; a fatal exception against any other process stops then kills it
// (panicking if setProcessState itself fails); a non-fatal exception logs
// a warning and resumes the faulting process.
func Handle(proc task.Facade, pid task.PID, vector int) (Action, Descriptor) {
	d := Classify(vector)

	if pid == task.KernelPID {
		panic(fmt.Sprintf("kernel exception: vector %d (%s)", vector, d.Name))
	}

	if !d.Fatal {
		log.Printf("exception: pid %d: %s (vector %d), resuming", pid, d.Name, vector)
		return ActionResume, d
	}

	if err := proc.SetState(pid, task.Stopped); err != nil {
		panic(fmt.Sprintf("exception: pid %d: setProcessState failed classifying vector %d: %v", pid, vector, err))
	}
	proc.Kill(pid, true)
	return ActionKillProcess, d
}
