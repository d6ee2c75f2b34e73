package syscall

// Function numbers, grouped by family (number/1000) and generated in the
// same flat, one-constant-per-entry style the original dispatch table used
// -- except here the table below is built directly from these constants,
// so a consumer importing this package can never drift from the producer
// the way the original's `_fnum_ternelTextCursorLeft`-style typo did.
const (
	// Family 0: miscellaneous, numbers >= 99000 (§3 glossary).
	FnShutdown       = 99001
	FnVersion        = 99002
	FnTextCursorLeft = 99003

	// Family 1: filesystem.
	FnFileOpen  = 1001
	FnFileRead  = 1002
	FnFileWrite = 1003
	FnFileClose = 1004

	// Family 2: console/text I/O.
	FnConsolePrint = 2001
	FnConsoleInput = 2002
)

// Handlers bundles the callback functions a concrete kernel build wires
// into the default table; each field's signature matches one FunctionEntry
// below. Any handler left nil is skipped when building the table (useful
// for tests that only want one or two entries live).
type Handlers struct {
	Shutdown       func(kind int, force int) error
	Version        func() string
	TextCursorLeft func() error

	FileOpen  func(path string, mode int) (int, error)
	FileRead  func(handle int, n int) ([]byte, error)
	FileWrite func(handle int, data []byte) (int, error)
	FileClose func(handle int) error

	ConsolePrint func(s string) error
	ConsoleInput func() (string, error)
}

// NewDefaultTable builds the miscellaneous/filesystem/console families from
// h, wiring only the entries whose handler is non-nil (§4.K's FunctionEntry
// array, populated once at kernel init the way the device registry's
// register_fn table is).
func NewDefaultTable(h Handlers) []FunctionEntry {
	var t []FunctionEntry
	add := func(e FunctionEntry) { t = append(t, e) }

	if h.Shutdown != nil {
		fn := h.Shutdown
		add(FunctionEntry{Number: FnShutdown, ArgCount: 2, Privilege: 1, Fn: func(args []interface{}) (interface{}, error) {
			kind, _ := args[0].(int)
			force, _ := args[1].(int)
			return 0, fn(kind, force)
		}})
	}
	if h.Version != nil {
		fn := h.Version
		add(FunctionEntry{Number: FnVersion, ArgCount: 0, Privilege: 1, Fn: func(args []interface{}) (interface{}, error) {
			return fn(), nil
		}})
	}
	if h.TextCursorLeft != nil {
		fn := h.TextCursorLeft
		add(FunctionEntry{Number: FnTextCursorLeft, ArgCount: 0, Privilege: 1, Fn: func(args []interface{}) (interface{}, error) {
			return 0, fn()
		}})
	}
	if h.FileOpen != nil {
		fn := h.FileOpen
		add(FunctionEntry{Number: FnFileOpen, ArgCount: 2, Privilege: 1, Fn: func(args []interface{}) (interface{}, error) {
			path, _ := args[0].(string)
			mode, _ := args[1].(int)
			return fn(path, mode)
		}})
	}
	if h.FileRead != nil {
		fn := h.FileRead
		add(FunctionEntry{Number: FnFileRead, ArgCount: 2, Privilege: 1, Fn: func(args []interface{}) (interface{}, error) {
			handle, _ := args[0].(int)
			n, _ := args[1].(int)
			return fn(handle, n)
		}})
	}
	if h.FileWrite != nil {
		fn := h.FileWrite
		add(FunctionEntry{Number: FnFileWrite, ArgCount: 2, Privilege: 1, Fn: func(args []interface{}) (interface{}, error) {
			handle, _ := args[0].(int)
			data, _ := args[1].([]byte)
			return fn(handle, data)
		}})
	}
	if h.FileClose != nil {
		fn := h.FileClose
		add(FunctionEntry{Number: FnFileClose, ArgCount: 1, Privilege: 1, Fn: func(args []interface{}) (interface{}, error) {
			handle, _ := args[0].(int)
			return 0, fn(handle)
		}})
	}
	if h.ConsolePrint != nil {
		fn := h.ConsolePrint
		add(FunctionEntry{Number: FnConsolePrint, ArgCount: 1, Privilege: 1, Fn: func(args []interface{}) (interface{}, error) {
			s, _ := args[0].(string)
			return 0, fn(s)
		}})
	}
	if h.ConsoleInput != nil {
		fn := h.ConsoleInput
		add(FunctionEntry{Number: FnConsoleInput, ArgCount: 0, Privilege: 1, Fn: func(args []interface{}) (interface{}, error) {
			return fn()
		}})
	}
	return t
}
