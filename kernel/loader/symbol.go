package loader

// Symbol is one entry of a SymbolTable: a resolved name and its address
// within a loaded image (§4.J).
type Symbol struct {
	Name    string
	Address uint32
}

// SymbolTable is what loaderGetSymbols returns: every exported symbol of a
// loaded ELF image, keyed by name for the relocation pass.
type SymbolTable struct {
	Symbols map[string]Symbol
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{Symbols: make(map[string]Symbol)}
}

func (t *SymbolTable) add(name string, addr uint32) {
	t.Symbols[name] = Symbol{Name: name, Address: addr}
}

func (t *SymbolTable) Lookup(name string) (Symbol, bool) {
	s, ok := t.Symbols[name]
	return s, ok
}

// RelocationEntry is one entry of a RelocationTable (§4.J): an offset into
// the image to patch, the symbol whose resolved address feeds the patch,
// a format-specific info word, and an addend.
type RelocationEntry struct {
	Offset     uint32
	SymbolName string
	Info       uint32
	Addend     int32
}

// RelocationTable is the ordered list of patches link applies.
type RelocationTable []RelocationEntry

// Link resolves every entry's SymbolName against table and writes the
// resolved address (reloType-adjusted by Addend) into image at Offset, four
// bytes little-endian, the same R_386_32-style "absolute address" relocation
// ELF uses for data symbols (§4.J's "resolves by name and applies in
// place").
func (rt RelocationTable) Link(image []byte, table *SymbolTable) error {
	for _, r := range rt {
		sym, ok := table.Lookup(r.SymbolName)
		if !ok {
			return ErrNoSuchSymbol
		}
		value := uint32(int64(sym.Address) + int64(r.Addend))
		if int(r.Offset)+4 > len(image) {
			continue
		}
		image[r.Offset+0] = byte(value)
		image[r.Offset+1] = byte(value >> 8)
		image[r.Offset+2] = byte(value >> 16)
		image[r.Offset+3] = byte(value >> 24)
	}
	return nil
}
